package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"carrental/pkg/logger"
	"carrental/pkg/model"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "car:"

// cachedCarRepository serves FindByID from Redis and falls through to the
// wrapped repository on a miss or any cache error. Writes invalidate the
// affected entry.
type cachedCarRepository struct {
	CarRepository
	redis *redis.Client
	ttl   time.Duration
	log   *logger.Logger
}

// WithCache wraps repo with a Redis read-through cache. A nil client or a
// non-positive ttl returns repo unchanged.
func WithCache(repo CarRepository, rdb *redis.Client, ttl time.Duration, log *logger.Logger) CarRepository {
	if rdb == nil || ttl <= 0 {
		return repo
	}
	return &cachedCarRepository{CarRepository: repo, redis: rdb, ttl: ttl, log: log}
}

func cacheKey(id string) string {
	return cacheKeyPrefix + id
}

func (r *cachedCarRepository) FindByID(ctx context.Context, id string) (*model.Car, error) {
	if car, ok := r.read(ctx, id); ok {
		return car, nil
	}

	car, err := r.CarRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.write(ctx, car)
	return car, nil
}

func (r *cachedCarRepository) Update(ctx context.Context, id string, update *model.CarUpdate) (*model.Car, error) {
	car, err := r.CarRepository.Update(ctx, id, update)
	r.invalidate(ctx, id)
	return car, err
}

func (r *cachedCarRepository) Delete(ctx context.Context, id string) error {
	err := r.CarRepository.Delete(ctx, id)
	r.invalidate(ctx, id)
	return err
}

func (r *cachedCarRepository) read(ctx context.Context, id string) (*model.Car, bool) {
	val, err := r.redis.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("car cache read failed", "car_id", id, "error", err)
		}
		return nil, false
	}

	var car model.Car
	if err := json.Unmarshal(val, &car); err != nil {
		r.log.Warn("car cache entry is corrupt", "car_id", id, "error", err)
		return nil, false
	}
	return &car, true
}

func (r *cachedCarRepository) write(ctx context.Context, car *model.Car) {
	data, err := json.Marshal(car)
	if err != nil {
		return
	}
	if err := r.redis.Set(ctx, cacheKey(car.ID), data, r.ttl).Err(); err != nil {
		r.log.Warn("car cache write failed", "car_id", car.ID, "error", err)
	}
}

func (r *cachedCarRepository) invalidate(ctx context.Context, id string) {
	if err := r.redis.Del(context.WithoutCancel(ctx), cacheKey(id)).Err(); err != nil {
		r.log.Warn("car cache invalidation failed", "car_id", id, "error", err)
	}
}
