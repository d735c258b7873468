package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	carserrors "carrental/internal/cars/errors"
	"carrental/pkg/logger"
	"carrental/pkg/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepo struct {
	CarRepository
	cars  map[string]*model.Car
	reads int
}

func (r *countingRepo) FindByID(_ context.Context, id string) (*model.Car, error) {
	r.reads++
	car, ok := r.cars[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", carserrors.ErrNotFound, id)
	}
	copied := *car
	return &copied, nil
}

func (r *countingRepo) Update(_ context.Context, id string, update *model.CarUpdate) (*model.Car, error) {
	car := r.cars[id]
	if update.Price != nil {
		car.Price = *update.Price
	}
	copied := *car
	return &copied, nil
}

func (r *countingRepo) Delete(_ context.Context, id string) error {
	delete(r.cars, id)
	return nil
}

func newCached(t *testing.T) (*miniredis.Miniredis, *countingRepo, CarRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	inner := &countingRepo{cars: map[string]*model.Car{
		"66f1c0ffee0000000000c001": {ID: "66f1c0ffee0000000000c001", Name: "Toyota Innova Crysta", Price: 4500, Inventory: 2, Available: true},
	}}
	return mr, inner, WithCache(inner, rdb, time.Minute, logger.Discard())
}

func TestCache_ReadThrough(t *testing.T) {
	mr, inner, repo := newCached(t)
	ctx := context.Background()

	first, err := repo.FindByID(ctx, "66f1c0ffee0000000000c001")
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, "66f1c0ffee0000000000c001")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.reads, "second read is served from redis")
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, 2, second.Inventory)
	assert.True(t, mr.Exists("car:66f1c0ffee0000000000c001"))

	mr.FastForward(2 * time.Minute)
	_, err = repo.FindByID(ctx, "66f1c0ffee0000000000c001")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.reads, "expired entries are reloaded")
}

func TestCache_UpdateInvalidates(t *testing.T) {
	mr, inner, repo := newCached(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "66f1c0ffee0000000000c001")
	require.NoError(t, err)

	price := 5000.0
	_, err = repo.Update(ctx, "66f1c0ffee0000000000c001", &model.CarUpdate{Price: &price})
	require.NoError(t, err)
	assert.False(t, mr.Exists("car:66f1c0ffee0000000000c001"))

	car, err := repo.FindByID(ctx, "66f1c0ffee0000000000c001")
	require.NoError(t, err)
	assert.Equal(t, 5000.0, car.Price)
	assert.Equal(t, 2, inner.reads)
}

func TestCache_DeleteInvalidates(t *testing.T) {
	_, _, repo := newCached(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, "66f1c0ffee0000000000c001")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, "66f1c0ffee0000000000c001"))

	_, err = repo.FindByID(ctx, "66f1c0ffee0000000000c001")
	assert.True(t, errors.Is(err, carserrors.ErrNotFound))
}

func TestCache_FallsBackWhenRedisIsDown(t *testing.T) {
	mr, inner, repo := newCached(t)
	mr.Close()

	car, err := repo.FindByID(context.Background(), "66f1c0ffee0000000000c001")
	require.NoError(t, err)
	assert.Equal(t, "Toyota Innova Crysta", car.Name)
	assert.Equal(t, 1, inner.reads)
}

func TestCache_MissesAreNotCached(t *testing.T) {
	mr, inner, repo := newCached(t)

	_, err := repo.FindByID(context.Background(), "66f1c0ffee0000000000c0ff")
	assert.True(t, errors.Is(err, carserrors.ErrNotFound))
	assert.Empty(t, mr.Keys())
	assert.Equal(t, 1, inner.reads)
}

func TestWithCache_Disabled(t *testing.T) {
	inner := &countingRepo{}
	assert.Same(t, CarRepository(inner), WithCache(inner, nil, time.Minute, logger.Discard()))
}
