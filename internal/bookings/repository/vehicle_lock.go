package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "carrental/internal/bookings/errors"
	"carrental/pkg/config"
	mongotx "carrental/pkg/db/mongo"
	"carrental/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "Vehicle_locks"

// VehicleLockRepository serialises admissions per vehicle.
type VehicleLockRepository interface {
	// Acquire returns the holder token of a fresh lock, or ErrLockHeld.
	Acquire(ctx context.Context, carID string, ttl time.Duration) (string, error)
	Release(ctx context.Context, carID, holder string) error
}

type mongoVehicleLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewVehicleLockRepository(cfg *config.Config) VehicleLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoVehicleLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

func (r *mongoVehicleLockRepository) Acquire(ctx context.Context, carID string, ttl time.Duration) (string, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	now := time.Now().UTC()
	lock := &model.VehicleLock{
		ID:        carID,
		Holder:    uuid.NewString(),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err == nil {
		return lock.Holder, nil
	}
	if !mongotx.IsDuplicateKey(err) {
		return "", fmt.Errorf("failed to acquire vehicle lock: %w", err)
	}

	// The TTL monitor runs about once a minute, so an expired lock can
	// linger. Take it over only if it is still expired at write time.
	result, err := r.collection.ReplaceOne(ctx,
		bson.M{"_id": carID, "expires_at": bson.M{"$lt": now}},
		lock,
	)
	if err != nil {
		return "", fmt.Errorf("failed to take over vehicle lock: %w", err)
	}
	if result.MatchedCount == 0 {
		return "", bookingserrors.ErrLockHeld
	}
	return lock.Holder, nil
}

func (r *mongoVehicleLockRepository) Release(ctx context.Context, carID, holder string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": carID, "holder": holder}); err != nil {
		return fmt.Errorf("failed to release vehicle lock: %w", err)
	}
	return nil
}
