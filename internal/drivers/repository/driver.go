package repository

import (
	"context"
	"fmt"
	"time"

	driverserrors "carrental/internal/drivers/errors"
	"carrental/pkg/config"
	mongotx "carrental/pkg/db/mongo"
	"carrental/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DriversCollection = "Drivers"
)

type DriverRepository interface {
	FindByID(ctx context.Context, id string) (*model.Driver, error)
	FindByEmail(ctx context.Context, email string) (*model.Driver, error)
	// FindOrCreate returns the driver registered under driver.Email, inserting
	// driver when none exists.
	FindOrCreate(ctx context.Context, driver *model.Driver) (*model.Driver, error)
}

type mongoDriverRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoDriverRepository(cfg *config.Config) DriverRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDriverRepository{
		cfg:        cfg,
		collection: db.Collection(DriversCollection),
	}
}

func (r *mongoDriverRepository) findOne(ctx context.Context, filter bson.M) (*model.Driver, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	var driver model.Driver
	if err := r.collection.FindOne(ctx, filter).Decode(&driver); err != nil {
		if mongotx.IsNoDocuments(err) {
			return nil, driverserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find driver: %w", err)
	}
	return &driver, nil
}

func (r *mongoDriverRepository) FindByID(ctx context.Context, id string) (*model.Driver, error) {
	objectID, ok := mongotx.ObjectID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", driverserrors.ErrInvalidID, id)
	}
	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *mongoDriverRepository) FindByEmail(ctx context.Context, email string) (*model.Driver, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoDriverRepository) FindOrCreate(ctx context.Context, driver *model.Driver) (*model.Driver, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	driver.ID = ""
	driver.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored model.Driver
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"email": driver.Email},
		bson.M{"$setOnInsert": driver},
		opts,
	).Decode(&stored)
	if err != nil {
		// Two concurrent upserts can race on the unique email index; the
		// loser reads the winner's document.
		if mongotx.IsDuplicateKey(err) {
			return r.FindByEmail(ctx, driver.Email)
		}
		return nil, fmt.Errorf("failed to upsert driver: %w", err)
	}
	return &stored, nil
}
