package repository

import (
	"context"
	"fmt"
	"time"

	carserrors "carrental/internal/cars/errors"
	"carrental/pkg/config"
	mongotx "carrental/pkg/db/mongo"
	"carrental/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Cars"
)

type CarRepository interface {
	Create(ctx context.Context, car *model.Car) error
	InsertMany(ctx context.Context, cars []*model.Car) error
	FindByID(ctx context.Context, id string) (*model.Car, error)
	FindAll(ctx context.Context, onlyAvailable bool, limit int, offset int64) ([]*model.Car, error)
	Count(ctx context.Context, onlyAvailable bool) (int64, error)
	Update(ctx context.Context, id string, update *model.CarUpdate) (*model.Car, error)
	Delete(ctx context.Context, id string) error
}

type mongoCarRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoCarRepository(cfg *config.Config) CarRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCarRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoCarRepository) objectID(id string) (primitive.ObjectID, error) {
	oid, ok := mongotx.ObjectID(id)
	if !ok {
		return oid, fmt.Errorf("%w: %s", carserrors.ErrInvalidID, id)
	}
	return oid, nil
}

func stamp(car *model.Car) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	// Ids are assigned by Mongo so they are stored as ObjectIDs.
	car.ID = ""
	car.CreatedAt = now
	car.UpdatedAt = now
}

func (r *mongoCarRepository) Create(ctx context.Context, car *model.Car) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	stamp(car)
	result, err := r.collection.InsertOne(ctx, car)
	if err != nil {
		return fmt.Errorf("failed to create car: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		car.ID = oid.Hex()
	}
	return nil
}

func (r *mongoCarRepository) InsertMany(ctx context.Context, cars []*model.Car) error {
	if len(cars) == 0 {
		return nil
	}
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	docs := make([]any, 0, len(cars))
	for _, car := range cars {
		stamp(car)
		docs = append(docs, car)
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to insert cars: %w", err)
	}
	for i, id := range result.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok && i < len(cars) {
			cars[i].ID = oid.Hex()
		}
	}
	return nil
}

func (r *mongoCarRepository) FindByID(ctx context.Context, id string) (*model.Car, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	objectID, err := r.objectID(id)
	if err != nil {
		return nil, err
	}

	var car model.Car
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&car); err != nil {
		if mongotx.IsNoDocuments(err) {
			return nil, fmt.Errorf("%w: %s", carserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find car: %w", err)
	}
	return &car, nil
}

func listFilter(onlyAvailable bool) bson.M {
	if onlyAvailable {
		return bson.M{"available": true}
	}
	return bson.M{}
}

func (r *mongoCarRepository) FindAll(ctx context.Context, onlyAvailable bool, limit int, offset int64) ([]*model.Car, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, listFilter(onlyAvailable), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query cars: %w", err)
	}
	defer cursor.Close(ctx)

	cars := []*model.Car{}
	if err = cursor.All(ctx, &cars); err != nil {
		return nil, fmt.Errorf("failed to decode cars: %w", err)
	}
	return cars, nil
}

func (r *mongoCarRepository) Count(ctx context.Context, onlyAvailable bool) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, listFilter(onlyAvailable))
	if err != nil {
		return 0, fmt.Errorf("failed to count cars: %w", err)
	}
	return count, nil
}

// Update sets the fields present in update and returns the stored car.
func (r *mongoCarRepository) Update(ctx context.Context, id string, update *model.CarUpdate) (*model.Car, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	objectID, err := r.objectID(id)
	if err != nil {
		return nil, err
	}

	raw, err := bson.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("failed to encode car update: %w", err)
	}
	set := bson.M{}
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("failed to encode car update: %w", err)
	}
	set["updated_at"] = time.Now().UTC().Truncate(time.Millisecond)

	var car model.Car
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&car)
	if err != nil {
		if mongotx.IsNoDocuments(err) {
			return nil, fmt.Errorf("%w: %s", carserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to update car: %w", err)
	}
	return &car, nil
}

func (r *mongoCarRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	objectID, err := r.objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", carserrors.ErrNotFound, id)
	}
	return nil
}
