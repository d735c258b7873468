package repository

import (
	"context"
	"fmt"
	"time"

	"carrental/pkg/config"
	mongotx "carrental/pkg/db/mongo"
	"carrental/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BookingEventsCollection = "Booking_events"
)

type EventRepository interface {
	// Save stores event under its event id. Redelivered events are ignored
	// and reported with stored=false.
	Save(ctx context.Context, event *model.BookingEvent) (stored bool, err error)
	FindByBooking(ctx context.Context, bookingID string) ([]*model.BookingEvent, error)
}

type mongoEventRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoEventRepository(cfg *config.Config) EventRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoEventRepository{
		cfg:        cfg,
		collection: db.Collection(BookingEventsCollection),
	}
}

func (r *mongoEventRepository) Save(ctx context.Context, event *model.BookingEvent) (bool, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	if _, err := r.collection.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to save booking event %s: %w", event.EventID, err)
	}
	return true, nil
}

func (r *mongoEventRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.BookingEvent, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find events for booking %s: %w", bookingID, err)
	}
	defer cursor.Close(ctx)

	events := make([]*model.BookingEvent, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode booking events: %w", err)
	}
	return events, nil
}
