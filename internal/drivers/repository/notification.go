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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	NotificationsCollection = "Notifications"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindByDriver(ctx context.Context, driverID string) ([]*model.Notification, error)
	FindForDriver(ctx context.Context, id, driverID string) (*model.Notification, error)
	// MarkActed records the driver's action and marks the notification read.
	// Only a pending notification can be acted on; otherwise it returns
	// ErrNotificationActed.
	MarkActed(ctx context.Context, id, driverID, action string) error
	// Reopen undoes MarkActed for action, making the notification pending again.
	Reopen(ctx context.Context, id, driverID, action string) error
}

type mongoNotificationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoNotificationRepository(cfg *config.Config) NotificationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoNotificationRepository{
		cfg:        cfg,
		collection: db.Collection(NotificationsCollection),
	}
}

func (r *mongoNotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	notification.ID = ""
	notification.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	result, err := r.collection.InsertOne(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		notification.ID = oid.Hex()
	}
	return nil
}

func (r *mongoNotificationRepository) FindByDriver(ctx context.Context, driverID string) ([]*model.Notification, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"driver_id": driverID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := []*model.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

func (r *mongoNotificationRepository) FindForDriver(ctx context.Context, id, driverID string) (*model.Notification, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	objectID, ok := mongotx.ObjectID(id)
	if !ok {
		return nil, driverserrors.ErrNotificationNotFound
	}

	var notification model.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": objectID, "driver_id": driverID}).Decode(&notification)
	if err != nil {
		if mongotx.IsNoDocuments(err) {
			return nil, driverserrors.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}
	return &notification, nil
}

func (r *mongoNotificationRepository) MarkActed(ctx context.Context, id, driverID, action string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	objectID, ok := mongotx.ObjectID(id)
	if !ok {
		return driverserrors.ErrNotificationNotFound
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "driver_id": driverID, "action": model.NotificationActionPending},
		bson.M{"$set": bson.M{"status": model.NotificationRead, "action": action}},
	)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	exists, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID, "driver_id": driverID})
	if err != nil {
		return fmt.Errorf("failed to check notification: %w", err)
	}
	if exists == 0 {
		return driverserrors.ErrNotificationNotFound
	}
	return driverserrors.ErrNotificationActed
}

func (r *mongoNotificationRepository) Reopen(ctx context.Context, id, driverID, action string) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	objectID, ok := mongotx.ObjectID(id)
	if !ok {
		return driverserrors.ErrNotificationNotFound
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "driver_id": driverID, "action": action},
		bson.M{"$set": bson.M{"status": model.NotificationUnread, "action": model.NotificationActionPending}},
	)
	if err != nil {
		return fmt.Errorf("failed to reopen notification: %w", err)
	}
	return nil
}
