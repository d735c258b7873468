package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "carrental/internal/bookings/errors"
	"carrental/pkg/config"
	mongotx "carrental/pkg/db/mongo"
	"carrental/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

// StatusChange moves a booking from one status to another. Reason is stored
// only when non-empty.
type StatusChange struct {
	From   string
	To     string
	Reason string
}

type PaymentUpdate struct {
	OrderID   string
	PaymentID string
	Signature string
	Status    string
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context) (int64, error)
	FindOverlapping(ctx context.Context, carID string, interval model.Interval, statuses []string) ([]*model.Booking, error)
	FindByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	FindByDriver(ctx context.Context, driverID string) ([]*model.Booking, error)
	FindWithPayment(ctx context.Context) ([]*model.Booking, error)
	CountUpcomingForCar(ctx context.Context, carID string, statuses []string, now time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id string, change StatusChange) (*model.Booking, error)
	UpdatePayment(ctx context.Context, id string, update PaymentUpdate) error
	SumRevenue(ctx context.Context) (float64, error)
	UserStats(ctx context.Context, userID string, now time.Time) (*model.UserStats, error)
	DriverTotals(ctx context.Context, driverID string) (int64, float64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) objectID(id string) (primitive.ObjectID, error) {
	oid, ok := mongotx.ObjectID(id)
	if !ok {
		return oid, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}
	return oid, nil
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	// A retried transaction re-runs Create; drop the id of the aborted attempt.
	booking.ID = ""
	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	objectID, err := r.objectID(id)
	if err != nil {
		return nil, err
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if mongotx.IsNoDocuments(err) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)
	return r.find(ctx, bson.M{}, opts)
}

func (r *mongoBookingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// FindOverlapping returns bookings for carID in one of statuses whose
// [start_time, end_time) intersects interval.
func (r *mongoBookingRepository) FindOverlapping(ctx context.Context, carID string, interval model.Interval, statuses []string) ([]*model.Booking, error) {
	filter := bson.M{
		"car_id":     carID,
		"status":     bson.M{"$in": statuses},
		"start_time": bson.M{"$lt": interval.End},
		"end_time":   bson.M{"$gt": interval.Start},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *mongoBookingRepository) FindByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

func (r *mongoBookingRepository) FindByDriver(ctx context.Context, driverID string) ([]*model.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}})
	return r.find(ctx, bson.M{"driver_id": driverID}, opts)
}

func (r *mongoBookingRepository) FindWithPayment(ctx context.Context) ([]*model.Booking, error) {
	filter := bson.M{"payment_id": bson.M{"$exists": true, "$ne": ""}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, filter, opts)
}

func (r *mongoBookingRepository) CountUpcomingForCar(ctx context.Context, carID string, statuses []string, now time.Time) (int64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	filter := bson.M{
		"car_id":   carID,
		"status":   bson.M{"$in": statuses},
		"end_time": bson.M{"$gte": now},
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count car bookings: %w", err)
	}
	return count, nil
}

// UpdateStatus applies change only while the stored status still equals
// change.From and returns the updated booking.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, change StatusChange) (*model.Booking, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	objectID, err := r.objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"status":     change.To,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}
	if change.Reason != "" {
		set["cancellation_reason"] = change.Reason
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated model.Booking
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objectID, "status": change.From},
		bson.M{"$set": set},
		opts,
	).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !mongotx.IsNoDocuments(err) {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
	if err != nil {
		return nil, fmt.Errorf("failed to check booking existence: %w", err)
	}
	if count == 0 {
		return nil, bookingserrors.ErrNotFound
	}
	return nil, bookingserrors.ErrStatusChanged
}

func (r *mongoBookingRepository) UpdatePayment(ctx context.Context, id string, update PaymentUpdate) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	objectID, err := r.objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$set": bson.M{
			"order_id":       update.OrderID,
			"payment_id":     update.PaymentID,
			"signature":      update.Signature,
			"payment_status": update.Status,
			"updated_at":     time.Now().UTC().Truncate(time.Millisecond),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update booking payment: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}

func (r *mongoBookingRepository) SumRevenue(ctx context.Context) (float64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"payment_status": model.PaymentStatusSuccess}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$total_price"}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate revenue: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("failed to decode revenue: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

var upcomingStatuses = []string{
	model.BookingStatusConfirmed,
	model.BookingStatusAccepted,
	model.BookingStatusActive,
}

func (r *mongoBookingRepository) UserStats(ctx context.Context, userID string, now time.Time) (*model.UserStats, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	stats := &model.UserStats{}
	var err error

	if stats.TotalBookings, err = r.collection.CountDocuments(ctx, bson.M{"user_id": userID}); err != nil {
		return nil, fmt.Errorf("failed to count user bookings: %w", err)
	}
	stats.ActiveBookings, err = r.collection.CountDocuments(ctx, bson.M{
		"user_id":  userID,
		"status":   bson.M{"$in": upcomingStatuses},
		"end_time": bson.M{"$gte": now},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count active bookings: %w", err)
	}
	stats.CompletedBookings, err = r.collection.CountDocuments(ctx, bson.M{
		"user_id": userID,
		"status":  model.BookingStatusCompleted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count completed bookings: %w", err)
	}

	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID, "payment_status": model.PaymentStatusSuccess}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$total_price"}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate user spend: %w", err)
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	err = cursor.All(ctx, &rows)
	cursor.Close(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to decode user spend: %w", err)
	}
	if len(rows) > 0 {
		stats.TotalSpent = rows[0].Total
	}

	var next model.Booking
	err = r.collection.FindOne(ctx,
		bson.M{
			"user_id":    userID,
			"status":     bson.M{"$in": upcomingStatuses},
			"start_time": bson.M{"$gte": now},
		},
		options.FindOne().SetSort(bson.D{{Key: "start_time", Value: 1}}),
	).Decode(&next)
	switch {
	case err == nil:
		stats.NextBooking = &next
	case !mongotx.IsNoDocuments(err):
		return nil, fmt.Errorf("failed to find next booking: %w", err)
	}

	return stats, nil
}

// DriverTotals returns the number of rides assigned to driverID and the
// earnings from the completed ones.
func (r *mongoBookingRepository) DriverTotals(ctx context.Context, driverID string) (int64, float64, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.MongoOpTimeout)
	defer cancel()

	rides, err := r.collection.CountDocuments(ctx, bson.M{"driver_id": driverID})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count driver rides: %w", err)
	}

	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"driver_id": driverID, "status": model.BookingStatusCompleted}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$total_price"}}}},
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate driver earnings: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, 0, fmt.Errorf("failed to decode driver earnings: %w", err)
	}
	if len(rows) == 0 {
		return rides, 0, nil
	}
	return rides, rows[0].Total, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
