package mongo

import (
	"context"
	"fmt"

	auditrepo "carrental/internal/audit/repository"
	bookingrepo "carrental/internal/bookings/repository"
	carrepo "carrental/internal/cars/repository"
	contactrepo "carrental/internal/contacts/repository"
	driverrepo "carrental/internal/drivers/repository"
	userrepo "carrental/internal/identity/repository"
	"carrental/internal/migrations/mongo/validators"
	"carrental/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	CarsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "available", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "car_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start_time", Value: 1},
			{Key: "end_time", Value: 1},
		}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "driver_id", Value: 1}, {Key: "start_time", Value: -1}}},
		{Keys: bson.D{{Key: "payment_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	// Expired locks are also taken over on acquire; the TTL index only keeps
	// the collection small.
	VehicleLocksIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	}

	DriversIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	NotificationsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "driver_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "booking_id", Value: 1}}},
	}

	UsersIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	ContactsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	BookingEventsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "occurred_at", Value: 1}}},
		{Keys: bson.D{{Key: "event_type", Value: 1}, {Key: "received_at", Value: -1}}},
	}
)

type CollectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// Collections lists every collection the services use, with its schema
// validator (if any) and indexes.
func Collections() map[string]CollectionDef {
	return map[string]CollectionDef{
		carrepo.CollectionName:             {Indexes: CarsIndexes, Validator: validators.CarValidator},
		bookingrepo.CollectionName:         {Indexes: BookingsIndexes, Validator: validators.BookingValidator},
		bookingrepo.LockCollectionName:     {Indexes: VehicleLocksIndexes},
		driverrepo.DriversCollection:       {Indexes: DriversIndexes, Validator: validators.DriverValidator},
		driverrepo.NotificationsCollection: {Indexes: NotificationsIndexes},
		userrepo.UsersCollection:           {Indexes: UsersIndexes, Validator: validators.UserValidator},
		contactrepo.ContactsCollection:     {Indexes: ContactsIndexes},
		auditrepo.BookingEventsCollection:  {Indexes: BookingEventsIndexes},
	}
}

func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator == nil {
		return nil
	}
	log.Info("Collection exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}
