package main

import (
	"context"

	adminhandler "carrental/internal/admin/handler"
	adminservice "carrental/internal/admin/service"
	audithandler "carrental/internal/audit/handler"
	auditrepo "carrental/internal/audit/repository"
	auditservice "carrental/internal/audit/service"
	"carrental/internal/bookings/events"
	bookinghandler "carrental/internal/bookings/handler"
	bookingrepo "carrental/internal/bookings/repository"
	bookingservice "carrental/internal/bookings/service"
	bookingvalidator "carrental/internal/bookings/validator"
	carhandler "carrental/internal/cars/handler"
	carrepo "carrental/internal/cars/repository"
	carservice "carrental/internal/cars/service"
	carvalidator "carrental/internal/cars/validator"
	contacthandler "carrental/internal/contacts/handler"
	contactrepo "carrental/internal/contacts/repository"
	contactservice "carrental/internal/contacts/service"
	driverhandler "carrental/internal/drivers/handler"
	driverrepo "carrental/internal/drivers/repository"
	driverservice "carrental/internal/drivers/service"
	drivervalidator "carrental/internal/drivers/validator"
	healthhandler "carrental/internal/health/handler"
	identityhandler "carrental/internal/identity/handler"
	userrepo "carrental/internal/identity/repository"
	identityservice "carrental/internal/identity/service"
	uservalidator "carrental/internal/identity/validator"
	"carrental/internal/payments/gateway"
	paymenthandler "carrental/internal/payments/handler"
	paymentservice "carrental/internal/payments/service"
	paymentvalidator "carrental/internal/payments/validator"
	"carrental/pkg/app"
	"carrental/pkg/auth"
	"carrental/pkg/config"
	"carrental/pkg/contracts"
	"carrental/pkg/kafka"
	kafkamiddleware "carrental/pkg/kafka/middleware"
)

const ServiceName = "rental"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Rental service")
	serverApp := app.NewApplication(cfg)

	publisher := initPublisher(cfg, serverApp)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	handlers := initHandlers(cfg, tokens, publisher)

	serverApp.SetApp(tokens, healthChecks(cfg), handlers...)
	serverApp.Run()
}

// initPublisher connects the booking event producer. Without Kafka, events
// are dropped.
func initPublisher(cfg *config.Config, serverApp *app.Application) bookingservice.EventPublisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Warn("Kafka disabled, booking events will not be published")
		return bookingservice.NoopPublisher{}
	}

	producer, err := kafka.NewProducer(cfg.Kafka, cfg.Kafka.BookingEventsTopic, cfg.Kafka.DeadLetterTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if cfg.Kafka.EnableMiddleware {
		producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafkamiddleware.MetricsProducerMiddleware())
	}
	serverApp.OnShutdown(func(context.Context) {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	cfg.Kafka.LogConfiguration(cfg.Log.Info)
	return events.NewKafkaPublisher(producer)
}

func initHandlers(cfg *config.Config, tokens *auth.TokenManager, publisher bookingservice.EventPublisher) []contracts.Handler {
	bookings := bookingrepo.NewMongoBookingRepository(cfg)
	locks := bookingrepo.NewVehicleLockRepository(cfg)
	cars := carrepo.WithCache(carrepo.NewMongoCarRepository(cfg), cfg.Client.Redis, cfg.CarCacheTTL, cfg.Log)
	drivers := driverrepo.NewMongoDriverRepository(cfg)
	notifications := driverrepo.NewMongoNotificationRepository(cfg)
	users := userrepo.NewMongoUserRepository(cfg)
	contacts := contactrepo.NewMongoContactRepository(cfg)
	bookingEvents := auditrepo.NewMongoEventRepository(cfg)

	driverValidator := drivervalidator.NewDriverValidator(cfg.Log)
	directory := driverservice.NewDirectory(drivers, driverValidator, cfg)
	signer := gateway.NewSigner(cfg.RazorpaySecret)

	bookingService := bookingservice.NewBookingService(bookingservice.Dependencies{
		Repo:          bookings,
		Locks:         locks,
		Cars:          cars,
		Drivers:       directory,
		Notifications: notifications,
		Payments:      signer,
		Publisher:     publisher,
		Validator:     bookingvalidator.NewBookingValidator(cfg.Log),
	}, cfg)
	carService := carservice.NewCarService(cars, bookings, carvalidator.NewCarValidator(cfg.Log), cfg)
	driverService := driverservice.NewDriverService(drivers, notifications, bookings, bookingService, driverValidator, cfg)
	paymentService := paymentservice.NewPaymentService(
		gateway.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpaySecret),
		signer,
		bookingService,
		bookings,
		paymentvalidator.NewPaymentValidator(cfg.Log),
		cfg,
	)
	identityService := identityservice.NewIdentityService(users, directory, tokens, uservalidator.NewUserValidator(cfg.Log), cfg)
	contactService := contactservice.NewContactService(contacts, cfg)
	adminService := adminservice.NewAdminService(users, bookings, cars, contacts, cfg)
	historyService := auditservice.NewHistoryService(bookingEvents, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()
	if err := identityService.EnsureAdmin(ctx); err != nil {
		cfg.Log.Fatal("Failed to bootstrap admin account", "error", err)
	}

	cfg.Log.Info("Rental services initialized", "database", cfg.MongoDatabaseName)
	return []contracts.Handler{
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		carhandler.NewCarHandler(carService, cfg.Log),
		driverhandler.NewDriverHandler(driverService, cfg.Log),
		paymenthandler.NewPaymentHandler(paymentService, cfg.Log),
		identityhandler.NewAuthHandler(identityService, cfg.Log),
		contacthandler.NewContactHandler(contactService, cfg.Log),
		adminhandler.NewAdminHandler(adminService, cfg.Log),
		audithandler.NewHistoryHandler(historyService, cfg.Log),
	}
}

func healthChecks(cfg *config.Config) []healthhandler.Check {
	checks := []healthhandler.Check{{
		Name: "mongo",
		Ping: func(ctx context.Context) error { return cfg.Client.Mongo.Ping(ctx, nil) },
	}}
	if rdb := cfg.Client.Redis; rdb != nil {
		checks = append(checks, healthhandler.Check{
			Name:     "redis",
			Ping:     func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			Optional: true,
		})
	}
	return checks
}
