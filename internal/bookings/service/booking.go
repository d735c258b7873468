package service

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingserrors "carrental/internal/bookings/errors"
	"carrental/internal/bookings/repository"
	"carrental/internal/bookings/validator"
	"carrental/pkg/auth"
	"carrental/pkg/config"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/model"
)

type BookingService interface {
	CheckAvailability(ctx context.Context, query *model.AvailabilityQuery) (*model.Availability, error)
	Create(ctx context.Context, req *model.BookingRequest) (*model.BookingReceipt, error)
	GetByID(ctx context.Context, id string, actor *auth.Claims) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	UserStats(ctx context.Context, userID string) (*model.UserStats, error)
	Lifecycle
}

// Dependencies groups the collaborators of the booking service. Publisher
// may be nil.
type Dependencies struct {
	Repo          repository.BookingRepository
	Locks         repository.VehicleLockRepository
	Cars          CarReader
	Drivers       DriverDirectory
	Notifications NotificationWriter
	Payments      PaymentVerifier
	Publisher     EventPublisher
	Validator     *validator.BookingValidator
}

type bookingService struct {
	repo          repository.BookingRepository
	locks         repository.VehicleLockRepository
	cars          CarReader
	drivers       DriverDirectory
	notifications NotificationWriter
	payments      PaymentVerifier
	publisher     EventPublisher
	validator     *validator.BookingValidator
	cfg           *config.Config
	admission     *pipeline
	now           func() time.Time
}

func NewBookingService(deps Dependencies, cfg *config.Config) BookingService {
	s := &bookingService{
		repo:          deps.Repo,
		locks:         deps.Locks,
		cars:          deps.Cars,
		drivers:       deps.Drivers,
		notifications: deps.Notifications,
		payments:      deps.Payments,
		publisher:     deps.Publisher,
		validator:     deps.Validator,
		cfg:           cfg,
		now:           time.Now,
	}
	if s.publisher == nil {
		s.publisher = NoopPublisher{}
	}
	s.admission = s.newAdmissionPipeline()
	return s
}

// lookup loads a booking and maps repository sentinels to API errors.
func (s *bookingService) lookup(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

// canView reports whether actor may read booking: its owner, its driver or
// an admin.
func canView(actor *auth.Claims, booking *model.Booking) bool {
	switch {
	case actor == nil:
		return false
	case actor.HasRole(model.RoleAdmin):
		return true
	case actor.HasRole(model.RoleDriver):
		return actor.DriverID != "" && actor.DriverID == booking.DriverID
	default:
		return actor.UserID == booking.UserID
	}
}

func (s *bookingService) GetByID(ctx context.Context, id string, actor *auth.Claims) (*model.Booking, error) {
	booking, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, booking) {
		// Hide existence from callers who may not see the booking.
		return nil, apperrors.NotFoundWithID("Booking", id)
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) ListByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list user bookings", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) UserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	stats, err := s.repo.UserStats(ctx, userID, s.now().UTC())
	if err != nil {
		s.cfg.Log.Error("Failed to compute user stats", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to compute user stats", err)
	}
	return stats, nil
}

// publish emits event on a best-effort basis.
func (s *bookingService) publish(ctx context.Context, event *model.BookingEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", event.EventType,
			"booking_id", event.BookingID,
			"error", err,
		)
	}
}
