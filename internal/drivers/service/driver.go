package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingservice "carrental/internal/bookings/service"
	driverserrors "carrental/internal/drivers/errors"
	"carrental/internal/drivers/repository"
	"carrental/internal/drivers/validator"
	"carrental/pkg/config"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/model"
)

const (
	MsgInvalidAction = "Invalid action."
	MsgAlreadyActed  = "This ride request has already been answered"

	EarningsWindowDays = 7
	earningsDateLayout = "2006-01-02"
)

// RideReader is the slice of booking storage the driver views read.
type RideReader interface {
	FindByDriver(ctx context.Context, driverID string) ([]*model.Booking, error)
	DriverTotals(ctx context.Context, driverID string) (int64, float64, error)
}

type DriverService interface {
	Act(ctx context.Context, driverID, notificationID string, action *model.NotificationAction) (*model.NotificationActionResult, error)
	Notifications(ctx context.Context, driverID string) ([]*model.Notification, error)
	Rides(ctx context.Context, driverID string) ([]*model.Booking, error)
	Profile(ctx context.Context, driverID string) (*model.DriverProfile, error)
	Earnings(ctx context.Context, driverID string) (*model.DriverEarnings, error)
	CancelRide(ctx context.Context, req *model.DriverCancelRequest) (*model.Booking, error)
}

type driverService struct {
	drivers       repository.DriverRepository
	notifications repository.NotificationRepository
	rides         RideReader
	lifecycle     bookingservice.Lifecycle
	validator     *validator.DriverValidator
	cfg           *config.Config
	now           func() time.Time
}

func NewDriverService(
	drivers repository.DriverRepository,
	notifications repository.NotificationRepository,
	rides RideReader,
	lifecycle bookingservice.Lifecycle,
	validator *validator.DriverValidator,
	cfg *config.Config,
) DriverService {
	return &driverService{
		drivers:       drivers,
		notifications: notifications,
		rides:         rides,
		lifecycle:     lifecycle,
		validator:     validator,
		cfg:           cfg,
		now:           time.Now,
	}
}

func alertFor(action string) string {
	return fmt.Sprintf("You have %s the ride. User will be notified.", action)
}

// Act applies a driver's answer to a ride request. The notification is
// claimed first so a request is answered once; the booking then moves and
// the rider is told. A failed move reopens the notification.
func (s *driverService) Act(ctx context.Context, driverID, notificationID string, action *model.NotificationAction) (*model.NotificationActionResult, error) {
	if err := s.validator.ValidateAction(action); err != nil {
		return nil, apperrors.InvalidInput(MsgInvalidAction)
	}

	notification, err := s.notifications.FindForDriver(ctx, notificationID, driverID)
	if err != nil {
		if errors.Is(err, driverserrors.ErrNotificationNotFound) {
			return nil, apperrors.NotFound("Notification")
		}
		return nil, apperrors.Storage("load notification", err)
	}
	if notification.Action != model.NotificationActionPending {
		return nil, apperrors.Conflict(MsgAlreadyActed)
	}

	if err := s.notifications.MarkActed(ctx, notificationID, driverID, action.Action); err != nil {
		switch {
		case errors.Is(err, driverserrors.ErrNotificationActed):
			return nil, apperrors.Conflict(MsgAlreadyActed)
		case errors.Is(err, driverserrors.ErrNotificationNotFound):
			return nil, apperrors.NotFound("Notification")
		}
		return nil, apperrors.Storage("update notification", err)
	}

	booking, err := s.lifecycle.ApplyDriverDecision(ctx, notification.BookingID, driverID, action.Action)
	if err != nil {
		s.cfg.Log.Warn("Driver decision rejected",
			"driver_id", driverID,
			"booking_id", notification.BookingID,
			"action", action.Action,
			"error", err,
		)
		if reopenErr := s.notifications.Reopen(context.WithoutCancel(ctx), notificationID, driverID, action.Action); reopenErr != nil {
			s.cfg.Log.Error("Failed to reopen notification",
				"notification_id", notificationID,
				"driver_id", driverID,
				"error", reopenErr,
			)
		}
		return nil, err
	}

	message := fmt.Sprintf("Driver has %s your ride from %s to %s.",
		action.Action, booking.PickupLocation, booking.DropoffLocation)
	userNotice := &model.Notification{
		UserID:    booking.UserID,
		BookingID: booking.ID,
		Message:   message,
		Status:    model.NotificationUnread,
		Action:    action.Action,
	}
	if err := s.notifications.Create(ctx, userNotice); err != nil {
		s.cfg.Log.Error("Failed to notify user of driver decision",
			"booking_id", booking.ID,
			"user_id", booking.UserID,
			"error", err,
		)
	}

	s.cfg.Log.Info("Driver acted on ride request",
		"driver_id", driverID,
		"booking_id", booking.ID,
		"action", action.Action,
		"status", booking.Status,
	)

	return &model.NotificationActionResult{
		Message: fmt.Sprintf("Booking %s by driver.", action.Action),
		Alert:   alertFor(action.Action),
		Booking: booking.ID,
		Status:  booking.Status,
	}, nil
}

func (s *driverService) Notifications(ctx context.Context, driverID string) ([]*model.Notification, error) {
	notifications, err := s.notifications.FindByDriver(ctx, driverID)
	if err != nil {
		return nil, apperrors.Storage("list notifications", err)
	}
	return notifications, nil
}

func (s *driverService) Rides(ctx context.Context, driverID string) ([]*model.Booking, error) {
	rides, err := s.rides.FindByDriver(ctx, driverID)
	if err != nil {
		return nil, apperrors.Storage("list rides", err)
	}
	return rides, nil
}

func (s *driverService) Profile(ctx context.Context, driverID string) (*model.DriverProfile, error) {
	driver, err := s.drivers.FindByID(ctx, driverID)
	if err != nil {
		switch {
		case errors.Is(err, driverserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Driver", driverID)
		case errors.Is(err, driverserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid driver ID format")
		}
		return nil, apperrors.Storage("load driver", err)
	}

	rides, earnings, err := s.rides.DriverTotals(ctx, driverID)
	if err != nil {
		return nil, apperrors.Storage("load driver totals", err)
	}

	return &model.DriverProfile{
		Driver:        driver,
		TotalRides:    rides,
		TotalEarnings: earnings,
	}, nil
}

// Earnings buckets completed rides of the last EarningsWindowDays days,
// today included, by the UTC day they ended. Days run oldest first.
func (s *driverService) Earnings(ctx context.Context, driverID string) (*model.DriverEarnings, error) {
	rides, err := s.rides.FindByDriver(ctx, driverID)
	if err != nil {
		return nil, apperrors.Storage("list rides", err)
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	first := today.AddDate(0, 0, -(EarningsWindowDays - 1))

	days := make([]model.DailyEarnings, EarningsWindowDays)
	for i := range days {
		days[i].Date = first.AddDate(0, 0, i).Format(earningsDateLayout)
	}

	earnings := &model.DriverEarnings{DriverID: driverID}
	for _, ride := range rides {
		if ride.Status != model.BookingStatusCompleted {
			continue
		}
		i := int(ride.EndTime.UTC().Sub(first) / (24 * time.Hour))
		if ride.EndTime.Before(first) || i >= EarningsWindowDays {
			continue
		}
		days[i].Rides++
		days[i].Amount += ride.TotalPrice
		earnings.Total += ride.TotalPrice
	}
	earnings.Days = days
	return earnings, nil
}

func (s *driverService) CancelRide(ctx context.Context, req *model.DriverCancelRequest) (*model.Booking, error) {
	booking, err := s.lifecycle.DriverCancel(ctx, req)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Driver cancelled ride", "driver_id", req.DriverID, "booking_id", req.BookingID)
	return booking, nil
}
