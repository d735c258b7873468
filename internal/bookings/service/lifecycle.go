package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	bookingserrors "carrental/internal/bookings/errors"
	"carrental/internal/bookings/repository"
	"carrental/pkg/auth"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/metrics"
	"carrental/pkg/model"
	"carrental/pkg/validation"
)

const (
	MsgCannotCancel       = "Cannot cancel this booking."
	MsgDriverCannotCancel = "Driver cannot cancel this booking."
	MsgConcurrentUpdate   = "Booking was modified by another request, reload and retry"
	reasonRejectedByDrv   = "rejected by driver"
)

// Lifecycle drives bookings through their states after admission.
type Lifecycle interface {
	Cancel(ctx context.Context, id string, actor *auth.Claims, reason string) (*model.Booking, error)
	DriverCancel(ctx context.Context, req *model.DriverCancelRequest) (*model.Booking, error)
	ApplyDriverDecision(ctx context.Context, id, driverID, decision string) (*model.Booking, error)
	Start(ctx context.Context, id string, actor *auth.Claims) (*model.Booking, error)
	Complete(ctx context.Context, id string, actor *auth.Claims) (*model.Booking, error)
}

var transitions = map[string][]string{
	model.BookingStatusPending: {
		model.BookingStatusAccepted,
		model.BookingStatusRejected,
		model.BookingStatusCancelled,
		model.BookingStatusDriverCancelled,
	},
	model.BookingStatusConfirmed: {
		model.BookingStatusAccepted,
		model.BookingStatusCancelled,
		model.BookingStatusDriverCancelled,
		model.BookingStatusActive,
	},
	model.BookingStatusAccepted: {
		model.BookingStatusActive,
		model.BookingStatusDriverCancelled,
	},
	model.BookingStatusActive: {
		model.BookingStatusCompleted,
	},
}

// CanTransition reports whether a booking may move from one status to
// another. Terminal statuses have no outgoing transitions.
func CanTransition(from, to string) bool {
	return slices.Contains(transitions[from], to)
}

var (
	cancellableStatuses       = []string{model.BookingStatusPending, model.BookingStatusConfirmed}
	driverCancellableStatuses = []string{model.BookingStatusPending, model.BookingStatusConfirmed, model.BookingStatusAccepted}
)

// transition moves booking to status to, conditioned on its status being
// unchanged since it was read.
func (s *bookingService) transition(ctx context.Context, booking *model.Booking, to, reason string) (*model.Booking, error) {
	from := booking.Status
	if !CanTransition(from, to) {
		return nil, apperrors.Forbidden(fmt.Sprintf("Booking cannot move from %s to %s", from, to))
	}

	updated, err := s.repo.UpdateStatus(ctx, booking.ID, repository.StatusChange{From: from, To: to, Reason: reason})
	if err != nil {
		switch {
		case errors.Is(err, bookingserrors.ErrStatusChanged):
			return nil, apperrors.Conflict(MsgConcurrentUpdate).WithCause(err)
		case errors.Is(err, bookingserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Booking", booking.ID)
		case errors.Is(err, bookingserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Storage("update booking status", err)
	}

	metrics.IncTransition(from, to)
	s.cfg.Log.Info("Booking status changed", "id", booking.ID, "from", from, "to", to)
	s.publish(ctx, model.NewBookingEvent(model.BookingEventType(to), from, updated))
	return updated, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string, actor *auth.Claims, reason string) (*model.Booking, error) {
	if actor == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	if err := s.validator.ValidateCancel(&model.CancelRequest{Reason: reason}); err != nil {
		return nil, validation.ToAppError("Invalid cancel request", err)
	}

	booking, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.HasRole(model.RoleAdmin) && actor.UserID != booking.UserID {
		return nil, apperrors.NotFoundWithID("Booking", id)
	}
	if !slices.Contains(cancellableStatuses, booking.Status) {
		return nil, apperrors.Forbidden(MsgCannotCancel)
	}

	return s.transition(ctx, booking, model.BookingStatusCancelled, reason)
}

func (s *bookingService) DriverCancel(ctx context.Context, req *model.DriverCancelRequest) (*model.Booking, error) {
	if err := s.validator.ValidateDriverCancel(req); err != nil {
		return nil, validation.ToAppError("Invalid driver cancel request", err)
	}

	booking, err := s.lookup(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.DriverID != req.DriverID || !slices.Contains(driverCancellableStatuses, booking.Status) {
		return nil, apperrors.Forbidden(MsgDriverCannotCancel)
	}

	return s.transition(ctx, booking, model.BookingStatusDriverCancelled, req.Reason)
}

// ApplyDriverDecision records the assigned driver's answer to a ride request.
// Accepting an already accepted booking changes nothing. Rejecting a booking
// that was accepted on the driver's behalf at admission cancels it for the
// driver, since accepted bookings cannot become rejected.
func (s *bookingService) ApplyDriverDecision(ctx context.Context, id, driverID, decision string) (*model.Booking, error) {
	booking, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.DriverID != driverID {
		return nil, apperrors.Forbidden("Booking is not assigned to this driver")
	}

	switch decision {
	case model.NotificationActionAccepted:
		if booking.Status == model.BookingStatusAccepted {
			return booking, nil
		}
		return s.transition(ctx, booking, model.BookingStatusAccepted, "")
	case model.NotificationActionRejected:
		if booking.Status == model.BookingStatusAccepted {
			return s.transition(ctx, booking, model.BookingStatusDriverCancelled, reasonRejectedByDrv)
		}
		return s.transition(ctx, booking, model.BookingStatusRejected, "")
	}
	return nil, apperrors.InvalidInput("Invalid action.")
}

// canDrive reports whether actor may start or complete booking: an admin or
// the assigned driver.
func canDrive(actor *auth.Claims, booking *model.Booking) bool {
	if actor.HasRole(model.RoleAdmin) {
		return true
	}
	return actor.HasRole(model.RoleDriver) && actor.DriverID != "" && actor.DriverID == booking.DriverID
}

func (s *bookingService) Start(ctx context.Context, id string, actor *auth.Claims) (*model.Booking, error) {
	booking, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canDrive(actor, booking) {
		return nil, apperrors.Forbidden("Only the assigned driver can start this ride")
	}
	return s.transition(ctx, booking, model.BookingStatusActive, "")
}

func (s *bookingService) Complete(ctx context.Context, id string, actor *auth.Claims) (*model.Booking, error) {
	booking, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canDrive(actor, booking) {
		return nil, apperrors.Forbidden("Only the assigned driver can complete this ride")
	}
	return s.transition(ctx, booking, model.BookingStatusCompleted, "")
}
