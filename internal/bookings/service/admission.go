package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	bookingserrors "carrental/internal/bookings/errors"
	carserrors "carrental/internal/cars/errors"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/metrics"
	"carrental/pkg/model"
	"carrental/pkg/sanitizer"
	"carrental/pkg/validation"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	StepValidate          = "validate"
	StepReserve           = "reserve"
	StepCheckAvailability = "check_availability"
	StepPrice             = "price"
	StepAttachDriver      = "attach_driver"
	StepSettlePayment     = "settle_payment"
	StepPersist           = "persist"
	StepPublish           = "publish"

	MsgVehicleBusy          = "Vehicle is being reserved by another request, please retry"
	MsgCarDisabled          = "This car is not available for booking"
	MsgInvalidSignature     = "Invalid payment signature. Payment verification failed."
	notificationDateLayout  = "2006-01-02"
	newRideRequestMessage   = "New ride request: %s to %s for %s"
	admissionResultAdmitted = "admitted"

	lockRetryInitial = 20 * time.Millisecond
	lockRetryMax     = 250 * time.Millisecond
)

func (s *bookingService) newAdmissionPipeline() *pipeline {
	return newPipeline(s.cfg.Log,
		newStep(StepValidate, s.validateStep),
		newStep(StepReserve, s.reserveStep),
		newStep(StepCheckAvailability, s.checkAvailabilityStep),
		newStep(StepPrice, s.priceStep),
		newStep(StepAttachDriver, s.attachDriverStep),
		newStep(StepSettlePayment, s.settlePaymentStep),
		newStep(StepPersist, s.persistStep),
		newStep(StepPublish, s.publishStep),
	)
}

// Create admits a booking request. Two admissions for the same vehicle are
// serialised by the vehicle lock, so the availability check and the insert
// observe a consistent set of occupying bookings.
func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.BookingReceipt, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Booking request cannot be empty")
	}

	a := &admission{request: req}
	if err := s.admission.run(ctx, a); err != nil {
		result := admissionResult(err)
		metrics.IncAdmission(result)
		s.cfg.Log.Warn("Booking admission rejected",
			"car_id", req.CarID,
			"user_id", req.UserID,
			"result", result,
			"error", err,
		)
		return nil, err
	}

	metrics.IncAdmission(admissionResultAdmitted)
	s.cfg.Log.Info("Booking created successfully",
		"id", a.booking.ID,
		"car_id", a.booking.CarID,
		"status", a.booking.Status,
		"payment_status", a.booking.PaymentStatus,
		"driver_id", a.booking.DriverID,
	)
	return a.booking.Receipt(), nil
}

func admissionResult(err error) string {
	appErr := apperrors.AsAppError(err)
	switch appErr.Code {
	case apperrors.CodeNoUnitsAvailable:
		return "no_units"
	case apperrors.CodeConflict:
		return "conflict"
	case apperrors.CodeValidation, apperrors.CodeInvalidInput:
		return "invalid"
	case apperrors.CodePaymentVerification:
		return "payment_rejected"
	case apperrors.CodeNotFound:
		return "not_found"
	}
	return "error"
}

// validateStep builds the booking from the request with defaults applied.
// Status and payment status start as pending and are settled by later steps.
func (s *bookingService) validateStep(_ context.Context, a *admission) error {
	req := a.request

	booking := &model.Booking{
		CarID:           sanitizer.SanitizeToken(req.CarID),
		UserID:          sanitizer.SanitizeToken(req.UserID),
		UserEmail:       sanitizer.SanitizeEmail(req.UserEmail),
		StartTime:       req.StartTime.UTC(),
		EndTime:         req.EndTime.UTC(),
		PickupLocation:  sanitizer.SanitizeText(req.PickupLocation),
		DropoffLocation: sanitizer.SanitizeText(req.DropoffLocation),
		DriverOption:    strings.ToLower(sanitizer.SanitizeToken(req.DriverOption)),
		DrivingLicense:  strings.ToUpper(sanitizer.SanitizeToken(req.DrivingLicense)),
		LicenseExpiry:   req.LicenseExpiry,
		LicenseState:    sanitizer.SanitizeText(req.LicenseState),
		BookingType:     strings.ToLower(sanitizer.SanitizeToken(req.BookingType)),
		PaymentMethod:   strings.ToLower(sanitizer.SanitizeToken(req.PaymentMethod)),
		OrderID:         sanitizer.SanitizeToken(req.OrderID),
		PaymentID:       sanitizer.SanitizeToken(req.PaymentID),
		Signature:       sanitizer.SanitizeToken(req.Signature),
		Status:          model.BookingStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
	}

	if booking.DriverOption == "" {
		booking.DriverOption = model.DriverOptionWithDriver
	}
	if booking.PaymentMethod == "" {
		booking.PaymentMethod = model.PaymentMethodOnline
	}
	if booking.BookingType == "" {
		booking.BookingType = model.BookingTypeDaily
	}
	if booking.DropoffLocation == "" {
		booking.DropoffLocation = booking.PickupLocation
	}
	if booking.DriverOption != model.DriverOptionSelfDrive {
		booking.DrivingLicense = ""
		booking.LicenseExpiry = nil
		booking.LicenseState = ""
	}

	if err := s.validator.Validate(booking); err != nil {
		return validation.ToAppError("Invalid booking input", err)
	}

	a.booking = booking
	return nil
}

func (s *bookingService) reserveStep(ctx context.Context, a *admission) error {
	carID := a.booking.CarID

	holder, err := s.acquireLock(ctx, carID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return apperrors.Conflict(MsgVehicleBusy).WithCause(err)
		}
		return apperrors.Storage("acquire vehicle lock", err)
	}

	a.lockHolder = holder
	a.onFinish(func(ctx context.Context) {
		if err := s.locks.Release(ctx, carID, holder); err != nil {
			s.cfg.Log.Warn("Failed to release vehicle lock", "car_id", carID, "error", err)
		}
	})
	return nil
}

// acquireLock waits up to VehicleLockWait for another admission on the same
// vehicle to finish. ErrLockHeld is returned once the wait or ctx runs out.
func (s *bookingService) acquireLock(ctx context.Context, carID string) (string, error) {
	deadline := time.Now().Add(s.cfg.VehicleLockWait)
	backoff := lockRetryInitial

	for {
		holder, err := s.locks.Acquire(ctx, carID, s.cfg.VehicleLockTTL)
		if !errors.Is(err, bookingserrors.ErrLockHeld) {
			return holder, err
		}

		wait := min(backoff, time.Until(deadline))
		if wait <= 0 {
			return "", err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", err
		case <-timer.C:
		}
		backoff = min(backoff*2, lockRetryMax)
	}
}

func (s *bookingService) checkAvailabilityStep(ctx context.Context, a *admission) error {
	car, err := s.cars.FindByID(ctx, a.booking.CarID)
	if err != nil {
		switch {
		case errors.Is(err, carserrors.ErrNotFound):
			return apperrors.NotFoundWithID("Car", a.booking.CarID)
		case errors.Is(err, carserrors.ErrInvalidID):
			return apperrors.InvalidInput("Invalid car ID format")
		}
		// Pricing needs the car, so this read cannot fail open.
		return apperrors.Storage("load car", err)
	}
	if !car.Available {
		return apperrors.NoUnitsAvailable(MsgCarDisabled)
	}

	availability := s.evaluate(ctx, car, a.booking.Interval())
	if availability.Warning != "" {
		s.cfg.Log.Warn("Admitting booking without verified availability", "car_id", car.ID)
	}
	if availability.AvailableUnits <= 0 {
		return apperrors.NoUnitsAvailable(MsgNotAvailable).WithDetails(map[string]any{
			"total_units": availability.TotalUnits,
			"conflicts":   len(availability.Conflicts),
		})
	}

	a.car = car
	a.availability = availability
	return nil
}

func (s *bookingService) priceStep(_ context.Context, a *admission) error {
	total, duration := Price(a.car, a.booking.BookingType, a.booking.Interval())

	a.booking.CarName = a.car.Name
	a.booking.CarPrice = a.car.Price
	a.booking.TotalPrice = total
	a.booking.RentalDuration = duration
	return nil
}

func (s *bookingService) attachDriverStep(ctx context.Context, a *admission) error {
	if a.booking.DriverOption != model.DriverOptionWithDriver {
		a.booking.Status = model.BookingStatusPending
		return nil
	}

	driver, err := s.drivers.DefaultDriver(ctx)
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.Storage("resolve driver", err)
	}

	a.driver = driver
	a.booking.DriverID = driver.ID
	a.booking.Status = model.BookingStatusAccepted
	return nil
}

func (s *bookingService) settlePaymentStep(_ context.Context, a *admission) error {
	b := a.booking

	if b.PaymentMethod == model.PaymentMethodCash {
		b.PaymentStatus = model.PaymentStatusSuccess
		return nil
	}

	if b.OrderID == "" || b.PaymentID == "" || b.Signature == "" {
		b.PaymentStatus = model.PaymentStatusPending
		return nil
	}

	if s.payments == nil || !s.payments.Verify(b.OrderID, b.PaymentID, b.Signature) {
		return apperrors.PaymentVerification(MsgInvalidSignature)
	}
	b.PaymentStatus = model.PaymentStatusSuccess
	return nil
}

func (s *bookingService) persistStep(ctx context.Context, a *admission) error {
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, a.booking); err != nil {
			return err
		}
		if a.driver == nil {
			return nil
		}
		return s.notifications.Create(sessCtx, rideRequestNotification(a.driver, a.booking))
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.Storage("persist booking", err)
	}
	return nil
}

func rideRequestNotification(driver *model.Driver, b *model.Booking) *model.Notification {
	return &model.Notification{
		DriverID:  driver.ID,
		BookingID: b.ID,
		Message: fmt.Sprintf(newRideRequestMessage,
			b.PickupLocation, b.DropoffLocation, b.StartTime.Format(notificationDateLayout)),
		Status: model.NotificationUnread,
		Action: model.NotificationActionPending,
	}
}

func (s *bookingService) publishStep(ctx context.Context, a *admission) error {
	s.publish(ctx, model.NewBookingEvent(model.EventBookingCreated, "", a.booking))
	return nil
}
