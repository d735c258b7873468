package validator

import (
	"carrental/pkg/logger"
	"carrental/pkg/model"
	"carrental/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const (
	MsgEndBeforeStart    = "End date must be after start date"
	MsgLicenseRequired   = "Driving license details are required for self-drive bookings"
	MsgLicenseExpired    = "Driving license must be valid (not expired)"
	MsgInvalidTimeWindow = "start_time and end_time are required"
)

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize booking validator", "error", err)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// bookingMessages words the interval and self-drive license rules declared
// on model.Booking and model.AvailabilityQuery.
var bookingMessages = validation.Messages{
	"start_time.required":         MsgInvalidTimeWindow,
	"end_time.required":           MsgInvalidTimeWindow,
	"end_time.gtfield":            MsgEndBeforeStart,
	"driving_license.required_if": MsgLicenseRequired,
	"license_expiry.required_if":  MsgLicenseRequired,
	"license_state.required_if":   MsgLicenseRequired,
	"license_expiry.future":       MsgLicenseExpired,
}

// Validate checks a fully built booking, including the self-drive license
// rules that depend on the driver option.
func (v *BookingValidator) Validate(booking *model.Booking) error {
	return validation.StructWithMessages(v.validate, booking, bookingMessages)
}

func (v *BookingValidator) ValidateQuery(q *model.AvailabilityQuery) error {
	return validation.StructWithMessages(v.validate, q, bookingMessages)
}

func (v *BookingValidator) ValidateCancel(req *model.CancelRequest) error {
	return validation.Struct(v.validate, req)
}

func (v *BookingValidator) ValidateDriverCancel(req *model.DriverCancelRequest) error {
	return validation.Struct(v.validate, req)
}
