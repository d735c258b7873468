// Package validation wraps go-playground/validator with the field naming and
// messages shared by every domain validator.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	apperrors "carrental/pkg/errors"
	"carrental/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details maps each failing field to its message. The first message for a
// field wins.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		if _, exists := details[err.Field]; !exists {
			details[err.Field] = err.Message
		}
	}
	return details
}

// Field builds a single-field failure.
func Field(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

// ToAppError renders err as a 422 when it carries field failures and leaves
// any other error untouched.
func ToAppError(message string, err error) error {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(message, verrs.Details())
	}
	return err
}

// New returns a validator that reports json field names and knows the
// domain tags "future" and "booking_status".
func New() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("future", validateFuture); err != nil {
		return nil, fmt.Errorf("register 'future': %w", err)
	}
	if err := v.RegisterValidation("booking_status", validateBookingStatus); err != nil {
		return nil, fmt.Errorf("register 'booking_status': %w", err)
	}
	return v, nil
}

// validateFuture accepts a nil *time.Time; presence is left to required.
func validateFuture(fl validator.FieldLevel) bool {
	switch t := fl.Field().Interface().(type) {
	case time.Time:
		return t.After(time.Now())
	case *time.Time:
		return t == nil || t.After(time.Now())
	}
	return false
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case model.BookingStatusPending,
		model.BookingStatusConfirmed,
		model.BookingStatusAccepted,
		model.BookingStatusActive,
		model.BookingStatusCompleted,
		model.BookingStatusCancelled,
		model.BookingStatusDriverCancelled,
		model.BookingStatusRejected:
		return true
	}
	return false
}

// Messages overrides the generic message for a failing rule, keyed by
// "<json field>.<tag>", e.g. "end_time.gtfield".
type Messages map[string]string

// Struct validates s and translates failures into ValidationErrors.
func Struct(v *validator.Validate, s any) error {
	return StructWithMessages(v, s, nil)
}

// StructWithMessages is Struct with domain wording for selected rules.
func StructWithMessages(v *validator.Validate, s any, messages Messages) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return TranslateWithMessages(validationErrs, messages)
	}
	return err
}

func Translate(errs validator.ValidationErrors) ValidationErrors {
	return TranslateWithMessages(errs, nil)
}

func TranslateWithMessages(errs validator.ValidationErrors, messages Messages) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		if message, ok := messages[err.Field()+"."+err.Tag()]; ok {
			validationErrors = append(validationErrors, ValidationError{Field: err.Field(), Message: message})
			continue
		}

		message := err.Error()

		switch err.Tag() {
		case "required", "required_if":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "len":
			message = fmt.Sprintf("%s must be exactly %s characters", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +916381014350)", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "hexadecimal":
			message = fmt.Sprintf("%s must be hexadecimal", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "future":
			message = fmt.Sprintf("%s must be in the future", err.Field())
		case "booking_status":
			message = fmt.Sprintf("%s is not a known booking status", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
