package validator

import (
	"carrental/pkg/logger"
	"carrental/pkg/model"
	"carrental/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const MsgEmptyUpdate = "at least one field must be provided"

type CarValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCarValidator(log *logger.Logger) *CarValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize car validator", "error", err)
	}

	return &CarValidator{
		validate: v,
		logger:   log,
	}
}

func (v *CarValidator) Validate(car *model.Car) error {
	return validation.Struct(v.validate, car)
}

func (v *CarValidator) ValidateUpdate(update *model.CarUpdate) error {
	if isEmptyUpdate(update) {
		return validation.Field("body", MsgEmptyUpdate)
	}
	return validation.Struct(v.validate, update)
}

func (v *CarValidator) ValidateAvailability(update *model.CarAvailabilityUpdate) error {
	return validation.Struct(v.validate, update)
}

func isEmptyUpdate(u *model.CarUpdate) bool {
	return u.Name == "" && u.Brand == "" && u.Model == "" && u.Year == nil &&
		u.Price == nil && u.HourlyRate == nil && u.Category == "" && u.Fuel == "" &&
		u.Transmission == "" && u.Seats == nil && u.Doors == nil && u.Image == "" &&
		u.Features == nil && u.Description == "" && u.Available == nil &&
		u.Inventory == nil && u.Location == ""
}
