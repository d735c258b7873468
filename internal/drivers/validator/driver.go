package validator

import (
	"carrental/pkg/logger"
	"carrental/pkg/model"
	"carrental/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type DriverValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewDriverValidator(log *logger.Logger) *DriverValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize driver validator", "error", err)
	}

	return &DriverValidator{
		validate: v,
		logger:   log,
	}
}

func (v *DriverValidator) Validate(driver *model.Driver) error {
	return validation.Struct(v.validate, driver)
}

func (v *DriverValidator) ValidateAction(action *model.NotificationAction) error {
	return validation.Struct(v.validate, action)
}
