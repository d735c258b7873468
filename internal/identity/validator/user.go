package validator

import (
	"carrental/pkg/logger"
	"carrental/pkg/model"
	"carrental/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type UserValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewUserValidator(log *logger.Logger) *UserValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize user validator", "error", err)
	}

	return &UserValidator{
		validate: v,
		logger:   log,
	}
}

func (v *UserValidator) ValidateSignup(req *model.SignupRequest) error {
	return validation.Struct(v.validate, req)
}

func (v *UserValidator) ValidateLogin(req *model.LoginRequest) error {
	return validation.Struct(v.validate, req)
}
