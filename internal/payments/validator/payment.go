package validator

import (
	"carrental/pkg/logger"
	"carrental/pkg/model"
	"carrental/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type PaymentValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewPaymentValidator(log *logger.Logger) *PaymentValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize payment validator", "error", err)
	}

	return &PaymentValidator{
		validate: v,
		logger:   log,
	}
}

func (v *PaymentValidator) ValidateOrder(req *model.OrderRequest) error {
	return validation.Struct(v.validate, req)
}

func (v *PaymentValidator) ValidateVerification(req *model.PaymentVerification) error {
	return validation.Struct(v.validate, req)
}
