package validator

import (
	"testing"

	"carrental/pkg/logger"
	"carrental/pkg/model"
	"carrental/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCar() *model.Car {
	return &model.Car{
		Name:         "Mahindra Thar",
		Brand:        "Mahindra",
		Model:        "Thar LX",
		Year:         2023,
		Price:        3200,
		Category:     "SUV",
		Fuel:         "Diesel",
		Transmission: "Manual",
		Seats:        4,
		Doors:        3,
		Inventory:    1,
	}
}

func TestValidate(t *testing.T) {
	v := NewCarValidator(logger.Discard())

	tests := []struct {
		name      string
		mutate    func(c *model.Car)
		wantField string
	}{
		{name: "valid", mutate: func(*model.Car) {}},
		{name: "missing name", mutate: func(c *model.Car) { c.Name = "" }, wantField: "name"},
		{name: "zero price", mutate: func(c *model.Car) { c.Price = 0 }, wantField: "price"},
		{name: "unknown fuel", mutate: func(c *model.Car) { c.Fuel = "Steam" }, wantField: "fuel"},
		{name: "negative inventory", mutate: func(c *model.Car) { c.Inventory = -1 }, wantField: "inventory"},
		{name: "ancient year", mutate: func(c *model.Car) { c.Year = 1950 }, wantField: "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			car := validCar()
			tt.mutate(car)

			err := v.Validate(car)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validation.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs.Details(), tt.wantField)
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewCarValidator(logger.Discard())

	err := v.ValidateUpdate(&model.CarUpdate{})
	var verrs validation.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, MsgEmptyUpdate, verrs.Details()["body"])

	available := false
	assert.NoError(t, v.ValidateUpdate(&model.CarUpdate{Available: &available}))

	price := -5.0
	assert.Error(t, v.ValidateUpdate(&model.CarUpdate{Price: &price}))
}
