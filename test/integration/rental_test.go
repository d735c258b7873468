//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"carrental/pkg/client"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/model"
	"carrental/test/integration/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func newCar(inventory int) *model.Car {
	return &model.Car{
		Name:         "Swift Dzire",
		Brand:        "Maruti",
		Model:        "Dzire VXi",
		Year:         2023,
		Price:        2400,
		HourlyRate:   150,
		Category:     "Sedan",
		Fuel:         "Petrol",
		Transmission: "Manual",
		Seats:        5,
		Doors:        4,
		Available:    true,
		Inventory:    inventory,
	}
}

func selfDriveCash(carID string, start time.Time, days int) *model.BookingRequest {
	expiry := time.Now().AddDate(3, 0, 0)
	return &model.BookingRequest{
		CarID:          carID,
		StartTime:      start,
		EndTime:        start.AddDate(0, 0, days),
		PickupLocation: "Bengaluru Airport",
		DriverOption:   model.DriverOptionSelfDrive,
		DrivingLicense: "KA0120200001234",
		LicenseExpiry:  &expiry,
		LicenseState:   "Karnataka",
		BookingType:    model.BookingTypeDaily,
		PaymentMethod:  model.PaymentMethodCash,
	}
}

func apiCode(t *testing.T, err error) (int, string) {
	t.Helper()
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr), "expected API error, got %v", err)
	return apiErr.StatusCode, apiErr.Code
}

func TestBookingFlow(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, admin := env.Setup(t)
	defer env.Cleanup(t, mongo)

	ctx := context.Background()

	_, err := admin.Login(ctx, env.AdminEmail, env.AdminPassword)
	require.NoError(t, err, "admin login")

	car, err := admin.CreateCar(ctx, newCar(1))
	require.NoError(t, err)
	require.NotEmpty(t, car.ID)

	email := fmt.Sprintf("rider-%d@example.com", time.Now().UnixNano())
	rider := client.NewRentalClient(env.ServerURL)
	_, err = rider.Signup(ctx, &model.SignupRequest{Name: "Asha Rao", Email: email, Password: "correct-horse-9"})
	require.NoError(t, err)
	_, err = rider.Login(ctx, email, "correct-horse-9")
	require.NoError(t, err)

	start := time.Now().Add(72 * time.Hour).Truncate(time.Hour).UTC()
	req := selfDriveCash(car.ID, start, 2)

	availability, err := rider.CheckAvailability(ctx, &model.AvailabilityQuery{CarID: car.ID, StartTime: req.StartTime, EndTime: req.EndTime})
	require.NoError(t, err)
	assert.True(t, availability.Available)
	assert.Equal(t, 1, availability.TotalUnits)

	receipt, err := rider.CreateBooking(ctx, req)
	require.NoError(t, err)
	require.NotEmpty(t, receipt.ID)
	assert.Equal(t, model.PaymentStatusSuccess, receipt.PaymentStatus)
	assert.Equal(t, model.BookingStatusPending, receipt.Status)

	t.Run("overlapping request is rejected", func(t *testing.T) {
		overlap := selfDriveCash(car.ID, start.Add(24*time.Hour), 2)
		_, err := rider.CreateBooking(ctx, overlap)
		status, code := apiCode(t, err)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, apperrors.CodeNoUnitsAvailable, code)
	})

	t.Run("adjacent request is admitted", func(t *testing.T) {
		adjacent, err := rider.CreateBooking(ctx, selfDriveCash(car.ID, req.EndTime, 1))
		require.NoError(t, err)
		_, err = rider.CancelBooking(ctx, adjacent.ID, "plans changed")
		require.NoError(t, err)
	})

	t.Run("cancel frees the interval", func(t *testing.T) {
		cancelled, err := rider.CancelBooking(ctx, receipt.ID, "plans changed")
		require.NoError(t, err)
		assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)

		availability, err := rider.CheckAvailability(ctx, &model.AvailabilityQuery{CarID: car.ID, StartTime: req.StartTime, EndTime: req.EndTime})
		require.NoError(t, err)
		assert.True(t, availability.Available)
	})

	assert.Equal(t, int64(0), mongo.CountDocuments(t, "Vehicle_locks", bson.M{}))
}

func TestConcurrentAdmission_SingleUnit(t *testing.T) {
	env := testutil.NewTestEnv()
	mongo, admin := env.Setup(t)
	defer env.Cleanup(t, mongo)

	ctx := context.Background()
	_, err := admin.Login(ctx, env.AdminEmail, env.AdminPassword)
	require.NoError(t, err)

	car, err := admin.CreateCar(ctx, newCar(1))
	require.NoError(t, err)

	start := time.Now().Add(240 * time.Hour).Truncate(time.Hour).UTC()

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := admin.CreateBooking(ctx, selfDriveCash(car.ID, start, 3))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
				return
			}
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, rejected)
	assert.Equal(t, int64(1), mongo.CountDocuments(t, "Bookings", bson.M{"car_id": car.ID}))
	assert.Equal(t, int64(0), mongo.CountDocuments(t, "Vehicle_locks", bson.M{}))
}
