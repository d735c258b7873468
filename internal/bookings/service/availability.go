package service

import (
	"context"
	"errors"
	"fmt"

	carserrors "carrental/internal/cars/errors"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/metrics"
	"carrental/pkg/model"
	"carrental/pkg/validation"
)

const (
	MsgAvailabilityUnverified = "availability could not be verified"
	MsgNotAvailable           = "This car is not available for your selected dates"

	resultAvailable   = "available"
	resultUnavailable = "unavailable"
	resultFailOpen    = "fail_open"
)

func availableMessage(units int) string {
	if units <= 0 {
		return MsgNotAvailable
	}
	return fmt.Sprintf("%d unit(s) available for your selected dates", units)
}

// CheckAvailability reports how many units of a car are free over the
// half-open query window. A car switched off by an admin has none. Storage failures while reading yield an optimistic
// answer with a warning instead of an error.
func (s *bookingService) CheckAvailability(ctx context.Context, query *model.AvailabilityQuery) (*model.Availability, error) {
	if err := s.validator.ValidateQuery(query); err != nil {
		return nil, validation.ToAppError("Invalid availability query", err)
	}

	car, err := s.cars.FindByID(ctx, query.CarID)
	if err != nil {
		switch {
		case errors.Is(err, carserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Car", query.CarID)
		case errors.Is(err, carserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid car ID format")
		}
		return s.failOpen(query.CarID, 1, err), nil
	}

	if !car.Available {
		metrics.IncAvailabilityCheck(resultUnavailable)
		return &model.Availability{
			CarID:          car.ID,
			Available:      false,
			AvailableUnits: 0,
			TotalUnits:     car.Units(),
			Conflicts:      []model.Interval{},
			Message:        MsgCarDisabled,
		}, nil
	}

	interval := model.Interval{Start: query.StartTime, End: query.EndTime}
	return s.evaluate(ctx, car, interval), nil
}

// evaluate counts occupying bookings that overlap interval.
func (s *bookingService) evaluate(ctx context.Context, car *model.Car, interval model.Interval) *model.Availability {
	total := car.Units()

	overlapping, err := s.repo.FindOverlapping(ctx, car.ID, interval, model.OccupyingStatuses)
	if err != nil {
		return s.failOpen(car.ID, total, err)
	}

	conflicts := make([]model.Interval, 0, len(overlapping))
	for _, b := range overlapping {
		// Guard against stores that do not apply the filter exactly.
		if model.IsOccupying(b.Status) && b.Interval().Overlaps(interval) {
			conflicts = append(conflicts, b.Interval())
		}
	}

	units := max(0, total-len(conflicts))
	result := resultAvailable
	if units == 0 {
		result = resultUnavailable
	}
	metrics.IncAvailabilityCheck(result)

	return &model.Availability{
		CarID:          car.ID,
		Available:      units > 0,
		AvailableUnits: units,
		TotalUnits:     total,
		Conflicts:      conflicts,
		Message:        availableMessage(units),
	}
}

func (s *bookingService) failOpen(carID string, total int, cause error) *model.Availability {
	s.cfg.Log.Warn("Availability check failed open",
		"car_id", carID,
		"error", cause,
	)
	metrics.IncAvailabilityCheck(resultFailOpen)

	return &model.Availability{
		CarID:          carID,
		Available:      true,
		AvailableUnits: total,
		TotalUnits:     total,
		Conflicts:      []model.Interval{},
		Message:        availableMessage(total),
		Warning:        MsgAvailabilityUnverified,
	}
}
