package service

import (
	"context"
	"errors"
	"sync"
	"time"

	carserrors "carrental/internal/cars/errors"
	"carrental/internal/cars/repository"
	"carrental/internal/cars/validator"
	"carrental/pkg/config"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/model"
	"carrental/pkg/sanitizer"
	"carrental/pkg/validation"
)

const MsgCarHasBookings = "Car has upcoming bookings and cannot be deleted"

// BookingCounter reports upcoming bookings for a car. Delete refuses to
// remove a car while any remain.
type BookingCounter interface {
	CountUpcomingForCar(ctx context.Context, carID string, statuses []string, now time.Time) (int64, error)
}

var blockingStatuses = []string{
	model.BookingStatusConfirmed,
	model.BookingStatusAccepted,
	model.BookingStatusActive,
}

type CarService interface {
	List(ctx context.Context, onlyAvailable bool, limit int, offset int64) ([]*model.Car, int64, error)
	Get(ctx context.Context, id string) (*model.Car, error)
	Create(ctx context.Context, car *model.Car) error
	Update(ctx context.Context, id string, update *model.CarUpdate) (*model.Car, error)
	SetAvailability(ctx context.Context, id string, available bool) (*model.Car, error)
	Delete(ctx context.Context, id string) error
	Seed(ctx context.Context) (*model.SeedResult, error)
}

type carService struct {
	repo      repository.CarRepository
	bookings  BookingCounter
	validator *validator.CarValidator
	cfg       *config.Config
}

func NewCarService(
	repo repository.CarRepository,
	bookings BookingCounter,
	validator *validator.CarValidator,
	cfg *config.Config,
) CarService {
	return &carService{
		repo:      repo,
		bookings:  bookings,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *carService) mapError(operation, id string, err error) error {
	switch {
	case errors.Is(err, carserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Car", id)
	case errors.Is(err, carserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid car ID format")
	}
	s.cfg.Log.Error("Car storage call failed", "operation", operation, "id", id, "error", err)
	return apperrors.Storage(operation, err)
}

func (s *carService) List(ctx context.Context, onlyAvailable bool, limit int, offset int64) ([]*model.Car, int64, error) {
	var (
		cars              []*model.Car
		count             int64
		findErr, countErr error
		wg                sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		cars, findErr = s.repo.FindAll(ctx, onlyAvailable, limit, offset)
	}()
	go func() {
		defer wg.Done()
		count, countErr = s.repo.Count(ctx, onlyAvailable)
	}()
	wg.Wait()

	if findErr != nil {
		return nil, 0, s.mapError("list cars", "", findErr)
	}
	if countErr != nil {
		return nil, 0, s.mapError("count cars", "", countErr)
	}
	return cars, count, nil
}

func (s *carService) Get(ctx context.Context, id string) (*model.Car, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Car ID cannot be empty")
	}
	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError("get car", id, err)
	}
	return car, nil
}

func sanitizeCar(car *model.Car) {
	car.Name = sanitizer.SanitizeText(car.Name)
	car.Brand = sanitizer.SanitizeText(car.Brand)
	car.Model = sanitizer.SanitizeText(car.Model)
	car.Category = sanitizer.SanitizeText(car.Category)
	car.Description = sanitizer.SanitizeText(car.Description)
	car.Location = sanitizer.SanitizeText(car.Location)
	car.Image = sanitizer.SanitizeImage(car.Image)
	car.Features = sanitizer.SanitizeSlice(car.Features, sanitizer.SanitizeText)
}

func applyDefaults(car *model.Car) {
	if car.Inventory <= 0 {
		car.Inventory = 1
	}
	if car.Image == "" {
		car.Image = model.DefaultCarImage
	}
	if car.Features == nil {
		car.Features = []string{}
	}
}

func (s *carService) Create(ctx context.Context, car *model.Car) error {
	sanitizeCar(car)
	applyDefaults(car)
	car.Available = true

	if err := s.validator.Validate(car); err != nil {
		s.cfg.Log.Warn("Car validation failed", "name", car.Name, "error", err)
		return validation.ToAppError("Car validation failed", err)
	}

	if err := s.repo.Create(ctx, car); err != nil {
		return s.mapError("create car", "", err)
	}

	s.cfg.Log.Info("Car created", "id", car.ID, "name", car.Name, "inventory", car.Inventory)
	return nil
}

func (s *carService) Update(ctx context.Context, id string, update *model.CarUpdate) (*model.Car, error) {
	update.Name = sanitizer.SanitizeText(update.Name)
	update.Brand = sanitizer.SanitizeText(update.Brand)
	update.Model = sanitizer.SanitizeText(update.Model)
	update.Category = sanitizer.SanitizeText(update.Category)
	update.Description = sanitizer.SanitizeText(update.Description)
	update.Location = sanitizer.SanitizeText(update.Location)
	update.Image = sanitizer.SanitizeImage(update.Image)
	if update.Features != nil {
		features := sanitizer.SanitizeSlice(*update.Features, sanitizer.SanitizeText)
		update.Features = &features
	}

	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, validation.ToAppError("Car update validation failed", err)
	}

	car, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, s.mapError("update car", id, err)
	}

	s.cfg.Log.Info("Car updated", "id", id)
	return car, nil
}

func (s *carService) SetAvailability(ctx context.Context, id string, available bool) (*model.Car, error) {
	car, err := s.repo.Update(ctx, id, &model.CarUpdate{Available: &available})
	if err != nil {
		return nil, s.mapError("set car availability", id, err)
	}

	s.cfg.Log.Info("Car availability changed", "id", id, "available", available)
	return car, nil
}

func (s *carService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	upcoming, err := s.bookings.CountUpcomingForCar(ctx, id, blockingStatuses, time.Now().UTC())
	if err != nil {
		return s.mapError("count car bookings", id, err)
	}
	if upcoming > 0 {
		return apperrors.Conflict(MsgCarHasBookings).
			WithCause(carserrors.ErrHasActiveBookings).
			WithDetails(map[string]any{"upcoming_bookings": upcoming})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError("delete car", id, err)
	}

	s.cfg.Log.Info("Car deleted", "id", id)
	return nil
}

// Seed fills an empty catalog with the sample fleet. A catalog that already
// holds cars is left alone.
func (s *carService) Seed(ctx context.Context) (*model.SeedResult, error) {
	existing, err := s.repo.Count(ctx, false)
	if err != nil {
		return nil, s.mapError("count cars", "", err)
	}
	if existing > 0 {
		return &model.SeedResult{Existing: existing}, nil
	}

	fleet := sampleFleet()
	if err := s.repo.InsertMany(ctx, fleet); err != nil {
		return nil, s.mapError("seed cars", "", err)
	}

	s.cfg.Log.Info("Car catalog seeded", "cars", len(fleet))
	return &model.SeedResult{Inserted: len(fleet)}, nil
}
