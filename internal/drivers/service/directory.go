package service

import (
	"context"
	"sync"

	"carrental/internal/drivers/repository"
	"carrental/internal/drivers/validator"
	"carrental/pkg/config"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/model"
	"carrental/pkg/sanitizer"
	"carrental/pkg/validation"
)

// Directory resolves driver records. It provides the default driver attached
// to with-driver bookings and registers drivers for driver accounts.
type Directory struct {
	repo      repository.DriverRepository
	validator *validator.DriverValidator
	cfg       *config.Config

	mu     sync.Mutex
	cached *model.Driver
}

func NewDirectory(repo repository.DriverRepository, validator *validator.DriverValidator, cfg *config.Config) *Directory {
	return &Directory{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// DefaultDriver returns the configured default driver, creating its record on
// first use. A successful lookup is remembered for the process lifetime.
func (d *Directory) DefaultDriver(ctx context.Context) (*model.Driver, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cached != nil {
		return d.cached, nil
	}

	defaults := d.cfg.DefaultDriver
	driver, err := d.Register(ctx, &model.Driver{
		Name:          defaults.Name,
		Email:         defaults.Email,
		Phone:         defaults.Phone,
		LicenseNumber: defaults.LicenseNumber,
	})
	if err != nil {
		return nil, err
	}
	d.cached = driver
	return driver, nil
}

// Register normalizes and validates driver and returns the record stored
// under its email.
func (d *Directory) Register(ctx context.Context, driver *model.Driver) (*model.Driver, error) {
	driver.Name = sanitizer.SanitizeText(driver.Name)
	driver.Email = sanitizer.SanitizeEmail(driver.Email)
	driver.Phone = sanitizer.SanitizePhone(driver.Phone)
	driver.LicenseNumber = sanitizer.SanitizeToken(driver.LicenseNumber)
	if driver.Status == "" {
		driver.Status = model.DriverStatusAvailable
	}
	if driver.Rating == 0 {
		driver.Rating = model.DefaultDriverRating
	}

	if err := d.validator.Validate(driver); err != nil {
		d.cfg.Log.Warn("Driver validation failed", "email", driver.Email, "error", err)
		return nil, validation.ToAppError("Driver validation failed", err)
	}

	stored, err := d.repo.FindOrCreate(ctx, driver)
	if err != nil {
		d.cfg.Log.Error("Failed to resolve driver", "email", driver.Email, "error", err)
		return nil, apperrors.Storage("resolve driver", err)
	}
	return stored, nil
}
