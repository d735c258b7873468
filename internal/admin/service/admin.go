package service

import (
	"context"

	"carrental/pkg/config"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/model"

	"golang.org/x/sync/errgroup"
)

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// CarCounter counts the whole fleet, including cars that are switched off.
type CarCounter interface {
	Count(ctx context.Context, onlyAvailable bool) (int64, error)
}

type RevenueReader interface {
	Counter
	SumRevenue(ctx context.Context) (float64, error)
}

type UserLister interface {
	Counter
	FindAll(ctx context.Context) ([]*model.User, error)
}

type AdminService interface {
	Stats(ctx context.Context) (*model.AdminStats, error)
	Users(ctx context.Context) ([]*model.User, error)
}

type adminService struct {
	users    UserLister
	bookings RevenueReader
	cars     CarCounter
	contacts Counter
	cfg      *config.Config
}

func NewAdminService(users UserLister, bookings RevenueReader, cars CarCounter, contacts Counter, cfg *config.Config) AdminService {
	return &adminService{
		users:    users,
		bookings: bookings,
		cars:     cars,
		contacts: contacts,
		cfg:      cfg,
	}
}

func (s *adminService) Stats(ctx context.Context) (*model.AdminStats, error) {
	var stats model.AdminStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalUsers, err = s.users.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalBookings, err = s.bookings.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalCars, err = s.cars.Count(gctx, false)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalMessages, err = s.contacts.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRevenue, err = s.bookings.SumRevenue(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("Failed to compute admin stats", "error", err)
		return nil, apperrors.Internal("Failed to fetch stats", err)
	}
	return &stats, nil
}

func (s *adminService) Users(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return nil, apperrors.Internal("Failed to fetch users", err)
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}
