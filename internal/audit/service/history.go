package service

import (
	"context"

	"carrental/internal/audit/repository"
	"carrental/pkg/config"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HistoryService interface {
	ForBooking(ctx context.Context, bookingID string) ([]*model.BookingEvent, error)
}

type historyService struct {
	repo repository.EventRepository
	cfg  *config.Config
}

func NewHistoryService(repo repository.EventRepository, cfg *config.Config) HistoryService {
	return &historyService{repo: repo, cfg: cfg}
}

// ForBooking lists the recorded events of a booking, oldest first.
func (s *historyService) ForBooking(ctx context.Context, bookingID string) ([]*model.BookingEvent, error) {
	if !primitive.IsValidObjectID(bookingID) {
		return nil, apperrors.InvalidInput("Invalid booking ID format")
	}

	events, err := s.repo.FindByBooking(ctx, bookingID)
	if err != nil {
		s.cfg.Log.Error("Failed to load booking events", "booking_id", bookingID, "error", err)
		return nil, apperrors.Internal("Failed to load booking events", err)
	}
	return events, nil
}
