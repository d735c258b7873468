package service

import (
	"context"
	"errors"
	"time"

	"carrental/internal/audit/repository"
	"carrental/pkg/config"
	"carrental/pkg/kafka"
	"carrental/pkg/model"
)

var (
	ErrMissingEventID   = errors.New("booking event has no event id")
	ErrMissingBookingID = errors.New("booking event has no booking id")
)

// Recorder persists consumed booking events. It is the audit consumer's
// message handler.
type Recorder struct {
	repo repository.EventRepository
	cfg  *config.Config
	now  func() time.Time
}

func NewRecorder(repo repository.EventRepository, cfg *config.Config) *Recorder {
	return &Recorder{
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
	}
}

// Handle stores one event. Undecodable events fail permanently so they go
// straight to the dead letter topic; storage failures are retried.
func (r *Recorder) Handle(ctx context.Context, msg kafka.Message) error {
	var event model.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("decode booking event", err)
	}
	if event.EventID == "" {
		event.EventID = msg.EventID()
	}
	if event.EventID == "" {
		return kafka.NewPermanentError("validate booking event", ErrMissingEventID)
	}
	if event.BookingID == "" {
		return kafka.NewPermanentError("validate booking event", ErrMissingBookingID)
	}
	if event.EventType == "" {
		event.EventType = msg.EventType()
	}
	event.ReceivedAt = r.now().UTC().Truncate(time.Millisecond)

	stored, err := r.repo.Save(ctx, &event)
	if err != nil {
		return kafka.NewTransientError("store booking event", err)
	}

	log := r.cfg.Log.With(
		"event_id", event.EventID,
		"event_type", event.EventType,
		"booking_id", event.BookingID,
		"correlation_id", msg.CorrelationID(),
	)
	if !stored {
		log.Debug("Duplicate booking event ignored")
		return nil
	}
	log.Info("Booking event recorded", "status", event.Status)
	return nil
}
