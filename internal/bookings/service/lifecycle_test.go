package service

import (
	"context"
	"testing"

	"carrental/pkg/auth"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	allowed := map[string][]string{
		model.BookingStatusPending:   {model.BookingStatusAccepted, model.BookingStatusRejected, model.BookingStatusCancelled, model.BookingStatusDriverCancelled},
		model.BookingStatusConfirmed: {model.BookingStatusAccepted, model.BookingStatusCancelled, model.BookingStatusDriverCancelled, model.BookingStatusActive},
		model.BookingStatusAccepted:  {model.BookingStatusActive, model.BookingStatusDriverCancelled},
		model.BookingStatusActive:    {model.BookingStatusCompleted},
	}
	all := []string{
		model.BookingStatusPending, model.BookingStatusConfirmed, model.BookingStatusAccepted,
		model.BookingStatusActive, model.BookingStatusCompleted, model.BookingStatusCancelled,
		model.BookingStatusDriverCancelled, model.BookingStatusRejected,
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
		if model.IsTerminal(from) {
			assert.Empty(t, transitions[from], "terminal %s has no exits", from)
		}
	}
}

func client(userID string) *auth.Claims {
	return &auth.Claims{UserID: userID, Role: model.RoleClient}
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		actor    *auth.Claims
		wantCode string
	}{
		{name: "pending by owner", status: model.BookingStatusPending, actor: client("owner")},
		{name: "confirmed by owner", status: model.BookingStatusConfirmed, actor: client("owner")},
		{name: "pending by admin", status: model.BookingStatusPending, actor: &auth.Claims{UserID: "root", Role: model.RoleAdmin}},
		{name: "completed is rejected", status: model.BookingStatusCompleted, actor: client("owner"), wantCode: apperrors.CodeForbidden},
		{name: "accepted is rejected", status: model.BookingStatusAccepted, actor: client("owner"), wantCode: apperrors.CodeForbidden},
		{name: "active is rejected", status: model.BookingStatusActive, actor: client("owner"), wantCode: apperrors.CodeForbidden},
		{name: "someone else's booking", status: model.BookingStatusPending, actor: client("intruder"), wantCode: apperrors.CodeNotFound},
		{name: "anonymous", status: model.BookingStatusPending, actor: nil, wantCode: apperrors.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := occupying(tt.status, day(0, 10), day(1, 10))
			booking.UserID = "owner"
			f := newFixture(t, 1, booking)

			got, err := f.svc.Cancel(context.Background(), booking.ID, tt.actor, "plans changed")
			if tt.wantCode != "" {
				assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
				assert.Empty(t, f.publisher.types())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.BookingStatusCancelled, got.Status)
			assert.Equal(t, "plans changed", got.CancellationReason)
			assert.Equal(t, []string{"booking.cancelled"}, f.publisher.types())
		})
	}
}

func TestCancel_CompletedMessage(t *testing.T) {
	booking := occupying(model.BookingStatusCompleted, day(0, 10), day(1, 10))
	booking.UserID = "owner"
	f := newFixture(t, 1, booking)

	_, err := f.svc.Cancel(context.Background(), booking.ID, client("owner"), "")
	assert.Equal(t, MsgCannotCancel, apperrors.AsAppError(err).Message)
}

func TestCancel_LostRace(t *testing.T) {
	booking := occupying(model.BookingStatusPending, day(0, 10), day(1, 10))
	booking.UserID = "owner"
	f := newFixture(t, 1, booking)
	f.repo.beforeUpdate = func(b *model.Booking) { b.Status = model.BookingStatusAccepted }

	_, err := f.svc.Cancel(context.Background(), booking.ID, client("owner"), "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict), "got %v", err)
}

func TestCancel_UnknownBooking(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.svc.Cancel(context.Background(), "66f1c0ffee0000000000abcd", client("owner"), "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))

	_, err = f.svc.Cancel(context.Background(), "not-an-id", client("owner"), "")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestDriverCancel(t *testing.T) {
	const driverID = "66f1c0ffee0000000000d001"

	tests := []struct {
		name     string
		status   string
		driverID string
		wantCode string
	}{
		{name: "accepted ride", status: model.BookingStatusAccepted, driverID: driverID},
		{name: "pending ride", status: model.BookingStatusPending, driverID: driverID},
		{name: "another driver", status: model.BookingStatusAccepted, driverID: "66f1c0ffee0000000000d002", wantCode: apperrors.CodeForbidden},
		{name: "active ride", status: model.BookingStatusActive, driverID: driverID, wantCode: apperrors.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := occupying(tt.status, day(0, 10), day(1, 10))
			booking.DriverID = driverID
			f := newFixture(t, 1, booking)

			got, err := f.svc.DriverCancel(context.Background(), &model.DriverCancelRequest{
				BookingID: booking.ID,
				DriverID:  tt.driverID,
				Reason:    "vehicle breakdown",
			})
			if tt.wantCode != "" {
				assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.BookingStatusDriverCancelled, got.Status)
			assert.Equal(t, "vehicle breakdown", got.CancellationReason)
		})
	}
}

func TestApplyDriverDecision(t *testing.T) {
	const driverID = "66f1c0ffee0000000000d001"

	tests := []struct {
		name       string
		status     string
		decision   string
		wantStatus string
		wantEvents int
	}{
		{name: "accept pending", status: model.BookingStatusPending, decision: model.NotificationActionAccepted, wantStatus: model.BookingStatusAccepted, wantEvents: 1},
		{name: "reject pending", status: model.BookingStatusPending, decision: model.NotificationActionRejected, wantStatus: model.BookingStatusRejected, wantEvents: 1},
		{name: "accept already accepted", status: model.BookingStatusAccepted, decision: model.NotificationActionAccepted, wantStatus: model.BookingStatusAccepted},
		{name: "reject auto accepted", status: model.BookingStatusAccepted, decision: model.NotificationActionRejected, wantStatus: model.BookingStatusDriverCancelled, wantEvents: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := occupying(tt.status, day(0, 10), day(1, 10))
			booking.DriverID = driverID
			f := newFixture(t, 1, booking)

			got, err := f.svc.ApplyDriverDecision(context.Background(), booking.ID, driverID, tt.decision)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Len(t, f.publisher.types(), tt.wantEvents)
		})
	}

	t.Run("completed ride cannot be rejected", func(t *testing.T) {
		booking := occupying(model.BookingStatusCompleted, day(0, 10), day(1, 10))
		booking.DriverID = driverID
		f := newFixture(t, 1, booking)

		_, err := f.svc.ApplyDriverDecision(context.Background(), booking.ID, driverID, model.NotificationActionRejected)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "got %v", err)
	})
}

func TestStartAndComplete(t *testing.T) {
	const driverID = "66f1c0ffee0000000000d001"
	driver := &auth.Claims{UserID: "u-driver", Role: model.RoleDriver, DriverID: driverID}

	booking := occupying(model.BookingStatusAccepted, day(0, 10), day(1, 10))
	booking.DriverID = driverID
	booking.TotalPrice = 3750
	f := newFixture(t, 1, booking)
	ctx := context.Background()

	_, err := f.svc.Complete(ctx, booking.ID, driver)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "accepted cannot complete")

	_, err = f.svc.Start(ctx, booking.ID, client("owner"))
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden), "clients cannot start rides")

	got, err := f.svc.Start(ctx, booking.ID, driver)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusActive, got.Status)

	got, err = f.svc.Complete(ctx, booking.ID, driver)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusCompleted, got.Status)

	assert.Equal(t, []string{"booking.active", "booking.completed"}, f.publisher.types())
}
