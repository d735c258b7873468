package service

import (
	"context"
	"errors"
	"testing"

	"carrental/pkg/config"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/logger"
	"carrental/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContactRepo struct {
	stored []*model.Contact
	err    error
}

func (r *fakeContactRepo) Create(_ context.Context, contact *model.Contact) error {
	if r.err != nil {
		return r.err
	}
	contact.ID = "c1"
	r.stored = append(r.stored, contact)
	return nil
}

func (r *fakeContactRepo) FindAll(context.Context) ([]*model.Contact, error) {
	return r.stored, r.err
}

func (r *fakeContactRepo) Count(context.Context) (int64, error) {
	return int64(len(r.stored)), r.err
}

func newTestService(repo *fakeContactRepo) ContactService {
	return NewContactService(repo, &config.Config{Log: logger.Discard()})
}

func TestSubmit(t *testing.T) {
	repo := &fakeContactRepo{}
	svc := newTestService(repo)

	contact := &model.Contact{Name: " Asha ", Email: "ASHA@example.com ", Message: "Do you rent\x00 SUVs?"}
	require.NoError(t, svc.Submit(context.Background(), contact))

	require.Len(t, repo.stored, 1)
	assert.Equal(t, "Asha", contact.Name)
	assert.Equal(t, "asha@example.com", contact.Email)
	assert.Equal(t, "Do you rent SUVs?", contact.Message)
}

func TestSubmit_MissingFields(t *testing.T) {
	repo := &fakeContactRepo{}
	svc := newTestService(repo)

	err := svc.Submit(context.Background(), &model.Contact{Name: "Asha", Email: "asha@example.com"})
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Details, "message")
	assert.Empty(t, repo.stored)
}

func TestSubmit_StorageFailure(t *testing.T) {
	svc := newTestService(&fakeContactRepo{err: errors.New("disk full")})

	err := svc.Submit(context.Background(), &model.Contact{Name: "Asha", Email: "asha@example.com", Message: "hi"})
	assert.True(t, apperrors.AsAppError(err).Retryable)
}
