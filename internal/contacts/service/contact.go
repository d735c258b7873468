package service

import (
	"context"

	"carrental/internal/contacts/repository"
	"carrental/pkg/config"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/model"
	"carrental/pkg/sanitizer"
	"carrental/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type ContactService interface {
	Submit(ctx context.Context, contact *model.Contact) error
	List(ctx context.Context) ([]*model.Contact, error)
}

type contactService struct {
	repo     repository.ContactRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewContactService(repo repository.ContactRepository, cfg *config.Config) ContactService {
	v, err := validation.New()
	if err != nil {
		cfg.Log.Fatal("Failed to initialize contact validator", "error", err)
	}
	return &contactService{
		repo:     repo,
		validate: v,
		cfg:      cfg,
	}
}

func (s *contactService) Submit(ctx context.Context, contact *model.Contact) error {
	contact.Name = sanitizer.SanitizeText(contact.Name)
	contact.Email = sanitizer.SanitizeEmail(contact.Email)
	contact.Message = sanitizer.SanitizeText(contact.Message)

	if err := validation.Struct(s.validate, contact); err != nil {
		return validation.ToAppError("All fields are required", err)
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		s.cfg.Log.Error("Failed to store contact message", "email", contact.Email, "error", err)
		return apperrors.Storage("store contact message", err)
	}

	s.cfg.Log.Info("Contact message received", "contact_id", contact.ID)
	return nil
}

func (s *contactService) List(ctx context.Context) ([]*model.Contact, error) {
	contacts, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list contact messages", "error", err)
		return nil, apperrors.Internal("Failed to fetch contact messages", err)
	}
	return contacts, nil
}
