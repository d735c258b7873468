package service

import (
	"context"
	"errors"

	identityerrors "carrental/internal/identity/errors"
	"carrental/internal/identity/repository"
	"carrental/internal/identity/validator"
	"carrental/pkg/auth"
	"carrental/pkg/config"
	apperrors "carrental/pkg/errors"
	"carrental/pkg/model"
	"carrental/pkg/sanitizer"
	"carrental/pkg/validation"
)

const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgEmailTaken         = "Email already registered"
	MsgElevatedRole       = "Only administrators can create admin or driver accounts"
)

// DriverRegistrar creates or resolves the driver record behind a driver
// account.
type DriverRegistrar interface {
	Register(ctx context.Context, driver *model.Driver) (*model.Driver, error)
}

type IdentityService interface {
	Signup(ctx context.Context, req *model.SignupRequest, actor *auth.Claims) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.Session, error)
	// EnsureAdmin creates the configured bootstrap admin when it is missing.
	EnsureAdmin(ctx context.Context) error
}

type identityService struct {
	users     repository.UserRepository
	drivers   DriverRegistrar
	tokens    *auth.TokenManager
	validator *validator.UserValidator
	cfg       *config.Config
}

func NewIdentityService(
	users repository.UserRepository,
	drivers DriverRegistrar,
	tokens *auth.TokenManager,
	validator *validator.UserValidator,
	cfg *config.Config,
) IdentityService {
	return &identityService{
		users:     users,
		drivers:   drivers,
		tokens:    tokens,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *identityService) Signup(ctx context.Context, req *model.SignupRequest, actor *auth.Claims) (*model.User, error) {
	req.Name = sanitizer.SanitizeText(req.Name)
	req.Email = sanitizer.SanitizeEmail(req.Email)
	req.DriverID = sanitizer.SanitizeToken(req.DriverID)
	if req.Role == "" {
		req.Role = model.RoleClient
	}

	if req.Role != model.RoleClient && !actor.HasRole(model.RoleAdmin) {
		s.cfg.Log.Warn("Elevated signup refused", "email", req.Email, "role", req.Role)
		return nil, apperrors.Forbidden(MsgElevatedRole)
	}

	if err := s.validator.ValidateSignup(req); err != nil {
		return nil, validation.ToAppError("Signup validation failed", err)
	}

	user := &model.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}

	if req.Role == model.RoleDriver {
		driverID, err := s.resolveDriver(ctx, req)
		if err != nil {
			return nil, err
		}
		user.DriverID = driverID
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("Failed to secure password", err)
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, identityerrors.ErrEmailTaken) {
			return nil, apperrors.Conflict(MsgEmailTaken)
		}
		s.cfg.Log.Error("Failed to create user", "email", user.Email, "error", err)
		return nil, apperrors.Storage("create user", err)
	}

	s.cfg.Log.Info("User signed up", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *identityService) resolveDriver(ctx context.Context, req *model.SignupRequest) (string, error) {
	if req.DriverID != "" {
		return req.DriverID, nil
	}
	driver, err := s.drivers.Register(ctx, &model.Driver{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		LicenseNumber: req.LicenseNumber,
	})
	if err != nil {
		return "", err
	}
	return driver.ID, nil
}

func (s *identityService) Login(ctx context.Context, req *model.LoginRequest) (*model.Session, error) {
	req.Email = sanitizer.SanitizeEmail(req.Email)
	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, validation.ToAppError("Login validation failed", err)
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, identityerrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(MsgInvalidCredentials)
		}
		s.cfg.Log.Error("Failed to load user", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.cfg.Log.Warn("Login failed", "email", req.Email)
			return nil, apperrors.Unauthorized(MsgInvalidCredentials)
		}
		return nil, apperrors.Internal("Failed to log in", err)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role, user.Email, user.DriverID)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	user.PasswordHash = ""
	return &model.Session{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *identityService) EnsureAdmin(ctx context.Context) error {
	email := sanitizer.SanitizeEmail(s.cfg.AdminEmail)
	if email == "" || s.cfg.AdminPassword == "" {
		return nil
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, identityerrors.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(s.cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin := &model.User{
		Name:         "Administrator",
		Email:        email,
		Role:         model.RoleAdmin,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, identityerrors.ErrEmailTaken) {
			return nil
		}
		return err
	}

	s.cfg.Log.Info("Bootstrap admin created", "user_id", admin.ID, "email", email)
	return nil
}
