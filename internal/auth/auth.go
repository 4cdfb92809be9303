package auth

import (
	"context"
	"strings"

	"storefront-service/internal/commerce"
	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// minPasswordLength matches the storefront's registration rule.
const minPasswordLength = 6

// minPhoneLength matches the storefront's registration rule.
const minPhoneLength = 10

// API is the slice of the commerce client the auth service needs.
type API interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, fullName, email, phone, password string) error
	UpdateUser(ctx context.Context, req commerce.UpdateUserRequest) (*models.User, error)
	SendForgotOtp(ctx context.Context, email string) error
	VerifyOtpAndReset(ctx context.Context, email, otp, newPassword string) error
}

// UserStore persists the shopper profile between reloads.
type UserStore interface {
	SaveUser(ctx context.Context, owner string, user *models.User) error
	LoadUser(ctx context.Context, owner string) (*models.User, error)
	DeleteUser(ctx context.Context, owner string) error
}

// Service handles shopper account flows. Credential checks happen remotely;
// the service validates inputs, maps business errors to fields, and keeps the
// persisted profile in sync.
type Service struct {
	api    API
	users  UserStore
	logger *zap.Logger
}

// NewService creates a new auth service
func NewService(api API, users UserStore) *Service {
	return &Service{
		api:    api,
		users:  users,
		logger: util.GetLogger(),
	}
}

// Login authenticates and persists the profile for the session owner.
func (s *Service) Login(ctx context.Context, owner, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, models.NewValidationFailure("email", "Fields required")
	}
	if strings.TrimSpace(password) == "" {
		return nil, models.NewValidationFailure("password", "Fields required")
	}

	user, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.users.SaveUser(ctx, owner, user); err != nil {
		s.logger.Error("Failed to persist user", zap.String("owner", owner), zap.Error(err))
	}
	s.logger.Info("Shopper logged in", zap.String("email", email))
	return user, nil
}

// RegisterRequest carries a new account.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Register validates and creates a shopper account. Business errors
// mentioning "email" are pinned to the email field, everything else to the
// name field, matching how the storefront targets its inline messages.
func (s *Service) Register(ctx context.Context, req RegisterRequest) error {
	if strings.TrimSpace(req.FullName) == "" {
		return models.NewValidationFailure("fullName", "Name is required")
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return models.NewValidationFailure("email", "Valid email required")
	}
	if len(strings.TrimSpace(req.Phone)) < minPhoneLength {
		return models.NewValidationFailure("phone", "Valid phone required")
	}
	if len(req.Password) < minPasswordLength {
		return models.NewValidationFailure("password", "Min 6 chars required")
	}

	err := s.api.Register(ctx, req.FullName, email, req.Phone, req.Password)
	if err != nil {
		if f := models.FailureOf(err); f != nil && f.Kind == models.FailureBusiness {
			if strings.Contains(strings.ToLower(f.Message), "email") {
				return f.WithField("email")
			}
			return f.WithField("fullName")
		}
		return err
	}

	s.logger.Info("Shopper registered", zap.String("email", email))
	return nil
}

// UpdateRequest carries profile changes. Password fields are optional but
// move together.
type UpdateRequest struct {
	FullName        string `json:"fullName"`
	Phone           string `json:"phone"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	RepeatPassword  string `json:"repeatPassword"`
}

// UpdateProfile saves profile changes for the persisted user and re-persists
// the returned profile.
func (s *Service) UpdateProfile(ctx context.Context, owner string, req UpdateRequest) (*models.User, error) {
	user, err := s.users.LoadUser(ctx, owner)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewStateFailure("not logged in")
	}

	apiReq := commerce.UpdateUserRequest{
		UserID:   user.UserID,
		FullName: req.FullName,
		Phone:    req.Phone,
	}

	if req.NewPassword != "" || req.RepeatPassword != "" {
		if req.CurrentPassword == "" {
			return nil, models.NewValidationFailure("currentPassword", "Please enter current password.")
		}
		if req.NewPassword != req.RepeatPassword {
			return nil, models.NewValidationFailure("newPassword", "New passwords do not match.")
		}
		if len(req.NewPassword) < minPasswordLength {
			return nil, models.NewValidationFailure("newPassword", "Min 6 characters required.")
		}
		apiReq.CurrentPassword = req.CurrentPassword
		apiReq.NewPassword = req.NewPassword
	}

	updated, err := s.api.UpdateUser(ctx, apiReq)
	if err != nil {
		return nil, err
	}

	if err := s.users.SaveUser(ctx, owner, updated); err != nil {
		s.logger.Error("Failed to persist updated user", zap.String("owner", owner), zap.Error(err))
	}
	return updated, nil
}

// CurrentUser loads the persisted profile, or nil when logged out.
func (s *Service) CurrentUser(ctx context.Context, owner string) (*models.User, error) {
	return s.users.LoadUser(ctx, owner)
}

// Logout drops the persisted profile.
func (s *Service) Logout(ctx context.Context, owner string) error {
	return s.users.DeleteUser(ctx, owner)
}
