package auth

import (
	"context"
	"strings"
	"sync"

	"storefront-service/internal/models"
)

// ResetState is one step of the password-reset flow.
type ResetState string

const (
	ResetStateRequestOtp ResetState = "request_otp"
	ResetStateAwaitOtp   ResetState = "await_otp"
	ResetStateDone       ResetState = "done"
)

// ResetFlow is the explicit password-reset state machine:
// RequestOtp -> AwaitOtp -> Done. Steps taken out of order fail with a state
// failure instead of silently toggling.
type ResetFlow struct {
	mu    sync.Mutex
	api   API
	state ResetState
	email string
}

// NewResetFlow starts a reset flow at the OTP request step.
func (s *Service) NewResetFlow() *ResetFlow {
	return &ResetFlow{api: s.api, state: ResetStateRequestOtp}
}

// State returns the current step.
func (f *ResetFlow) State() ResetState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// RequestOtp asks the commerce API to email a one-time code. On success the
// flow advances to the OTP entry step. Repeating the request re-sends the
// code for the same flow.
func (f *ResetFlow) RequestOtp(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == ResetStateDone {
		return models.NewStateFailure("reset already completed")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return models.NewValidationFailure("email", "Enter email")
	}

	if err := f.api.SendForgotOtp(ctx, email); err != nil {
		return err
	}
	f.email = email
	f.state = ResetStateAwaitOtp
	return nil
}

// Reset exchanges the one-time code for a new password. Only valid after a
// code was requested; a failed attempt stays at the OTP step so the shopper
// can retry.
func (f *ResetFlow) Reset(ctx context.Context, otp, newPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != ResetStateAwaitOtp {
		return models.NewStateFailure("request a code first")
	}
	if strings.TrimSpace(otp) == "" {
		return models.NewValidationFailure("otp", "Enter the code from your email")
	}
	if len(newPassword) < minPasswordLength {
		return models.NewValidationFailure("newPassword", "Min 6 chars required")
	}

	if err := f.api.VerifyOtpAndReset(ctx, f.email, otp, newPassword); err != nil {
		return err
	}
	f.state = ResetStateDone
	return nil
}
