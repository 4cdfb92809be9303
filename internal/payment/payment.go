package payment

// The payment collaborator mirrors the inline-widget contract: Setup produces
// a handler carrying everything the widget needs to open, and the two
// asynchronous outcomes (a reference on success, a cancellation with no
// payload) arrive later through the checkout orchestrator.

import (
	"context"

	"storefront-service/internal/models"
)

// MetadataField is one custom field attached to a payment.
type MetadataField struct {
	DisplayName  string `json:"display_name"`
	VariableName string `json:"variable_name"`
	Value        string `json:"value"`
}

// Config is everything a provider needs to set up one payment attempt.
// Amount is in minor units.
type Config struct {
	PublicKey string
	Email     string
	Amount    int64
	Currency  string
	Metadata  []MetadataField
}

// Intent is the widget-opening parameter set handed back to the client.
type Intent struct {
	Key      string          `json:"key"`
	Email    string          `json:"email"`
	Amount   int64           `json:"amount"`
	Currency string          `json:"currency"`
	Metadata []MetadataField `json:"metadata"`
}

// Handler is one in-flight payment attempt.
type Handler interface {
	// Intent returns the parameters the client opens the widget with.
	Intent() Intent
	// Verify confirms a success reference server-side before any order is
	// submitted on its strength.
	Verify(ctx context.Context, reference string) error
}

// Provider sets up payment attempts. A missing publishable key is fatal for
// the attempt and must surface as a config failure, not proceed silently.
type Provider interface {
	Setup(cfg Config) (Handler, error)
}

// missingKeyMessage matches what the storefront shows for an unconfigured
// payment key.
const missingKeyMessage = "Config Error: Missing Payment Key"

func requireKey(cfg Config) error {
	if cfg.PublicKey == "" {
		return models.NewConfigFailure(missingKeyMessage)
	}
	return nil
}
