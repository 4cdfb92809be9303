package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// PaystackProvider implements the inline Paystack flow. The browser widget
// charges against the publishable key; when a secret key is configured the
// success reference is additionally verified against the Paystack API before
// an order is submitted. Without a secret key the callback is trusted, which
// matches the public-key-only storefront setup.
type PaystackProvider struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewPaystackProvider creates the provider. secretKey may be empty.
func NewPaystackProvider(baseURL, secretKey string) *PaystackProvider {
	return &PaystackProvider{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     util.GetLogger(),
	}
}

// Setup validates the config and returns a handler for one payment attempt.
func (p *PaystackProvider) Setup(cfg Config) (Handler, error) {
	if err := requireKey(cfg); err != nil {
		return nil, err
	}
	return &paystackHandler{provider: p, cfg: cfg}, nil
}

type paystackHandler struct {
	provider *PaystackProvider
	cfg      Config
}

func (h *paystackHandler) Intent() Intent {
	return Intent{
		Key:      h.cfg.PublicKey,
		Email:    h.cfg.Email,
		Amount:   h.cfg.Amount,
		Currency: h.cfg.Currency,
		Metadata: h.cfg.Metadata,
	}
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string `json:"status"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	} `json:"data"`
}

func (h *paystackHandler) Verify(ctx context.Context, reference string) error {
	if reference == "" {
		return models.NewValidationFailure("reference", "payment reference is required")
	}
	if h.provider.secretKey == "" {
		return nil
	}

	start := time.Now()
	defer func() {
		util.PaymentVerifyLatency.Observe(time.Since(start).Seconds())
	}()

	url := fmt.Sprintf("%s/transaction/verify/%s", h.provider.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.provider.secretKey)

	resp, err := h.provider.httpClient.Do(req)
	if err != nil {
		return models.NewNetworkFailure("Connection Error", err)
	}
	defer resp.Body.Close()

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.NewNetworkFailure("Connection Error", err)
	}
	if !out.Status || out.Data.Status != "success" {
		h.provider.logger.Warn("Payment verification rejected",
			zap.String("reference", reference),
			zap.String("status", out.Data.Status))
		return models.NewBusinessFailure("payment could not be verified")
	}
	if out.Data.Amount != h.cfg.Amount {
		h.provider.logger.Warn("Payment amount mismatch",
			zap.String("reference", reference),
			zap.Int64("expected", h.cfg.Amount),
			zap.Int64("charged", out.Data.Amount))
		return models.NewBusinessFailure("payment amount mismatch")
	}
	return nil
}
