package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

// Action names understood by the commerce endpoint.
const (
	actionGetStoreData      = "getStoreData"
	actionLoginUser         = "loginUser"
	actionRegisterUser      = "registerUser"
	actionUpdateUser        = "updateUser"
	actionSendForgotOtp     = "sendForgotOtp"
	actionVerifyOtpAndReset = "verifyOtpAndReset"
	actionProcessOrder      = "processOrder"
)

// connectionErrorMessage is the generic message surfaced for transport-level
// failures.
const connectionErrorMessage = "Connection Error"

// Client talks to the remote commerce API: a single endpoint with one
// query-parameter read and action-tagged JSON bodies for writes. The remote
// side is the system of record and is treated as a black box.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a commerce client. The timeout caps every request; the
// endpoint itself enforces none.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     util.GetLogger(),
	}
}

type envelope struct {
	Action  string `json:"action"`
	Payload any    `json:"payload"`
}

type apiResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *models.User `json:"user"`
}

// postAction sends one action-tagged write and decodes the response envelope.
// Transport failures resolve to network failures; success=false resolves to a
// business failure carrying the server message verbatim.
func (c *Client) postAction(ctx context.Context, action string, payload any) (*apiResponse, error) {
	start := time.Now()
	defer func() {
		util.CommerceRequestLatency.WithLabelValues(action).Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(envelope{Action: action, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", action, err)
	}
	// Apps-Script endpoints read the raw post body; text/plain avoids a CORS
	// preflight on the browser side and the backend accepts it unchanged.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		util.CommerceRequestErrors.WithLabelValues(action).Inc()
		c.logger.Warn("Commerce request failed",
			zap.String("action", action),
			zap.Error(err))
		return nil, models.NewNetworkFailure(connectionErrorMessage, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		util.CommerceRequestErrors.WithLabelValues(action).Inc()
		return nil, models.NewNetworkFailure(connectionErrorMessage, err)
	}
	if resp.StatusCode != http.StatusOK {
		util.CommerceRequestErrors.WithLabelValues(action).Inc()
		return nil, models.NewNetworkFailure(connectionErrorMessage,
			fmt.Errorf("%s returned status %d", action, resp.StatusCode))
	}

	var out apiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		util.CommerceRequestErrors.WithLabelValues(action).Inc()
		return nil, models.NewNetworkFailure(connectionErrorMessage, err)
	}
	if !out.Success {
		msg := out.Message
		if msg == "" {
			msg = fmt.Sprintf("%s rejected", action)
		}
		return nil, models.NewBusinessFailure(msg)
	}
	return &out, nil
}

// GetStoreData fetches the full storefront dataset: products, inventory,
// config, and delivery locations.
func (c *Client) GetStoreData(ctx context.Context) (*models.StoreData, error) {
	ctx, span := util.StartSpan(ctx, "Commerce.GetStoreData")
	defer span.End()

	start := time.Now()
	defer func() {
		util.CommerceRequestLatency.WithLabelValues(actionGetStoreData).Observe(time.Since(start).Seconds())
	}()

	url := fmt.Sprintf("%s?action=%s", c.baseURL, actionGetStoreData)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build store data request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		util.CommerceRequestErrors.WithLabelValues(actionGetStoreData).Inc()
		return nil, models.NewNetworkFailure(connectionErrorMessage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		util.CommerceRequestErrors.WithLabelValues(actionGetStoreData).Inc()
		return nil, models.NewNetworkFailure(connectionErrorMessage,
			fmt.Errorf("getStoreData returned status %d", resp.StatusCode))
	}

	var raw rawStoreData
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		util.CommerceRequestErrors.WithLabelValues(actionGetStoreData).Inc()
		return nil, models.NewNetworkFailure(connectionErrorMessage, err)
	}

	data := raw.normalize()
	c.logger.Info("Store data loaded",
		zap.Int("products", len(data.Products)),
		zap.Int("inventory", len(data.Inventory)),
		zap.Int("locations", len(data.Locations)))
	return data, nil
}

// Login authenticates a shopper and returns the profile.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	resp, err := c.postAction(ctx, actionLoginUser, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, models.NewBusinessFailure("login response carried no user")
	}
	return resp.User, nil
}

// Register creates a shopper account.
func (c *Client) Register(ctx context.Context, fullName, email, phone, password string) error {
	_, err := c.postAction(ctx, actionRegisterUser, map[string]string{
		"fullName": fullName,
		"email":    email,
		"phone":    phone,
		"password": password,
	})
	return err
}

// UpdateUserRequest carries a profile update. Password fields are optional
// and only sent together.
type UpdateUserRequest struct {
	UserID          string `json:"userId"`
	FullName        string `json:"fullName"`
	Phone           string `json:"phone"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

// UpdateUser saves profile changes and returns the updated profile.
func (c *Client) UpdateUser(ctx context.Context, req UpdateUserRequest) (*models.User, error) {
	resp, err := c.postAction(ctx, actionUpdateUser, req)
	if err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, models.NewBusinessFailure("update response carried no user")
	}
	return resp.User, nil
}

// SendForgotOtp emails a one-time code for a password reset.
func (c *Client) SendForgotOtp(ctx context.Context, email string) error {
	_, err := c.postAction(ctx, actionSendForgotOtp, map[string]string{"email": email})
	return err
}

// VerifyOtpAndReset exchanges the one-time code for a new password.
func (c *Client) VerifyOtpAndReset(ctx context.Context, email, otp, newPassword string) error {
	_, err := c.postAction(ctx, actionVerifyOtpAndReset, map[string]string{
		"email":       email,
		"otp":         otp,
		"newPassword": newPassword,
	})
	return err
}

// ProcessOrder submits a confirmed order. Callers should wrap ctx with a
// timeout; the endpoint enforces none and a stalled request would otherwise
// hang the checkout indefinitely.
func (c *Client) ProcessOrder(ctx context.Context, payload *models.OrderPayload) error {
	ctx, span := util.StartSpan(ctx, "Commerce.ProcessOrder")
	defer span.End()

	_, err := c.postAction(ctx, actionProcessOrder, payload)
	return err
}
