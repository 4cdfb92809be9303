package checkout

import (
	"context"
	"strings"
	"sync"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/payment"
	"storefront-service/internal/pricing"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is one step of the checkout lifecycle.
type State string

const (
	StateIdle            State = "idle"
	StateContactEntry    State = "contact_entry"
	StateAwaitingPayment State = "awaiting_payment"
	StateSubmitting      State = "submitting"
	StateCompleted       State = "completed"
	StateFailed          State = "failed"
)

// paymentMethod is the only payment rail the storefront offers.
const paymentMethod = "Paystack"

// Session is the slice of session state checkout reads and mutates.
type Session interface {
	ID() string
	Lines() []models.CartLine
	ClearCart(ctx context.Context)
	DeliveryMethod() string
	DeliveryFee() float64
	Address() string
	AreaChosen() bool
	Totals() pricing.Totals
	Config() models.StoreConfig
}

// OrderAPI submits confirmed orders to the commerce API.
type OrderAPI interface {
	ProcessOrder(ctx context.Context, payload *models.OrderPayload) error
}

// EventPublisher announces checkout outcomes.
type EventPublisher interface {
	PublishOrderCompleted(ctx context.Context, event *models.OrderCompletedEvent) error
	PublishCheckoutCancelled(ctx context.Context, event *models.CheckoutCancelledEvent) error
}

// Contact is the shopper contact block entered at checkout.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Orchestrator drives one session's checkout through
// Idle -> ContactEntry -> AwaitingPayment -> Submitting -> Completed|Failed.
// Nothing irreversible happens locally before the commerce API confirms, so
// a failed or cancelled checkout leaves the cart exactly as it was and can be
// re-begun.
type Orchestrator struct {
	sess      Session
	api       OrderAPI
	provider  payment.Provider
	publisher EventPublisher
	storeName string
	currency  string
	logger    *zap.Logger

	mu      sync.Mutex
	state   State
	contact Contact
	handler payment.Handler
}

// New creates an orchestrator for one session.
func New(sess Session, api OrderAPI, provider payment.Provider, publisher EventPublisher, storeName, currency string) *Orchestrator {
	return &Orchestrator{
		sess:      sess,
		api:       api,
		provider:  provider,
		publisher: publisher,
		storeName: storeName,
		currency:  currency,
		logger:    util.GetLogger(),
		state:     StateIdle,
	}
}

// State returns the current checkout step.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Begin validates the contact block and sets up the payment attempt. On
// success the checkout is awaiting the payment widget's outcome and the
// returned intent carries the widget parameters. Validation and configuration
// failures leave the checkout at contact entry with nothing mutated.
func (o *Orchestrator) Begin(ctx context.Context, contact Contact) (*payment.Intent, error) {
	_, span := util.StartSpan(ctx, "Checkout.Begin")
	defer span.End()

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateSubmitting {
		return nil, models.NewStateFailure("order submission in progress")
	}
	o.state = StateContactEntry

	if len(o.sess.Lines()) == 0 {
		return nil, models.NewValidationFailure("cart", "Your cart is empty.")
	}

	contact.Name = strings.TrimSpace(contact.Name)
	contact.Email = strings.TrimSpace(contact.Email)
	contact.Phone = strings.TrimSpace(contact.Phone)

	switch {
	case contact.Name == "":
		return nil, models.NewValidationFailure("name", "Please fill all contact fields.")
	case contact.Email == "":
		return nil, models.NewValidationFailure("email", "Please fill all contact fields.")
	case contact.Phone == "":
		return nil, models.NewValidationFailure("phone", "Please fill all contact fields.")
	}
	if o.sess.DeliveryMethod() == models.DeliveryMethodDelivery && !o.sess.AreaChosen() {
		return nil, models.NewValidationFailure("address", "Please fill all contact fields.")
	}

	totals := o.sess.Totals()
	handler, err := o.provider.Setup(payment.Config{
		PublicKey: o.sess.Config().PublicKey(),
		Email:     contact.Email,
		Amount:    pricing.MinorUnits(totals.Total),
		Currency:  o.currency,
		Metadata: []payment.MetadataField{
			{DisplayName: "Customer Name", VariableName: "customer_name", Value: contact.Name},
			{DisplayName: "Phone", VariableName: "phone", Value: contact.Phone},
			{DisplayName: "Delivery Method", VariableName: "delivery_method", Value: o.sess.DeliveryMethod()},
		},
	})
	if err != nil {
		return nil, err
	}

	o.contact = contact
	o.handler = handler
	o.state = StateAwaitingPayment
	util.CheckoutsStartedTotal.Inc()

	o.logger.Info("Checkout awaiting payment",
		zap.String("session_id", o.sess.ID()),
		zap.Float64("total", totals.Total))

	intent := handler.Intent()
	return &intent, nil
}

// HandleSuccess consumes the payment widget's success callback: the reference
// is verified, the order is submitted, and only after the commerce API
// confirms is the cart cleared. Submission failures leave the cart intact and
// the checkout resumable.
func (o *Orchestrator) HandleSuccess(ctx context.Context, reference string) error {
	ctx, span := util.StartSpan(ctx, "Checkout.HandleSuccess")
	defer span.End()

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateAwaitingPayment {
		return models.NewStateFailure("no payment in progress")
	}

	if err := o.handler.Verify(ctx, reference); err != nil {
		return err
	}

	o.state = StateSubmitting
	payload := o.buildOrderLocked(reference)

	if err := o.api.ProcessOrder(ctx, payload); err != nil {
		o.state = StateFailed
		reason := "business_error"
		if models.IsKind(err, models.FailureNetwork) {
			reason = "network_error"
		}
		util.OrdersFailedTotal.WithLabelValues(reason).Inc()
		o.logger.Warn("Order submission failed",
			zap.String("session_id", o.sess.ID()),
			zap.String("reference", reference),
			zap.Error(err))
		return err
	}

	o.sess.ClearCart(ctx)
	o.state = StateCompleted
	util.OrdersCompletedTotal.Inc()

	event := &models.OrderCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCompleted,
			Timestamp: time.Now(),
		},
		SessionID:      o.sess.ID(),
		Reference:      reference,
		Email:          payload.Email,
		CustomerName:   payload.CustomerName,
		DeliveryMethod: payload.DeliveryMethod,
		GrandTotal:     payload.GrandTotal,
		Items:          payload.Items,
	}
	if err := o.publisher.PublishOrderCompleted(ctx, event); err != nil {
		o.logger.Error("Failed to publish OrderCompleted event", zap.Error(err))
	}

	o.logger.Info("Order confirmed",
		zap.String("session_id", o.sess.ID()),
		zap.String("reference", reference),
		zap.Float64("total", payload.GrandTotal))
	return nil
}

// HandleCancel consumes the widget's cancellation callback. No order is
// submitted and the cart is untouched; the checkout drops back to contact
// entry. Cancelling when no payment is pending is a no-op.
func (o *Orchestrator) HandleCancel(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != StateAwaitingPayment {
		return
	}
	o.state = StateContactEntry
	o.handler = nil
	util.CheckoutsCancelledTotal.Inc()

	event := &models.CheckoutCancelledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCheckoutCancelled,
			Timestamp: time.Now(),
		},
		SessionID:  o.sess.ID(),
		GrandTotal: o.sess.Totals().Total,
	}
	if err := o.publisher.PublishCheckoutCancelled(ctx, event); err != nil {
		o.logger.Error("Failed to publish CheckoutCancelled event", zap.Error(err))
	}

	o.logger.Info("Payment cancelled", zap.String("session_id", o.sess.ID()))
}

// buildOrderLocked assembles the processOrder payload from the frozen
// contact block and the current cart and delivery selection.
func (o *Orchestrator) buildOrderLocked(reference string) *models.OrderPayload {
	lines := o.sess.Lines()
	totals := o.sess.Totals()

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			SKUID:    line.SKU,
			ItemName: line.ProductName,
			Size:     line.Size,
			Qty:      line.Qty,
			Price:    line.Price,
		})
	}

	return &models.OrderPayload{
		StoreName:        o.storeName,
		CustomerName:     o.contact.Name,
		Email:            o.contact.Email,
		Phone:            o.contact.Phone,
		Location:         o.sess.Address(),
		DeliveryMethod:   o.sess.DeliveryMethod(),
		PaymentMethod:    paymentMethod,
		GrandTotal:       totals.Total,
		Items:            items,
		PaymentReference: reference,
	}
}
