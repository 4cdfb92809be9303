package checkout

import (
	"context"
	"testing"

	"storefront-service/internal/models"
	"storefront-service/internal/payment"
	"storefront-service/internal/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	id             string
	lines          []models.CartLine
	deliveryMethod string
	deliveryFee    float64
	areaChosen     bool
	address        string
	config         models.StoreConfig
	cleared        bool
}

func (s *fakeSession) ID() string               { return s.id }
func (s *fakeSession) Lines() []models.CartLine { return s.lines }
func (s *fakeSession) ClearCart(context.Context) {
	s.cleared = true
	s.lines = nil
}
func (s *fakeSession) DeliveryMethod() string     { return s.deliveryMethod }
func (s *fakeSession) DeliveryFee() float64       { return s.deliveryFee }
func (s *fakeSession) Address() string            { return s.address }
func (s *fakeSession) AreaChosen() bool           { return s.areaChosen }
func (s *fakeSession) Config() models.StoreConfig { return s.config }
func (s *fakeSession) Totals() pricing.Totals {
	return pricing.ComputeTotals(s.lines, s.deliveryMethod, s.deliveryFee)
}

type spyProvider struct {
	setups    int
	verifyErr error
	lastCfg   payment.Config
}

func (p *spyProvider) Setup(cfg payment.Config) (payment.Handler, error) {
	p.setups++
	p.lastCfg = cfg
	if cfg.PublicKey == "" {
		return nil, models.NewConfigFailure("Config Error: Missing Payment Key")
	}
	return &spyHandler{cfg: cfg, verifyErr: p.verifyErr}, nil
}

type spyHandler struct {
	cfg       payment.Config
	verifyErr error
}

func (h *spyHandler) Intent() payment.Intent {
	return payment.Intent{
		Key:      h.cfg.PublicKey,
		Email:    h.cfg.Email,
		Amount:   h.cfg.Amount,
		Currency: h.cfg.Currency,
		Metadata: h.cfg.Metadata,
	}
}

func (h *spyHandler) Verify(context.Context, string) error { return h.verifyErr }

type fakeOrderAPI struct {
	err    error
	orders []*models.OrderPayload
}

func (a *fakeOrderAPI) ProcessOrder(_ context.Context, payload *models.OrderPayload) error {
	if a.err != nil {
		return a.err
	}
	a.orders = append(a.orders, payload)
	return nil
}

type fakePublisher struct {
	completed []*models.OrderCompletedEvent
	cancelled []*models.CheckoutCancelledEvent
}

func (p *fakePublisher) PublishOrderCompleted(_ context.Context, e *models.OrderCompletedEvent) error {
	p.completed = append(p.completed, e)
	return nil
}

func (p *fakePublisher) PublishCheckoutCancelled(_ context.Context, e *models.CheckoutCancelledEvent) error {
	p.cancelled = append(p.cancelled, e)
	return nil
}

func deliverySession() *fakeSession {
	return &fakeSession{
		id: "sess-1",
		lines: []models.CartLine{
			{SKU: "TEE-BLK-M", ProductName: "Classic Tee", Size: "M", Price: 50, MaxQty: 5, Qty: 2},
			{SKU: "HOOD-GRY-L", ProductName: "Heavy Hoodie", Size: "L", Price: 30, MaxQty: 5, Qty: 1},
		},
		deliveryMethod: models.DeliveryMethodDelivery,
		deliveryFee:    15,
		areaChosen:     true,
		address:        "Osu, Accra, Greater Accra",
		config:         models.StoreConfig{models.ConfigKeyPaystackPublicKey: "pk_test_abc"},
	}
}

func contact() Contact {
	return Contact{Name: "Ama Mensah", Email: "a@b.com", Phone: "0240000000"}
}

func newTestOrchestrator(sess *fakeSession, provider *spyProvider, api *fakeOrderAPI, pub *fakePublisher) *Orchestrator {
	return New(sess, api, provider, pub, "FAYM", "GHS")
}

func TestBeginProducesIntentInMinorUnits(t *testing.T) {
	sess := deliverySession()
	provider := &spyProvider{}
	o := newTestOrchestrator(sess, provider, &fakeOrderAPI{}, &fakePublisher{})

	intent, err := o.Begin(context.Background(), contact())
	require.NoError(t, err)

	assert.Equal(t, StateAwaitingPayment, o.State())
	assert.Equal(t, "pk_test_abc", intent.Key)
	assert.Equal(t, int64(14500), intent.Amount, "50*2 + 30 + 15 fee, in pesewas")
	assert.Equal(t, "GHS", intent.Currency)

	fields := make(map[string]string)
	for _, m := range intent.Metadata {
		fields[m.VariableName] = m.Value
	}
	assert.Equal(t, "Ama Mensah", fields["customer_name"])
	assert.Equal(t, models.DeliveryMethodDelivery, fields["delivery_method"])
}

func TestBeginRejectsEmptyCart(t *testing.T) {
	sess := deliverySession()
	sess.lines = nil
	o := newTestOrchestrator(sess, &spyProvider{}, &fakeOrderAPI{}, &fakePublisher{})

	_, err := o.Begin(context.Background(), contact())
	assert.True(t, models.IsKind(err, models.FailureValidation))
}

func TestBeginRejectsMissingContactFields(t *testing.T) {
	cases := []struct {
		name    string
		contact Contact
		field   string
	}{
		{"no name", Contact{Email: "a@b.com", Phone: "0240000000"}, "name"},
		{"no email", Contact{Name: "Ama", Phone: "0240000000"}, "email"},
		{"no phone", Contact{Name: "Ama", Email: "a@b.com"}, "phone"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &spyProvider{}
			o := newTestOrchestrator(deliverySession(), provider, &fakeOrderAPI{}, &fakePublisher{})

			_, err := o.Begin(context.Background(), tc.contact)
			f := models.FailureOf(err)
			require.NotNil(t, f)
			assert.Equal(t, tc.field, f.Field)
			assert.Equal(t, "Please fill all contact fields.", f.Message)
			assert.Equal(t, 0, provider.setups, "validation must fail before the provider is touched")
		})
	}
}

func TestBeginDeliveryWithoutAreaFailsBeforeProvider(t *testing.T) {
	sess := deliverySession()
	sess.areaChosen = false
	provider := &spyProvider{}
	o := newTestOrchestrator(sess, provider, &fakeOrderAPI{}, &fakePublisher{})

	_, err := o.Begin(context.Background(), contact())
	f := models.FailureOf(err)
	require.NotNil(t, f)
	assert.Equal(t, "address", f.Field)
	assert.Equal(t, 0, provider.setups)
	assert.Equal(t, StateContactEntry, o.State())
}

func TestBeginPickupSkipsAreaCheck(t *testing.T) {
	sess := deliverySession()
	sess.deliveryMethod = models.DeliveryMethodPickup
	sess.areaChosen = false
	o := newTestOrchestrator(sess, &spyProvider{}, &fakeOrderAPI{}, &fakePublisher{})

	intent, err := o.Begin(context.Background(), contact())
	require.NoError(t, err)
	assert.Equal(t, int64(13000), intent.Amount, "no delivery fee on pickup")
}

func TestBeginMissingPaymentKey(t *testing.T) {
	sess := deliverySession()
	sess.config = models.StoreConfig{}
	o := newTestOrchestrator(sess, &spyProvider{}, &fakeOrderAPI{}, &fakePublisher{})

	_, err := o.Begin(context.Background(), contact())
	assert.True(t, models.IsKind(err, models.FailureConfig))
	assert.Equal(t, StateContactEntry, o.State())
}

func TestHandleSuccessSubmitsThenClears(t *testing.T) {
	sess := deliverySession()
	api := &fakeOrderAPI{}
	pub := &fakePublisher{}
	o := newTestOrchestrator(sess, &spyProvider{}, api, pub)
	ctx := context.Background()

	_, err := o.Begin(ctx, contact())
	require.NoError(t, err)
	require.NoError(t, o.HandleSuccess(ctx, "ref-123"))

	assert.Equal(t, StateCompleted, o.State())
	assert.True(t, sess.cleared)

	require.Len(t, api.orders, 1)
	order := api.orders[0]
	assert.Equal(t, "FAYM", order.StoreName)
	assert.Equal(t, "Osu, Accra, Greater Accra", order.Location)
	assert.Equal(t, "Paystack", order.PaymentMethod)
	assert.Equal(t, 145.0, order.GrandTotal)
	assert.Equal(t, "ref-123", order.PaymentReference)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "TEE-BLK-M", order.Items[0].SKUID)

	require.Len(t, pub.completed, 1)
	assert.Equal(t, "sess-1", pub.completed[0].SessionID)
	assert.Equal(t, models.EventTypeOrderCompleted, pub.completed[0].EventType)
}

func TestHandleSuccessWithoutPendingPayment(t *testing.T) {
	o := newTestOrchestrator(deliverySession(), &spyProvider{}, &fakeOrderAPI{}, &fakePublisher{})

	err := o.HandleSuccess(context.Background(), "ref-123")
	assert.True(t, models.IsKind(err, models.FailureState))
}

func TestSubmissionFailureLeavesCartAndIsResumable(t *testing.T) {
	sess := deliverySession()
	api := &fakeOrderAPI{err: models.NewNetworkFailure("Connection Error", assert.AnError)}
	pub := &fakePublisher{}
	o := newTestOrchestrator(sess, &spyProvider{}, api, pub)
	ctx := context.Background()

	_, err := o.Begin(ctx, contact())
	require.NoError(t, err)

	err = o.HandleSuccess(ctx, "ref-123")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.FailureNetwork))
	assert.Equal(t, StateFailed, o.State())
	assert.False(t, sess.cleared, "a failed submission must not lose the cart")
	assert.Empty(t, pub.completed)

	// the commerce API recovers; the checkout can be re-begun
	api.err = nil
	_, err = o.Begin(ctx, contact())
	require.NoError(t, err)
	require.NoError(t, o.HandleSuccess(ctx, "ref-456"))
	assert.Equal(t, StateCompleted, o.State())
}

func TestVerifyFailureStopsBeforeSubmission(t *testing.T) {
	sess := deliverySession()
	api := &fakeOrderAPI{}
	provider := &spyProvider{verifyErr: models.NewBusinessFailure("payment could not be verified")}
	o := newTestOrchestrator(sess, provider, api, &fakePublisher{})
	ctx := context.Background()

	_, err := o.Begin(ctx, contact())
	require.NoError(t, err)

	err = o.HandleSuccess(ctx, "ref-123")
	require.Error(t, err)
	assert.Empty(t, api.orders, "unverified payments never reach the commerce API")
	assert.Equal(t, StateAwaitingPayment, o.State())
}

func TestHandleCancelLeavesEverythingIntact(t *testing.T) {
	sess := deliverySession()
	api := &fakeOrderAPI{}
	pub := &fakePublisher{}
	o := newTestOrchestrator(sess, &spyProvider{}, api, pub)
	ctx := context.Background()

	_, err := o.Begin(ctx, contact())
	require.NoError(t, err)

	o.HandleCancel(ctx)
	assert.Equal(t, StateContactEntry, o.State())
	assert.Empty(t, api.orders)
	assert.False(t, sess.cleared)
	require.Len(t, pub.cancelled, 1)
	assert.Equal(t, "sess-1", pub.cancelled[0].SessionID)

	// cancel with nothing pending is a no-op
	o.HandleCancel(ctx)
	assert.Len(t, pub.cancelled, 1)
}
