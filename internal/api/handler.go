package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"storefront-service/internal/auth"
	"storefront-service/internal/broker"
	"storefront-service/internal/checkout"
	"storefront-service/internal/commerce"
	"storefront-service/internal/models"
	"storefront-service/internal/payment"
	"storefront-service/internal/session"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	sessions    *session.Manager
	authService *auth.Service
	receipts    *store.Store
	commerce    *commerce.Client
	provider    payment.Provider
	publisher   *broker.EventPublisher
	storeName   string
	currency    string

	mu        sync.Mutex
	checkouts map[string]*checkoutEntry
	resets    map[string]*auth.ResetFlow
}

// checkoutEntry pins an orchestrator to the session object it was built
// over, so an orchestrator never outlives a TTL-evicted session.
type checkoutEntry struct {
	sess *session.Session
	orch *checkout.Orchestrator
}

// NewHandler creates a new HTTP handler
func NewHandler(
	sessions *session.Manager,
	authService *auth.Service,
	receipts *store.Store,
	commerceClient *commerce.Client,
	provider payment.Provider,
	publisher *broker.EventPublisher,
	storeName, currency string,
) *Handler {
	return &Handler{
		sessions:    sessions,
		authService: authService,
		receipts:    receipts,
		commerce:    commerceClient,
		provider:    provider,
		publisher:   publisher,
		storeName:   storeName,
		currency:    currency,
		checkouts:   make(map[string]*checkoutEntry),
		resets:      make(map[string]*auth.ResetFlow),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/catalog", h.getCatalog)
		v1.GET("/catalog/:parent", h.getVariantGroup)

		v1.GET("/zones/regions", h.getRegions)
		v1.GET("/zones/towns", h.getTowns)
		v1.GET("/zones/areas", h.getAreas)

		v1.POST("/sessions", h.createSession)
		v1.GET("/orders", h.getOrderHistory)

		s := v1.Group("/sessions/:id")
		{
			s.GET("", h.getSession)
			s.POST("/variant/open", h.openVariant)
			s.POST("/variant/select", h.selectVariant)
			s.POST("/variant/size", h.pickSize)
			s.POST("/variant/close", h.closeVariant)

			s.GET("/cart", h.getCart)
			s.POST("/cart", h.addToCart)
			s.PATCH("/cart/:sku", h.setLineQty)
			s.DELETE("/cart/:sku", h.removeLine)

			s.POST("/delivery", h.setDelivery)
			s.GET("/totals", h.getTotals)

			s.POST("/checkout", h.beginCheckout)
			s.POST("/checkout/callback", h.paymentCallback)
			s.POST("/checkout/cancel", h.cancelCheckout)

			s.POST("/auth/login", h.login)
			s.POST("/auth/register", h.register)
			s.GET("/auth/me", h.currentUser)
			s.PUT("/auth/profile", h.updateProfile)
			s.POST("/auth/logout", h.logout)
			s.POST("/auth/forgot-otp", h.forgotOtp)
			s.POST("/auth/reset", h.resetPassword)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// writeFailure maps a typed failure to an HTTP response. Unknown errors stay
// opaque.
func writeFailure(c *gin.Context, err error) {
	f := models.FailureOf(err)
	if f == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch f.Kind {
	case models.FailureValidation:
		status = http.StatusBadRequest
	case models.FailureStock, models.FailureState:
		status = http.StatusConflict
	case models.FailureBusiness:
		status = http.StatusUnprocessableEntity
	case models.FailureNetwork:
		status = http.StatusBadGateway
	case models.FailureConfig:
		status = http.StatusServiceUnavailable
	}

	body := gin.H{"error": f.Message, "kind": f.Kind}
	if f.Field != "" {
		body["field"] = f.Field
	}
	c.JSON(status, body)
}

// sessionFrom resolves the session path parameter, restoring persisted state
// when needed.
func (h *Handler) sessionFrom(c *gin.Context) (*session.Session, bool) {
	sess, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to resolve session",
			"details": err.Error(),
		})
		return nil, false
	}
	return sess, true
}

// orchestratorFor returns the session's checkout orchestrator, creating it on
// first use so its state machine survives across the begin/callback/cancel
// requests. When idle expiry has replaced the session object, the stored
// orchestrator is still bound to the evicted one; it is rebuilt over the
// restored session instead of mutating dead state.
func (h *Handler) orchestratorFor(sess *session.Session) *checkout.Orchestrator {
	h.mu.Lock()
	defer h.mu.Unlock()

	if entry, ok := h.checkouts[sess.ID()]; ok && entry.sess == sess {
		return entry.orch
	}
	orch := checkout.New(sess, h.commerce, h.provider, h.publisher, h.storeName, h.currency)
	h.checkouts[sess.ID()] = &checkoutEntry{sess: sess, orch: orch}
	return orch
}

// dropCheckout forgets a finished checkout so the map only holds in-flight
// attempts.
func (h *Handler) dropCheckout(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.checkouts, sessionID)
}

// resetFlowFor returns the session's password-reset flow, creating it on
// first use.
func (h *Handler) resetFlowFor(sessionID string) *auth.ResetFlow {
	h.mu.Lock()
	defer h.mu.Unlock()

	if flow, ok := h.resets[sessionID]; ok {
		return flow
	}
	flow := h.authService.NewResetFlow()
	h.resets[sessionID] = flow
	return flow
}

// dropResetFlow forgets a completed reset flow.
func (h *Handler) dropResetFlow(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.resets, sessionID)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
