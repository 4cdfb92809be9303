package api

import (
	"context"
	"net/http"
	"time"

	"storefront-service/internal/checkout"

	"github.com/gin-gonic/gin"
)

// submitTimeout bounds the order submission call; the commerce endpoint
// enforces no timeout of its own.
const submitTimeout = 30 * time.Second

// beginCheckout validates contact data and returns the payment widget
// parameters.
func (h *Handler) beginCheckout(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}

	var contact checkout.Contact
	if err := c.ShouldBindJSON(&contact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	orch := h.orchestratorFor(sess)
	intent, err := orch.Begin(c.Request.Context(), contact)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":  orch.State(),
		"intent": intent,
	})
}

// paymentCallback consumes the widget's success callback and submits the
// order.
func (h *Handler) paymentCallback(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}

	var req struct {
		Reference string `json:"reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), submitTimeout)
	defer cancel()

	orch := h.orchestratorFor(sess)
	if err := orch.HandleSuccess(ctx, req.Reference); err != nil {
		writeFailure(c, err)
		return
	}
	h.dropCheckout(sess.ID())

	c.JSON(http.StatusOK, gin.H{
		"state":   orch.State(),
		"message": "Order Confirmed!",
	})
}

// cancelCheckout consumes the widget's cancellation callback.
func (h *Handler) cancelCheckout(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}

	orch := h.orchestratorFor(sess)
	orch.HandleCancel(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"state":   orch.State(),
		"message": "Payment Cancelled",
	})
}

// getOrderHistory lists a shopper's receipts.
func (h *Handler) getOrderHistory(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	receipts, err := h.receipts.ReceiptsByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order history", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": receipts})
}
