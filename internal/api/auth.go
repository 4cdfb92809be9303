package api

import (
	"net/http"

	"storefront-service/internal/auth"

	"github.com/gin-gonic/gin"
)

// login authenticates a shopper and binds the profile to the session.
func (h *Handler) login(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}

	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.authService.Login(c.Request.Context(), sess.ID(), req.Email, req.Password)
	if err != nil {
		writeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// register creates a shopper account.
func (h *Handler) register(c *gin.Context) {
	if _, ok := h.sessionFrom(c); !ok {
		return
	}

	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.authService.Register(c.Request.Context(), req); err != nil {
		writeFailure(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Account Created! Please Login."})
}

// currentUser returns the persisted profile, or null when logged out.
func (h *Handler) currentUser(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), sess.ID())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// updateProfile saves profile changes.
func (h *Handler) updateProfile(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}

	var req auth.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), sess.ID(), req)
	if err != nil {
		writeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "message": "Profile Updated!"})
}

// logout drops the persisted profile.
func (h *Handler) logout(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), sess.ID()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out", "details": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// forgotOtp starts (or re-sends) the password-reset flow.
func (h *Handler) forgotOtp(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}

	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	flow := h.resetFlowFor(sess.ID())
	if err := flow.RequestOtp(c.Request.Context(), req.Email); err != nil {
		writeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": flow.State(), "message": "Code Sent to Email"})
}

// resetPassword finishes the password-reset flow.
func (h *Handler) resetPassword(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}

	var req struct {
		Otp         string `json:"otp" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	flow := h.resetFlowFor(sess.ID())
	if err := flow.Reset(c.Request.Context(), req.Otp, req.NewPassword); err != nil {
		writeFailure(c, err)
		return
	}

	h.dropResetFlow(sess.ID())
	c.JSON(http.StatusOK, gin.H{"message": "Password Reset! Please Login."})
}
