package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getCatalog returns the full product list with grouping metadata.
func (h *Handler) getCatalog(c *gin.Context) {
	cat := h.sessions.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"products":   cat.Index.Products(),
		"parents":    cat.Index.Parents(),
		"categories": cat.Index.Categories(),
		"currency":   h.currency,
		"store":      h.storeName,
	})
}

// getVariantGroup returns the ordered variant group for a parent code.
func (h *Handler) getVariantGroup(c *gin.Context) {
	cat := h.sessions.Catalog()
	group := cat.Index.VariantsOf(c.Param("parent"))
	if len(group) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"variants": group})
}

// getRegions lists delivery regions.
func (h *Handler) getRegions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"regions": h.sessions.Catalog().Zones.Regions()})
}

// getTowns lists towns within a region.
func (h *Handler) getTowns(c *gin.Context) {
	region := c.Query("region")
	if region == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "region is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"towns": h.sessions.Catalog().Zones.Towns(region)})
}

// getAreas lists deliverable areas and fees for a (region, town) pair.
func (h *Handler) getAreas(c *gin.Context) {
	region := c.Query("region")
	town := c.Query("town")
	if region == "" || town == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "region and town are required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"areas": h.sessions.Catalog().Zones.Areas(region, town)})
}

// createSession starts a new shopping session.
func (h *Handler) createSession(c *gin.Context) {
	sess := h.sessions.Create(c.Request.Context())
	c.JSON(http.StatusCreated, sess.Snapshot())
}

// getSession returns the current selection state.
func (h *Handler) getSession(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

type subCodeRequest struct {
	SubCode string `json:"sub_code" binding:"required"`
}

// openVariant opens the variant group of a product and selects the variant.
func (h *Handler) openVariant(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}

	var req subCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if _, err := sess.Open(req.SubCode); err != nil {
		writeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// selectVariant switches the active variant within the open group.
func (h *Handler) selectVariant(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}

	var req subCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if _, err := sess.Select(req.SubCode); err != nil {
		writeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// pickSize stores the pending add-to-cart candidate.
func (h *Handler) pickSize(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}

	var req struct {
		Size string `json:"size" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	candidate, err := sess.PickSize(req.Size)
	if err != nil {
		writeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, candidate)
}

// closeVariant discards the modal-scoped selection.
func (h *Handler) closeVariant(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}
	sess.CloseVariant()
	c.Status(http.StatusNoContent)
}

// getCart returns the cart lines and totals.
func (h *Handler) getCart(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"lines":  sess.Lines(),
		"totals": sess.Totals(),
	})
}

// addToCart turns the pending candidate into a cart line.
func (h *Handler) addToCart(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}

	if err := sess.AddToCart(c.Request.Context()); err != nil {
		writeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"lines":  sess.Lines(),
		"totals": sess.Totals(),
	})
}

// setLineQty changes a cart line quantity.
func (h *Handler) setLineQty(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}

	var req struct {
		Qty int `json:"qty" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := sess.SetLineQty(c.Request.Context(), c.Param("sku"), req.Qty); err != nil {
		writeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"lines":  sess.Lines(),
		"totals": sess.Totals(),
	})
}

// removeLine deletes a cart line.
func (h *Handler) removeLine(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}
	sess.RemoveLine(c.Request.Context(), c.Param("sku"))
	c.JSON(http.StatusOK, gin.H{
		"lines":  sess.Lines(),
		"totals": sess.Totals(),
	})
}

// deliveryRequest applies any subset of delivery selections, in cascade
// order.
type deliveryRequest struct {
	Method *string `json:"method"`
	Region *string `json:"region"`
	Town   *string `json:"town"`
	Area   *string `json:"area"`
}

// setDelivery updates the delivery method and zone cascade.
func (h *Handler) setDelivery(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}

	var req deliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.Method != nil {
		if err := sess.SetDeliveryMethod(*req.Method); err != nil {
			writeFailure(c, err)
			return
		}
	}
	if req.Region != nil {
		sess.SelectRegion(*req.Region)
	}
	if req.Town != nil {
		if err := sess.SelectTown(*req.Town); err != nil {
			writeFailure(c, err)
			return
		}
	}
	if req.Area != nil {
		if err := sess.SelectArea(*req.Area); err != nil {
			writeFailure(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"state":  sess.Snapshot(),
		"totals": sess.Totals(),
	})
}

// getTotals returns the current money breakdown.
func (h *Handler) getTotals(c *gin.Context) {
	sess, ok := h.sessionFrom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Totals())
}
