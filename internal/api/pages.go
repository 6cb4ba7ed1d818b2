package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The page endpoints return the JSON page data the frontend renders; the
// HTML shells themselves are served elsewhere.

func (h *Handler) indexPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":  "index",
		"title": "Inventory & Point of Sale",
	})
}

func (h *Handler) paymentRequiredPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":    "payment-required",
		"message": "A paid subscription is required to access the inventory dashboard.",
	})
}

func (h *Handler) inventoryPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "inventory"})
}

func (h *Handler) receiptPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "receipt"})
}

func (h *Handler) salesPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"page": "sales"})
}

// inventoryDashboard is the paid-only surface; RequirePaid has already
// rejected unpaid users by the time this runs
func (h *Handler) inventoryDashboard(c *gin.Context) {
	userID, _ := currentUserID(c)

	summary, err := h.inventory.Dashboard(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":    "inventory-dashboard",
		"summary": summary,
	})
}
