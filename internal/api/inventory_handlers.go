package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListCache caches the public inventory listing
type ListCache interface {
	CacheInventoryList(ctx context.Context, payload []byte, ttl time.Duration) error
	GetCachedInventoryList(ctx context.Context) ([]byte, error)
	InvalidateInventoryList(ctx context.Context) error
}

// listInventory is the public read-only listing, served from cache when
// possible
func (h *Handler) listInventory(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if payload, err := h.cache.GetCachedInventoryList(ctx); err != nil {
			h.logger.Warn("Inventory cache read failed", zap.Error(err))
		} else if payload != nil {
			c.Data(http.StatusOK, "application/json", payload)
			return
		}
	}

	items, err := h.inventory.ListItems(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	body := gin.H{"items": items}
	if h.cache != nil {
		if payload, err := json.Marshal(body); err == nil {
			if err := h.cache.CacheInventoryList(ctx, payload, h.cacheTTL); err != nil {
				h.logger.Warn("Inventory cache write failed", zap.Error(err))
			}
		}
	}

	c.JSON(http.StatusOK, body)
}

// listOwnerInventory lists only the authenticated owner's items
func (h *Handler) listOwnerInventory(c *gin.Context) {
	userID, _ := currentUserID(c)

	items, err := h.inventory.ListOwnerItems(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if items == nil {
		items = []models.InventoryItem{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// createInventoryItem creates an item with the owner auto-assigned from
// the authenticated principal
func (h *Handler) createInventoryItem(c *gin.Context) {
	userID, _ := currentUserID(c)

	var input service.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	item, err := h.inventory.CreateItem(c.Request.Context(), userID, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateInventoryCache(c)
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) getInventoryItem(c *gin.Context) {
	itemID, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	item, err := h.inventory.GetItem(c.Request.Context(), itemID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) updateInventoryItem(c *gin.Context) {
	userID, _ := currentUserID(c)

	itemID, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var input service.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	item, err := h.inventory.UpdateItem(c.Request.Context(), userID, itemID, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateInventoryCache(c)
	c.JSON(http.StatusOK, item)
}

// deleteInventoryItem is staff-only; RequireStaff has already run
func (h *Handler) deleteInventoryItem(c *gin.Context) {
	itemID, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	if err := h.inventory.DeleteItem(c.Request.Context(), itemID); err != nil {
		h.respondError(c, err)
		return
	}

	h.invalidateInventoryCache(c)
	c.Status(http.StatusNoContent)
}

func (h *Handler) invalidateInventoryCache(c *gin.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateInventoryList(c.Request.Context()); err != nil {
		h.logger.Warn("Inventory cache invalidation failed", zap.Error(err))
	}
}

// pathID parses the :id path parameter
func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
