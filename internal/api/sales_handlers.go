package api

import (
	"net/http"

	"pos-service/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listSales(c *gin.Context) {
	userID, _ := currentUserID(c)

	sales, err := h.sales.ListSales(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

func (h *Handler) createSale(c *gin.Context) {
	userID, _ := currentUserID(c)

	var input service.SaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sale, err := h.sales.RecordSale(c.Request.Context(), userID, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

func (h *Handler) getSale(c *gin.Context) {
	userID, _ := currentUserID(c)

	saleID, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale ID"})
		return
	}

	sale, err := h.sales.GetSale(c.Request.Context(), userID, saleID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// deleteSale is staff-only; RequireStaff has already run
func (h *Handler) deleteSale(c *gin.Context) {
	saleID, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sale ID"})
		return
	}

	if err := h.sales.DeleteSale(c.Request.Context(), saleID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type clientRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (h *Handler) listClients(c *gin.Context) {
	userID, _ := currentUserID(c)

	clients, err := h.sales.ListClients(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}

func (h *Handler) createClient(c *gin.Context) {
	userID, _ := currentUserID(c)

	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	client, err := h.sales.CreateClient(c.Request.Context(), userID, req.FirstName, req.LastName)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}
