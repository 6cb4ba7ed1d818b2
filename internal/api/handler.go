package api

import (
	"errors"
	"net/http"
	"time"

	"pos-service/internal/auth"
	"pos-service/internal/service"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	accounts  *service.AccountService
	inventory *service.InventoryService
	products  *service.ProductService
	carts     *service.CartService
	checkout  *service.CheckoutService
	payments  *service.PaymentService
	sales     *service.SalesService
	tokens    *auth.TokenManager
	users     UserLoader
	cache     ListCache
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	accounts *service.AccountService,
	inventory *service.InventoryService,
	products *service.ProductService,
	carts *service.CartService,
	checkout *service.CheckoutService,
	payments *service.PaymentService,
	sales *service.SalesService,
	tokens *auth.TokenManager,
	users UserLoader,
	cache ListCache,
	cacheTTL time.Duration,
) *Handler {
	return &Handler{
		accounts:  accounts,
		inventory: inventory,
		products:  products,
		carts:     carts,
		checkout:  checkout,
		payments:  payments,
		sales:     sales,
		tokens:    tokens,
		users:     users,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    util.GetLogger(),
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

	authd := RequireAuth(h.tokens)
	paid := RequirePaid(h.users)
	staff := RequireStaff(h.users)

	// page surfaces
	router.GET("/", h.indexPage)
	router.GET("/payment-required/", h.paymentRequiredPage)
	router.GET("/inventory/", h.inventoryPage)
	router.GET("/receipt/", h.receiptPage)
	router.GET("/sales/", h.salesPage)
	router.GET("/inventory-dashboard/", authd, paid, h.inventoryDashboard)
	router.POST("/payment-success/", authd, h.paymentSuccess)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", h.register)
		v1.POST("/auth/login", h.login)

		// listing is public, writes require authentication
		v1.GET("/inventory", h.listInventory)
		v1.GET("/inventory/mine", authd, h.listOwnerInventory)
		v1.POST("/inventory", authd, h.createInventoryItem)
		v1.GET("/inventory/:id", h.getInventoryItem)
		v1.PUT("/inventory/:id", authd, h.updateInventoryItem)
		v1.DELETE("/inventory/:id", authd, staff, h.deleteInventoryItem)

		v1.GET("/products", h.listProducts)
		v1.GET("/products/barcode/:code", h.getProductByBarcode)
		v1.POST("/products", authd, h.createProduct)
		v1.GET("/products/:id", h.getProduct)
		v1.PUT("/products/:id", authd, h.updateProduct)
		v1.DELETE("/products/:id", authd, staff, h.deleteProduct)

		v1.GET("/clients", authd, h.listClients)
		v1.POST("/clients", authd, h.createClient)

		v1.GET("/sales", authd, h.listSales)
		v1.POST("/sales", authd, h.createSale)
		v1.GET("/sales/:id", authd, h.getSale)
		v1.DELETE("/sales/:id", authd, staff, h.deleteSale)

		v1.GET("/cart", authd, h.viewCart)
		v1.POST("/cart/items", authd, h.addCartItem)
		v1.DELETE("/cart/items/:id", authd, h.removeCartItem)

		v1.POST("/checkout", authd, h.runCheckout)
		v1.GET("/receipts", authd, h.listReceipts)
		v1.GET("/receipts/:id", authd, h.getReceipt)
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

// respondError maps service errors to HTTP responses. Unexpected errors
// are logged and surfaced as an opaque 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	var fieldErrs service.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
	case errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
	case errors.Is(err, service.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCheckoutInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "Checkout already in progress"})
	case errors.Is(err, store.ErrDuplicateBarcode):
		c.JSON(http.StatusConflict, gin.H{"error": "Barcode already exists"})
	case errors.Is(err, store.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		h.logger.Error("Unhandled request error",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
