package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pos-service/internal/auth"
	"pos-service/internal/models"
	"pos-service/internal/util"

	"github.com/gin-gonic/gin"
)

const contextUserIDKey = "userID"

// UserLoader resolves the authenticated principal for the guards
type UserLoader interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// RequireAuth validates the Bearer token and stores the user ID in the
// request context. The principal is passed on explicitly; handlers read
// it back with currentUserID.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			return
		}

		userID, err := tokens.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(contextUserIDKey, userID)
		c.Next()
	}
}

// RequirePaid runs after RequireAuth and denies users whose has_paid flag
// is still false, pointing them at the payment-required page
func RequirePaid(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}

		if !user.HasPaid {
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error":    "Payment required",
				"redirect": "/payment-required/",
			})
			return
		}

		c.Next()
	}
}

// RequireStaff runs after RequireAuth and guards destructive operations,
// independent of the paid flag
func RequireStaff(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
			return
		}

		if !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
			return
		}

		c.Next()
	}
}

// currentUserID reads the authenticated user ID set by RequireAuth
func currentUserID(c *gin.Context) (int64, bool) {
	raw, exists := c.Get(contextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := raw.(int64)
	return userID, ok
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
