package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	infraRepo "github.com/sangkips/hotel-ledger-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-ledger-api/internal/presentation/http/dto/response"
	"github.com/sangkips/hotel-ledger-api/pkg/utils"
)

// Gin context keys set by AuthMiddleware
const (
	UserIDKey    = "user_id"
	TenantIDKey  = "tenant_id"
	UserRolesKey = "user_roles"
)

// AuthMiddleware validates the bearer token and binds user and tenant to the request.
// The tenant is also put in the request context so repositories scope by it.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(TenantIDKey, claims.TenantID)
		c.Set(UserRolesKey, claims.Roles)
		c.Request = c.Request.WithContext(infraRepo.WithTenant(c.Request.Context(), claims.TenantID))

		c.Next()
	}
}

// RequireRole rejects callers holding none of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRoles, _ := c.Get(UserRolesKey)
		held, _ := userRoles.([]string)

		for _, have := range held {
			for _, want := range roles {
				if have == want {
					c.Next()
					return
				}
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}

// GetUserID retrieves the authenticated user ID from gin context
func GetUserID(c *gin.Context) uuid.UUID {
	v, _ := c.Get(UserIDKey)
	id, _ := v.(uuid.UUID)
	return id
}
