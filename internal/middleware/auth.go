package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/clinic-api/internal/models"
	"github.com/harentsoaR/clinic-api/internal/utils"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey    = "userID"
	UserRoleKey  = "userRole"
	UserEmailKey = "userEmail"
)

// AdminLookup resolves a token subject against the current roster.
type AdminLookup interface {
	Get(uid string) (models.Admin, error)
}

// AuthMiddleware rejects any request without a valid bearer token whose
// subject is still on the roster. Role and email come from the stored record,
// so deletions and role changes apply before the token expires.
func AuthMiddleware(tokens *utils.TokenManager, roster AdminLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		claims, err := tokens.ValidateJWT(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		admin, err := roster.Get(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(UserIDKey, admin.UID)
		c.Set(UserRoleKey, admin.Role)
		c.Set(UserEmailKey, admin.Email)

		c.Next()
	}
}

// RequireRole lets the request through only if the authenticated role is one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(UserRoleKey)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
	}
}
