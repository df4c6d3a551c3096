package middleware

import (
	"net/http"
	"strings"
	"time"

	"dorm-backend/models"
	"dorm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried in an admin access token.
type Claims struct {
	AdminID        uint   `json:"adminId"`
	OrganizationID uint   `json:"orgId"`
	Role           string `json:"role"`
	jwt.RegisteredClaims
}

const (
	ctxAdminID = "adminID"
	ctxOrgID   = "orgID"
	ctxRole    = "role"
)

func jwtSecret() []byte {
	return []byte(utils.EnvOrDefault("ACCESS_TOKEN_SECRET", "dev-secret-change-me"))
}

// IssueToken signs an access token for an admin (24h lifetime).
func IssueToken(admin models.Admin) (string, error) {
	claims := Claims{
		AdminID:        admin.ID,
		OrganizationID: admin.OrganizationID,
		Role:           admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			Subject:   admin.Username,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// RequireAuth validates the Bearer token and puts the admin identity
// into the request context.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			return jwtSecret(), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid or expired token"})
			return
		}

		c.Set(ctxAdminID, claims.AdminID)
		c.Set(ctxOrgID, claims.OrganizationID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequireRole allows only the listed admin roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := Role(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "insufficient role"})
	}
}

// AdminID returns the authenticated admin's id from the context.
func AdminID(c *gin.Context) uint {
	if v, ok := c.Get(ctxAdminID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// OrgID returns the authenticated admin's organization id.
func OrgID(c *gin.Context) uint {
	if v, ok := c.Get(ctxOrgID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// Role returns the authenticated admin's role.
func Role(c *gin.Context) string {
	if v, ok := c.Get(ctxRole); ok {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}
