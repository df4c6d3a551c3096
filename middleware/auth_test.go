package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"dorm-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequireAuth()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"adminId": AdminID(c),
			"orgId":   OrgID(c),
			"role":    Role(c),
		})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestRequireAuthRoundTrip(t *testing.T) {
	token, err := IssueToken(models.Admin{
		ID:             7,
		OrganizationID: 3,
		Username:       "owner@dorm.local",
		Role:           models.RoleOwner,
	})
	require.NoError(t, err)

	r := authTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"adminId":7`)
	assert.Contains(t, w.Body.String(), `"orgId":3`)
	assert.Contains(t, w.Body.String(), `"role":"owner"`)
}

func TestRequireAuthRejectsMissingOrGarbageToken(t *testing.T) {
	r := authTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	r := authTestRouter(RequireRole(models.RoleOwner, models.RoleAdmin))

	staffToken, err := IssueToken(models.Admin{ID: 1, Role: models.RoleStaff})
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	adminToken, err := IssueToken(models.Admin{ID: 2, Role: models.RoleAdmin})
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
