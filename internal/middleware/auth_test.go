package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, subject, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1/reconcile")
	group.Use(Auth(testSecret))
	group.Use(RequireRole(roles...))
	group.POST("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"actor": c.GetString("actor_id")})
	})
	return router
}

func doPost(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reconcile", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingToken(t *testing.T) {
	w := doPost(newAuthRouter("finance"), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_InvalidToken(t *testing.T) {
	w := doPost(newAuthRouter("finance"), "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_AllowedRoleReachesHandler(t *testing.T) {
	router := newAuthRouter("finance", "admin")

	w := doPost(router, signToken(t, "operator-1", "finance"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "operator-1")
}

func TestRequireRole_DisallowedRoleForbidden(t *testing.T) {
	router := newAuthRouter("finance", "admin")

	w := doPost(router, signToken(t, "operator-2", "viewer"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}
