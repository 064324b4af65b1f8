package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eshop-server/utils"
)

const testSecret = "test-secret"

func newGatedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(AuthRequired(testSecret, PublicRoutes("/api/v1", "/public/uploads")))

	ok := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":  c.GetString("userID"),
			"isAdmin": c.GetBool("isAdmin"),
		})
	}
	r.GET("/api/v1/products", ok)
	r.GET("/api/v1/products/get/count", ok)
	r.POST("/api/v1/products", AdminRequired(), ok)
	r.POST("/api/v1/users/login", ok)
	r.GET("/api/v1/orders", ok)
	r.DELETE("/api/v1/users/:id", AdminRequired(), ok)
	return r
}

func doRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPublicPathsBypassGate(t *testing.T) {
	r := newGatedRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/products"},
		{http.MethodGet, "/api/v1/products/get/count"},
		{http.MethodPost, "/api/v1/users/login"},
	} {
		w := doRequest(r, tc.method, tc.path, "")
		assert.Equal(t, http.StatusOK, w.Code, "%s %s should be public", tc.method, tc.path)
	}
}

func TestGateRejectsMissingToken(t *testing.T) {
	r := newGatedRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/orders", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestGateRejectsMalformedHeader(t *testing.T) {
	r := newGatedRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGateRejectsBadToken(t *testing.T) {
	r := newGatedRouter(t)

	foreign, err := utils.GenerateToken("some-other-secret", "u1", false)
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/api/v1/orders", foreign)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGateAttachesIdentity(t *testing.T) {
	r := newGatedRouter(t)

	token, err := utils.GenerateToken(testSecret, "u1", true)
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/api/v1/orders", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":"u1"`)
	assert.Contains(t, w.Body.String(), `"isAdmin":true`)
}

func TestAdminRequired(t *testing.T) {
	r := newGatedRouter(t)

	user, err := utils.GenerateToken(testSecret, "u1", false)
	require.NoError(t, err)
	admin, err := utils.GenerateToken(testSecret, "u2", true)
	require.NoError(t, err)

	w := doRequest(r, http.MethodPost, "/api/v1/products", user)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/products", admin)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodDelete, "/api/v1/users/abc", user)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMatchPublicPrefix(t *testing.T) {
	routes := PublicRoutes("/api/v1", "/public/uploads")

	assert.True(t, matchPublic(routes, http.MethodGet, "/api/v1/products/get/featured/5"))
	assert.True(t, matchPublic(routes, http.MethodGet, "/public/uploads/abc.png"))
	assert.False(t, matchPublic(routes, http.MethodPost, "/api/v1/products"))
	assert.False(t, matchPublic(routes, http.MethodGet, "/api/v1/orders"))
	assert.False(t, matchPublic(routes, http.MethodDelete, "/api/v1/categories/1"))
}
