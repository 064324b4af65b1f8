package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"eshop-server/utils"
)

// PublicRoute describes one allow-list entry. An empty Method matches any
// method; Prefix entries match the path and everything under it.
type PublicRoute struct {
	Method string
	Path   string
	Prefix bool
}

// PublicRoutes is the gate's allow-list: login, registration, catalog reads,
// uploaded images, and the operational endpoints.
func PublicRoutes(apiPrefix, uploadPath string) []PublicRoute {
	return []PublicRoute{
		{Method: http.MethodPost, Path: apiPrefix + "/users/login"},
		{Method: http.MethodPost, Path: apiPrefix + "/users/register"},
		{Method: http.MethodGet, Path: apiPrefix + "/products", Prefix: true},
		{Method: http.MethodGet, Path: apiPrefix + "/categories", Prefix: true},
		{Path: uploadPath, Prefix: true},
		{Method: http.MethodGet, Path: "/health"},
		{Method: http.MethodGet, Path: "/metrics"},
	}
}

func matchPublic(routes []PublicRoute, method, path string) bool {
	for _, r := range routes {
		if r.Method != "" && r.Method != method {
			continue
		}
		if r.Prefix {
			if strings.HasPrefix(path, r.Path) {
				return true
			}
			continue
		}
		if path == r.Path {
			return true
		}
	}
	return false
}

// AuthRequired gates every request that is not on the allow-list. A valid
// bearer token attaches the decoded identity to the request context; any
// failure ends the request before a handler runs.
func AuthRequired(secret string, public []PublicRoute) gin.HandlerFunc {
	return func(c *gin.Context) {
		if matchPublic(public, c.Request.Method, c.Request.URL.Path) {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "authentication required",
			})
			return
		}
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "malformed authorization header",
			})
			return
		}

		claims, err := utils.ParseToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "invalid or expired token",
			})
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("isAdmin", claims.IsAdmin)
		c.Next()
	}
}

// AdminRequired refuses non-admin identities. It runs after AuthRequired,
// so the flag is already in the context for protected routes.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("isAdmin") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false, "message": "admin access required",
			})
			return
		}
		c.Next()
	}
}
