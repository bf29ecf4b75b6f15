package routers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ienikesergey/Outage-Dispatch-System/pkg/middleware/render"
	"github.com/ienikesergey/Outage-Dispatch-System/pkg/utils"
	"github.com/ienikesergey/Outage-Dispatch-System/server/journal/internal/service"
)

// AuthMiddleware validates the bearer token and stores its claims in the
// request context. Any valid token grants read access.
func AuthMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			render.AbortWithError(c, http.StatusUnauthorized, MsgMissingToken)
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header || token == "" {
			render.AbortWithError(c, http.StatusUnauthorized, MsgMissingToken)
			return
		}

		claims, err := auth.ParseToken(token)
		if err != nil {
			render.AbortWithError(c, http.StatusUnauthorized, MsgInvalidToken)
			return
		}
		c.Set(ClaimsContextKey, claims)
		c.Next()
	}
}

// RequireRole gates write endpoints to the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil || !utils.StringInSlice(claims.Role, roles) {
			render.AbortWithError(c, http.StatusForbidden, MsgInsufficientRole)
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the token claims stored by AuthMiddleware, or nil.
func ClaimsFrom(c *gin.Context) *service.Claims {
	v, ok := c.Get(ClaimsContextKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*service.Claims)
	if !ok {
		return nil
	}
	return claims
}
