package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"maxloyalty.com/backoffice/security"
	"maxloyalty.com/backoffice/web/common"
)

// IdentityKey is the gin context key the verified claims are stored under.
const IdentityKey = "identity"

func bearerToken(c *gin.Context, cookieName string) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		// the console sends the session cookie instead
		cookie, err := c.Cookie(cookieName)
		if err != nil || cookie == "" {
			return "", false
		}
		return cookie, true
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// Authentication accepts a Bearer token or the session cookie.
func Authentication(jwtSecret []byte, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c, cookieName)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("Sesión no iniciada"))
			return
		}

		claims, err := security.ParseIdentityToken(tokenStr, jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("Sesión inválida o expirada"))
			return
		}

		c.Set(IdentityKey, claims)
		c.Next()
	}
}

// Identity returns the claims set by Authentication.
func Identity(c *gin.Context) (*security.IdentityClaims, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*security.IdentityClaims)
	return claims, ok
}
