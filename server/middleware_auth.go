package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	usersdomain "github.com/orderdesk/sales-admin-api/internal/domains/users/domain"
	usersports "github.com/orderdesk/sales-admin-api/internal/domains/users/ports"
	apierrors "github.com/orderdesk/sales-admin-api/internal/shared/errors"
)

const claimsContextKey = "auth.claims"

// accessTokenCookie lets browser clients authenticate without setting the
// Authorization header.
const accessTokenCookie = "access_token"

// AuthRequired rejects requests without a valid bearer or cookie-carried
// access token and stores the caller's claims on the request context.
func AuthRequired(auth usersports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("missing access token"))
			c.Abort()
			return
		}
		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondServiceError(c, err)
			c.Abort()
			return
		}
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireRole gates a route group to one role. Run after AuthRequired.
func RequireRole(role usersdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil || claims.Role != role {
			respondProblem(c, apierrors.ErrForbidden.WithDetail("requires role "+string(role)))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentClaims returns the authenticated caller's claims, or nil when the
// route is unauthenticated.
func CurrentClaims(c *gin.Context) *usersports.Claims {
	value, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*usersports.Claims)
	if !ok {
		return nil
	}
	return claims
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if after, found := strings.CutPrefix(header, "Bearer "); found {
		return strings.TrimSpace(after)
	}
	if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		return cookie
	}
	return ""
}
