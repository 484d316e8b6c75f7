package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"storefront/models"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	AuthCookieName  = "auth_token"
	UserContextKey  = "user"
	TokenContextKey = "token"

	signinPath = "/signin"
)

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, *services.AuthError)
}

// TokenFromRequest reads the auth cookie, then a Bearer Authorization header.
func TokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(AuthCookieName); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}

func RequireUser(auth Authenticator) gin.HandlerFunc {
	return requireRole(auth)
}

// RequireAdmin admits admins and owners.
func RequireAdmin(auth Authenticator) gin.HandlerFunc {
	return requireRole(auth, models.RoleAdmin, models.RoleOwner)
}

func RequireOwner(auth Authenticator) gin.HandlerFunc {
	return requireRole(auth, models.RoleOwner)
}

func requireRole(auth Authenticator, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		user, authErr := auth.Authenticate(c.Request.Context(), token)
		if authErr != nil {
			abortAuth(c, authErr)
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, user.Role) {
			abortAuth(c, &services.AuthError{Kind: services.AuthInsufficientPrivileges, Message: "Insufficient privileges"})
			return
		}
		c.Set(UserContextKey, user)
		c.Set(TokenContextKey, token)
		c.Next()
	}
}

// OptionalUser attaches the signed-in user when the request carries a valid
// token and lets anonymous requests through.
func OptionalUser(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := TokenFromRequest(c); token != "" {
			if user, authErr := auth.Authenticate(c.Request.Context(), token); authErr == nil {
				c.Set(UserContextKey, user)
				c.Set(TokenContextKey, token)
			}
		}
		c.Next()
	}
}

func abortAuth(c *gin.Context, authErr *services.AuthError) {
	switch authErr.Kind {
	case services.AuthRedirectSignin, services.AuthInvalidSession:
		if authErr.Kind == services.AuthInvalidSession {
			c.SetCookie(AuthCookieName, "", -1, "/", "", false, true)
		}
		target := signinPath + "?redirectTo=" + url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, target)
		c.Abort()
	case services.AuthAccessDenied, services.AuthInsufficientPrivileges:
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": authErr.Message, "code": authErr.Kind})
	case services.AuthUserNotFound:
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": authErr.Message, "code": authErr.Kind})
	default:
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}

func GetUser(c *gin.Context) (*models.User, bool) {
	if val, ok := c.Get(UserContextKey); ok {
		if user, ok := val.(*models.User); ok && user != nil {
			return user, true
		}
	}
	return nil, false
}

func GetUserID(c *gin.Context) (uuid.UUID, error) {
	user, ok := GetUser(c)
	if !ok {
		return uuid.Nil, errors.New("user not found in context")
	}
	return user.ID, nil
}
