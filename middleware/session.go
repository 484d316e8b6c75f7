package middleware

import (
	"net/http"

	"storefront/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "sid"
	SessionIDKey      = "session_id"
	StoreKey          = "session_store"

	sessionMaxAge = 30 * 24 * 60 * 60
)

// Session assigns every visitor an anonymous session id and binds the
// session's storage namespace to the request.
func Session(provider *storage.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookieName)
		if err != nil || !validSessionID(sid) {
			sid = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookieName, sid, sessionMaxAge, "/", "", false, true)
		}
		c.Set(SessionIDKey, sid)
		c.Set(StoreKey, provider.For(sid))
		c.Next()
	}
}

func validSessionID(sid string) bool {
	_, err := uuid.Parse(sid)
	return err == nil
}

// GetStore returns the session store bound by Session. Without one it
// returns a store that reports itself unavailable.
func GetStore(c *gin.Context) *storage.Store {
	if val, ok := c.Get(StoreKey); ok {
		if store, ok := val.(*storage.Store); ok && store != nil {
			return store
		}
	}
	return storage.NewStore(nil, nil)
}

func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
