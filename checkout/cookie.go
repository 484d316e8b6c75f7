package checkout

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CookieName   = "checkout_progress"
	cookiePath   = "/"
	cookieMaxAge = 60 * 60 * 24
)

// ReadCookie returns the serialized draft mirrored in the request cookie, or
// "" when there is none. gin unescapes the value.
func ReadCookie(c *gin.Context) string {
	raw, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return raw
}

// cookieSink mirrors the draft into the checkout_progress cookie so page
// handlers can gate steps without reading session storage.
type cookieSink struct {
	c *gin.Context
}

func CookieSink(c *gin.Context) Sink {
	return &cookieSink{c: c}
}

func (s *cookieSink) Write(_ context.Context, d Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(CookieName, string(raw), cookieMaxAge, cookiePath, "", false, false)
	return nil
}

func (s *cookieSink) Clear(_ context.Context) error {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(CookieName, "", -1, cookiePath, "", false, false)
	return nil
}
