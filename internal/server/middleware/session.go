package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionKeyCtx = "session_key"

type SessionOptions struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Session resolves the caller's session key from its cookie, issuing a new
// random key when the cookie is missing or malformed.
func Session(opts SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := c.Cookie(opts.CookieName)
		if err != nil || uuid.Validate(key) != nil {
			key = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(opts.CookieName, key, int(opts.MaxAge.Seconds()), "/", "", opts.Secure, true)
		}
		c.Set(sessionKeyCtx, key)
		c.Next()
	}
}

// SessionKey returns the key set by Session, or "".
func SessionKey(c *gin.Context) string {
	return c.GetString(sessionKeyCtx)
}
