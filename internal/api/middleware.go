package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"recipefinder/internal/screen"
)

const (
	// SessionCookie names the cookie carrying the browser session id.
	SessionCookie = "recipefinder_session"

	sessionKey = "session"
)

// RequestLogger attaches a per-request logger to the request context and logs
// every completed request.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := uuid.NewString()

		entry := log.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Request = c.Request.WithContext(screen.WithLogger(c.Request.Context(), entry))
		c.Header("X-Request-ID", reqID)

		c.Next()

		entry = screen.Logger(c.Request.Context()).WithFields(logrus.Fields{
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}
		entry.Info("request complete")
	}
}

// Sessions resolves the browser session from its cookie, issuing a new id when
// the cookie is missing or malformed.
func Sessions(store *screen.Sessions, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, int(ttl.Seconds()), "/", "", false, true)

		ctx := c.Request.Context()
		log := screen.Logger(ctx).WithField("session", id)
		c.Request = c.Request.WithContext(screen.WithLogger(ctx, log))

		c.Set(sessionKey, store.Get(id))
		c.Next()
	}
}

func session(c *gin.Context) *screen.Session {
	return c.MustGet(sessionKey).(*screen.Session)
}
