package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tecnostore/internal/domain"
	"tecnostore/internal/intent"
)

const (
	sessionCookie = "tecno_session"
	ctxSessionID  = "sessionID"
	ctxAdmin      = "admin"
)

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// sessionMiddleware resolves the shopper session from its cookie, issuing a
// new one when the cookie is missing or malformed.
func (h *handlers) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(sessionCookie)
		id, err := h.sessions.Validate(raw)
		if err != nil {
			id = h.sessions.Issue()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, h.sessions.TTLSeconds(), "/", "", h.secure, true)
		}
		c.Set(ctxSessionID, id)
		c.Next()
	}
}

// adminMiddleware marks requests carrying a valid panel token. With required
// set, requests without one are rejected.
func (h *handlers) adminMiddleware(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxAdmin) && h.admin != nil {
			if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
				if _, err := h.admin.Verify(token); err != nil {
					h.logger.Debug("admin token rejected", zap.Error(err))
				} else {
					c.Set(ctxAdmin, true)
				}
			}
		}
		if required && !c.GetBool(ctxAdmin) {
			writeError(c, h.logger, domain.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func actorFrom(c *gin.Context) intent.Actor {
	return intent.Actor{SessionID: c.GetString(ctxSessionID), Admin: c.GetBool(ctxAdmin)}
}

func plainAmount(v int64) string {
	return strconv.FormatInt(v, 10)
}
