package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"crs-booking-engine/internal/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxSessionIDKey = "session_id"

// SessionMiddleware resolves the signed session token handed out at session
// creation. Only the session id is trusted from the token; all shopper state
// is re-read from storage by the use cases.
type SessionMiddleware struct {
	tokens *token.Service
}

func NewSessionMiddleware(tokens *token.Service) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens}
}

func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Session-Token")
		if raw == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				raw = strings.TrimSpace(authHeader[len("Bearer "):])
			}
		}

		if raw == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Session token required",
			})
			c.Abort()
			return
		}

		sessionID, err := m.tokens.Parse(raw)
		if err != nil {
			slog.Warn("Session token rejected", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired session token",
			})
			c.Abort()
			return
		}

		c.Set(ctxSessionIDKey, sessionID)
		c.Next()
	}
}

func GetSessionID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(ctxSessionIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := raw.(uuid.UUID)
	return id, ok
}
