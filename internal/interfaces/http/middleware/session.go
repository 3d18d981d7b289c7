package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/logger"
)

const (
	// CartSessionHeader carries the cart session id in and out
	CartSessionHeader = "X-Cart-Session"
	// CartSessionKey is the gin context key of the parsed session
	CartSessionKey = "session_id"
)

// CartSession resolves the caller's cart session from X-Cart-Session. A
// missing or malformed header starts a new session; the id in use is always
// echoed back so the client can keep it.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := uuid.Parse(c.GetHeader(CartSessionHeader))
		if err != nil || session == uuid.Nil {
			session = uuid.New()
		}

		id := session.String()
		c.Set(CartSessionKey, id)
		c.Writer.Header().Set(CartSessionHeader, id)
		c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), id))
		c.Next()
	}
}

// GetCartSession returns the session resolved by CartSession, or uuid.Nil
// when the middleware did not run
func GetCartSession(c *gin.Context) uuid.UUID {
	session, err := uuid.Parse(c.GetString(CartSessionKey))
	if err != nil {
		return uuid.Nil
	}
	return session
}
