package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartSession(t *testing.T) {
	var seen uuid.UUID
	var ctxSession string

	r := gin.New()
	r.Use(CartSession())
	r.GET("/cart", func(c *gin.Context) {
		seen = GetCartSession(c)
		ctxSession = logger.GetSessionID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("keeps a valid session", func(t *testing.T) {
		session := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set(CartSessionHeader, session.String())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, session, seen)
		assert.Equal(t, session.String(), w.Header().Get(CartSessionHeader))
		assert.Equal(t, session.String(), ctxSession)
	})

	t.Run("issues a session when missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))

		issued, err := uuid.Parse(w.Header().Get(CartSessionHeader))
		require.NoError(t, err)
		assert.Equal(t, issued, seen)
	})

	t.Run("replaces malformed and nil sessions", func(t *testing.T) {
		for _, bad := range []string{"not-a-uuid", uuid.Nil.String()} {
			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			req.Header.Set(CartSessionHeader, bad)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.NotEqual(t, bad, w.Header().Get(CartSessionHeader))
			assert.NotEqual(t, uuid.Nil, seen)
		}
	})
}

func TestGetCartSession_WithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uuid.Nil, GetCartSession(c))
}
