package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"social_feed/internal/pkg/config"
	"social_feed/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newIssuer() *utils.TokenIssuer {
	return utils.NewTokenIssuer(config.JWTConfig{
		Secret:        "0123456789abcdef0123456789abcdef",
		AccessExpire:  time.Hour,
		RefreshExpire: 24 * time.Hour,
	})
}

func whoami(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := newIssuer()
	pair, _, err := tokens.Issue(42)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/", AuthMiddleware(tokens), whoami)

	t.Run("valid access token", func(t *testing.T) {
		w := do(r, pair.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":42}`, w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	})

	t.Run("refresh token is not accepted", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, pair.RefreshToken).Code)
	})

	t.Run("garbage", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "abc.def.ghi").Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	tokens := newIssuer()
	pair, _, err := tokens.Issue(7)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/", OptionalAuth(tokens), whoami)

	assert.JSONEq(t, `{"user_id":7}`, do(r, pair.AccessToken).Body.String())
	assert.JSONEq(t, `{"user_id":0}`, do(r, "").Body.String())
	assert.JSONEq(t, `{"user_id":0}`, do(r, "bad").Body.String(), "invalid tokens fall back to anonymous")
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(config.RateLimitConfig{QPS: 1, Burst: 2})
	r := gin.New()
	r.GET("/", RateLimitMiddleware(limiter), whoami)

	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "").Code)

	assert.Equal(t, 0, limiter.Cleanup(time.Hour))
	assert.Equal(t, 1, limiter.Cleanup(0))
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/", TraceMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextTraceID))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceHeader, "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get(TraceHeader))

	w = do(r, "")
	assert.NotEmpty(t, w.Header().Get(TraceHeader))
}
