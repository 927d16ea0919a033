package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRouter(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/", func(c *gin.Context) {
		*seen = Value(c)
		c.Status(http.StatusOK)
	})
	return router
}

func TestMiddlewareGeneratesID(t *testing.T) {
	var seen string
	router := buildRouter(&seen)

	resp := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(resp, req)

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, resp.Header().Get("X-Request-ID"))
}

func TestMiddlewareReusesIncomingID(t *testing.T) {
	var seen string
	router := buildRouter(&seen)

	resp := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-abc-123")
	router.ServeHTTP(resp, req)

	assert.Equal(t, "upstream-abc-123", seen)
	assert.Equal(t, "upstream-abc-123", resp.Header().Get("X-Request-ID"))
}

func TestMiddlewareReplacesOversizedID(t *testing.T) {
	var seen string
	router := buildRouter(&seen)

	oversized := strings.Repeat("x", 200)
	resp := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", oversized)
	router.ServeHTTP(resp, req)

	require.NotEmpty(t, seen)
	assert.NotEqual(t, oversized, seen)
}
