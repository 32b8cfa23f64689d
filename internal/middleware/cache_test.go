package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikitusuik/thefox/internal/config"
)

func newCtx(t *testing.T, method, target, route string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(route)
	return c
}

func TestCacheKeyFromIsStable(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, newCtx(t, http.MethodGet, "/v1/games?x=1", "/v1/games"))
	b := cacheKeyFrom(cfg, newCtx(t, http.MethodGet, "/v1/games?x=1", "/v1/games"))
	assert.Equal(t, a, b)
	assert.Contains(t, a, "cache:")
}

func TestCacheKeyFromStrategies(t *testing.T) {
	base := config.CacheConfig{Prefix: "cache"}

	get := newCtx(t, http.MethodGet, "/v1/games?x=1", "/v1/games")
	post := newCtx(t, http.MethodPost, "/v1/games?x=1", "/v1/games")
	otherQuery := newCtx(t, http.MethodGet, "/v1/games?x=2", "/v1/games")

	routeOnly := base
	routeOnly.KeyStrategy = "route"
	assert.Equal(t, cacheKeyFrom(routeOnly, get), cacheKeyFrom(routeOnly, otherQuery),
		"route strategy ignores the query string")

	routeQuery := base
	routeQuery.KeyStrategy = "route_query"
	assert.NotEqual(t, cacheKeyFrom(routeQuery, get), cacheKeyFrom(routeQuery, otherQuery))
	assert.Equal(t, cacheKeyFrom(routeQuery, get), cacheKeyFrom(routeQuery, post),
		"route_query strategy ignores the method")

	methodRoute := base
	methodRoute.KeyStrategy = "method_route"
	assert.NotEqual(t, cacheKeyFrom(methodRoute, get), cacheKeyFrom(methodRoute, post))
}

func TestEncodeDecodePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`{"games":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{1, 2, 3})
	assert.False(t, ok)

	// header length pointing past the buffer
	bad := make([]byte, 8)
	bad[7] = 200
	_, _, _, ok = decodePayload(bad)
	assert.False(t, ok)
}

func TestDisabledCachePassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)
	c := newCtx(t, http.MethodGet, "/v1/games", "/v1/games")

	called := false
	err := mw(func(echo.Context) error { called = true; return nil })(c)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, c.Response().Header().Get("X-Cache"))
}
