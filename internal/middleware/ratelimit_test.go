package middleware

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikitusuik/thefox/internal/config"
)

func TestBuildRateKeyStrategies(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl"}

	c := newCtx(t, http.MethodPost, "/v1/games/5/move", "/v1/games/:id/move")
	c.Set("login", "hunter_one")

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:hunter_one", buildRateKey(cfg, c))

	cfg.KeyStrategy = "route"
	assert.Equal(t, "rl:route:POST /v1/games/:id/move", buildRateKey(cfg, c))

	cfg.KeyStrategy = "ip_user_route"
	key := buildRateKey(cfg, c)
	assert.Contains(t, key, ":user:hunter_one")
	assert.Contains(t, key, ":route:POST /v1/games/:id/move")
}

func TestBuildRateKeyAnonymous(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	c := newCtx(t, http.MethodGet, "/v1/games", "/v1/games")
	assert.Equal(t, "rl:user:anon", buildRateKey(cfg, c))
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(5), asInt64(int64(5)))
	assert.Equal(t, int64(5), asInt64(5))
	assert.Equal(t, int64(5), asInt64(5.9))
	assert.Equal(t, int64(5), asInt64("5"))
	assert.Equal(t, int64(0), asInt64("nope"))
	assert.Equal(t, int64(0), asInt64(nil))
}

func TestDisabledLimiterPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: false}, nil)
	c := newCtx(t, http.MethodGet, "/v1/games", "/v1/games")

	called := false
	err := mw(func(echo.Context) error { called = true; return nil })(c)
	require.NoError(t, err)
	assert.True(t, called)
}
