// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/nikitusuik/thefox/internal/config"
	"github.com/nikitusuik/thefox/internal/handler"
	"github.com/nikitusuik/thefox/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication at all.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account endpoints under /v1/auth.  None of
// them sit behind the JWT middleware: register/login mint the tokens and
// refresh/logout authenticate with the refresh token itself.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
}

// RegisterGames wires the lobby, state and turn endpoints.  Reads are
// public so spectators can watch; everything that mutates a game needs a
// valid access token.  The lobby list additionally sits behind the Redis
// response cache.
func RegisterGames(e *echo.Echo, cfg config.Config, rdb *redis.Client,
	lobby *handler.LobbyHandler, state *handler.StateHandler, action *handler.ActionHandler) {

	cacheCfg := config.LoadCacheConfig()
	e.GET("/v1/games", lobby.List, middleware.NewRedisCache(cacheCfg, rdb))
	e.GET("/v1/games/:id", state.Get)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	auth.POST("/games", lobby.Create)
	auth.POST("/games/:id/join", lobby.Join)
	auth.POST("/games/:id/leave", lobby.Leave)
	auth.POST("/games/:id/action", action.Choose)
	auth.POST("/games/:id/move", action.Move)
	auth.POST("/games/:id/suspect", action.Suspect)
	auth.POST("/games/:id/skip", action.Skip)
	auth.POST("/games/:id/accuse", action.Accuse)
	auth.POST("/cleanup", lobby.Cleanup)
}
