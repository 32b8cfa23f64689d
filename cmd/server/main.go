package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/nikitusuik/thefox/internal/config"
	"github.com/nikitusuik/thefox/internal/database"
	"github.com/nikitusuik/thefox/internal/engine"
	"github.com/nikitusuik/thefox/internal/handler"
	"github.com/nikitusuik/thefox/internal/middleware"
	"github.com/nikitusuik/thefox/internal/queue"
	"github.com/nikitusuik/thefox/internal/repository"
	"github.com/nikitusuik/thefox/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional, real envs win

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable, cache and rate limiting disabled")
	}

	eng := engine.New(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	lobbyH := handler.NewLobbyHandler(eng)
	stateH := handler.NewStateHandler(eng)
	actionH := handler.NewActionHandler(eng)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterGames(e, cfg, rdb, lobbyH, stateH, actionH)

	// best-effort: logs finished games from the broker, reconnects forever
	go func() {
		if err := queue.StartGameConsumer(); err != nil {
			log.WithError(err).Warn("game consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.WithFields(log.Fields{"addr": addr, "env": cfg.Env}).Info("server starting")
	if err := e.Start(addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
