package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nikitusuik/thefox/internal/engine"
	"github.com/nikitusuik/thefox/internal/model"
	"github.com/nikitusuik/thefox/internal/repository"
)

// LobbyHandler serves game creation, listing, joining and leaving.
type LobbyHandler struct {
	Engine *engine.Engine
	Games  *repository.GameRepo
}

func NewLobbyHandler(e *engine.Engine) *LobbyHandler {
	return &LobbyHandler{Engine: e, Games: e.Games}
}

type createGameReq struct {
	TurnTime  int `json:"turntime"`
	SeatCount int `json:"seatcount"`
}

// Create validates the room parameters and builds the game graph.
func (h *LobbyHandler) Create(c echo.Context) error {
	var req createGameReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SeatCount < model.MinSeats || req.SeatCount > model.MaxSeats {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seatcount must be 2, 3 or 4"})
	}
	if req.TurnTime < model.MinTurnTime || req.TurnTime > model.MaxTurnTime || req.TurnTime%model.TurnTimeStep != 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "turntime must be 20-60 in steps of 10"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	gameID, err := h.Engine.CreateGame(ctx, req.TurnTime, req.SeatCount)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"game_id":   gameID,
		"turntime":  req.TurnTime,
		"seatcount": req.SeatCount,
	})
}

// List sweeps abandoned rooms, then returns every joinable game.
func (h *LobbyHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	h.Engine.SweepAbandoned(ctx)

	games, err := h.Games.ListOpen(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	if games == nil {
		games = []repository.OpenGame{}
	}
	return c.JSON(http.StatusOK, echo.Map{"games": games})
}

// Join seats the caller.  The join filling the last seat starts the match.
func (h *LobbyHandler) Join(c echo.Context) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid game id"})
	}
	login := currentLogin(c)
	if login == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Engine.Join(ctx, gameID, login)
	if err != nil {
		return engineError(c, err)
	}

	status := http.StatusCreated
	if res.Rejoined {
		status = http.StatusOK
	}
	return c.JSON(status, echo.Map{
		"player_id": res.PlayerID,
		"seat":      res.Seat,
		"color":     res.Color,
		"start":     echo.Map{"y": res.Y, "x": res.X},
		"game": echo.Map{
			"players_now": res.PlayersNow,
			"seatcount":   res.SeatCount,
			"started":     res.Started,
		},
		"rejoined": res.Rejoined,
	})
}

// Leave removes the caller's seat; leaving a game you never joined is fine.
func (h *LobbyHandler) Leave(c echo.Context) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid game id"})
	}
	login := currentLogin(c)
	if login == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Engine.Leave(ctx, gameID, login)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"removed":        res.Removed,
		"game_destroyed": res.Destroyed,
	})
}

// Cleanup runs the one-shot maintenance sweep.
func (h *LobbyHandler) Cleanup(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	rep, err := h.Engine.Cleanup(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cleanup failed"})
	}
	return c.JSON(http.StatusOK, rep)
}
