package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nikitusuik/thefox/internal/engine"
	"github.com/nikitusuik/thefox/internal/model"
	"github.com/nikitusuik/thefox/internal/service"
)

// ActionHandler serves the in-game turn endpoints.
type ActionHandler struct {
	Engine *engine.Engine
}

func NewActionHandler(e *engine.Engine) *ActionHandler {
	return &ActionHandler{Engine: e}
}

type chooseReq struct {
	Direction string `json:"direction"`
}
type moveReq struct {
	ToY int `json:"to_y"`
	ToX int `json:"to_x"`
}
type suspectReq struct {
	SuspectName string `json:"suspect_name"`
}

// Choose rolls the dice for the declared search kind.
func (h *ActionHandler) Choose(c echo.Context) error {
	gameID, login, ok := h.identify(c)
	if !ok {
		return nil
	}
	var req chooseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	kind, err := model.ParseActionKind(req.Direction)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "direction must be clue or suspect"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Engine.ChooseAction(ctx, gameID, login, kind)
	if err != nil {
		return engineError(c, err)
	}
	if res.GameOver {
		service.PublishGameFinishedAsync(gameID, "lose", "fox_escaped")
	}

	body := echo.Map{
		"direction": string(res.Kind),
		"success":   res.Success,
		"dice":      res.Dice,
		"fox":       echo.Map{"moved": res.FoxMoved, "foxpos": res.FoxPos},
	}
	if res.MaxSteps != nil {
		body["max_steps"] = *res.MaxSteps
	}
	if res.NextSeat != nil {
		body["next_seat"] = *res.NextSeat
	}
	return c.JSON(http.StatusOK, body)
}

// Move finishes a successful clue roll by walking to a cell.
func (h *ActionHandler) Move(c echo.Context) error {
	gameID, login, ok := h.identify(c)
	if !ok {
		return nil
	}
	var req moveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ToY <= 0 || req.ToX <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "to_y and to_x are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Engine.ResolveMove(ctx, gameID, login, req.ToY, req.ToX)
	if err != nil {
		return engineError(c, err)
	}

	body := echo.Map{
		"from":      echo.Map{"y": res.FromY, "x": res.FromX},
		"to":        echo.Map{"y": res.ToY, "x": res.ToX},
		"distance":  res.Distance,
		"max_steps": res.MaxSteps,
		"next_seat": res.NextSeat,
	}
	if res.ClueName != nil {
		body["opened_clue"] = *res.ClueName
		body["fox_has_item"] = *res.FoxHasClue
	}
	return c.JSON(http.StatusOK, body)
}

// Suspect finishes a successful suspect roll by opening a portrait.
func (h *ActionHandler) Suspect(c echo.Context) error {
	gameID, login, ok := h.identify(c)
	if !ok {
		return nil
	}
	var req suspectReq
	if err := c.Bind(&req); err != nil || req.SuspectName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "suspect_name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Engine.ResolveSuspect(ctx, gameID, login, req.SuspectName)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"opened_suspect": res.SuspectName,
		"hints":          res.Hints,
		"next_seat":      res.NextSeat,
	})
}

// Skip forfeits the caller's turn.
func (h *ActionHandler) Skip(c echo.Context) error {
	gameID, login, ok := h.identify(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Engine.SkipTurn(ctx, gameID, login)
	if err != nil {
		return engineError(c, err)
	}
	if res.GameOver {
		service.PublishGameFinishedAsync(gameID, "lose", "fox_escaped")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"skipped":   true,
		"next_seat": res.NextSeat,
		"fox":       echo.Map{"moved": true, "foxpos": res.FoxPos},
	})
}

// Accuse names the fox and freezes the verdict for everyone.
func (h *ActionHandler) Accuse(c echo.Context) error {
	gameID, login, ok := h.identify(c)
	if !ok {
		return nil
	}
	var req suspectReq
	if err := c.Bind(&req); err != nil || req.SuspectName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "suspect_name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	res, err := h.Engine.Accuse(ctx, gameID, login, req.SuspectName)
	if err != nil {
		return engineError(c, err)
	}
	if !res.AlreadyEnded {
		verdict := "lose"
		if res.Win {
			verdict = "win"
		}
		service.PublishGameFinishedAsync(gameID, verdict, "accusation")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"accused":       res.Accused,
		"win":           res.Win,
		"lose":          !res.Win,
		"already_ended": res.AlreadyEnded,
		"fox":           echo.Map{"foxpos": res.FoxPos},
	})
}

// identify pulls the game id and login out of the request, writing the
// error response itself when either is missing.
func (h *ActionHandler) identify(c echo.Context) (uint64, string, bool) {
	gameID, ok := gameIDParam(c)
	if !ok {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid game id"})
		return 0, "", false
	}
	login := currentLogin(c)
	if login == "" {
		_ = c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		return 0, "", false
	}
	return gameID, login, true
}
