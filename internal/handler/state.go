package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/nikitusuik/thefox/internal/engine"
	"github.com/nikitusuik/thefox/internal/model"
	"github.com/nikitusuik/thefox/internal/repository"
	"github.com/nikitusuik/thefox/internal/service"
)

// StateHandler renders the full game snapshot.  It is the single source of
// truth for clients, which poll it between their own actions.
type StateHandler struct {
	Engine *engine.Engine
}

func NewStateHandler(e *engine.Engine) *StateHandler {
	return &StateHandler{Engine: e}
}

type playerView struct {
	PlayerID uint64 `json:"playerid"`
	Login    string `json:"login"`
	Seat     int    `json:"seatnumber"`
	Color    string `json:"color"`
	Y        int    `json:"y"`
	X        int    `json:"x"`
}

type clueView struct {
	Y          int    `json:"y"`
	X          int    `json:"x"`
	ItemName   string `json:"item_name"`
	Status     string `json:"status"`
	FoxHasItem *bool  `json:"fox_has_item"` // set only once the clue is opened
}

type suspectView struct {
	Name   string   `json:"susname"`
	Status string   `json:"status"`
	Hints  []string `json:"hints,omitempty"` // set only once the portrait is opened
}

type pendingView struct {
	Login     string  `json:"login"`
	Seat      int     `json:"seatnumber"`
	Direction *string `json:"direction"`
	Result    *bool   `json:"result"`
	MaxSteps  *int    `json:"max_steps"`
}

// Get serves GET /v1/games/:id.  Before rendering it tears down games that
// ran past the two hour ceiling and lazily skips an expired turn.
func (h *StateHandler) Get(c echo.Context) error {
	gameID, ok := gameIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid game id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	gone, err := h.Engine.DestroyIfStale(ctx, gameID)
	if err != nil {
		log.WithError(err).WithField("game", gameID).Warn("stale-game check failed")
	}
	if gone {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "game not found"})
	}

	// reads never fail because the sweep did
	if skip, err := h.Engine.AutoAdvanceIfExpired(ctx, gameID); err != nil {
		log.WithError(err).WithField("game", gameID).Warn("turn timeout sweep failed")
	} else if skip.GameOver {
		service.PublishGameFinishedAsync(gameID, "lose", "fox_escaped")
	}

	g, err := h.Engine.Games.Get(ctx, gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "game not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	fox, err := h.Engine.Foxes.Get(ctx, gameID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	players, err := h.Engine.Players.ListByGame(ctx, gameID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	playerViews := make([]playerView, 0, len(players))
	for _, p := range players {
		playerViews = append(playerViews, playerView{
			PlayerID: p.ID, Login: p.Login, Seat: p.SeatNumber,
			Color: p.Color, Y: p.Y, X: p.X,
		})
	}

	var remaining *int
	if g.TurnStartedAt != nil && g.TurnTime > 0 {
		left := g.TurnTime - int(time.Now().UTC().Sub(g.TurnStartedAt.UTC())/time.Second)
		if left < 0 {
			left = 0
		}
		remaining = &left
	}

	clues, err := h.clueViews(ctx, gameID, fox.SuspectID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	suspects, err := h.suspectViews(ctx, gameID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	pending, err := h.pendingViews(ctx, gameID, players)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	var result *string
	if r := fox.Result(); r != "" {
		result = &r
	}

	return c.JSON(http.StatusOK, echo.Map{
		"game": echo.Map{
			"game_id":          g.ID,
			"turntime":         g.TurnTime,
			"seatcount":        g.SeatCount,
			"players_now":      len(players),
			"started":          g.Started(),
			"current_seat":     g.CurrentSeat,
			"game_over":        fox.Terminal(),
			"result":           result,
			"timeRemainingSec": remaining,
		},
		"fox":             echo.Map{"foxpos": fox.Position},
		"players":         playerViews,
		"clues":           clues,
		"suspects":        suspects,
		"pending_actions": pending,
	})
}

func (h *StateHandler) clueViews(ctx context.Context, gameID, foxSuspect uint64) ([]clueView, error) {
	placements, err := h.Engine.Board.ListCluePlacements(ctx, gameID)
	if err != nil {
		return nil, err
	}
	foxClues, err := h.Engine.Suspects.ClueIDsOfSuspect(ctx, gameID, foxSuspect)
	if err != nil {
		return nil, err
	}
	foxSet := make(map[uint64]bool, len(foxClues))
	for _, id := range foxClues {
		foxSet[id] = true
	}

	out := make([]clueView, 0, len(placements))
	for _, p := range placements {
		cv := clueView{Y: p.Y, X: p.X, ItemName: p.Name, Status: string(p.Status)}
		if p.Status.Opened() {
			has := foxSet[p.ClueID]
			cv.FoxHasItem = &has
		}
		out = append(out, cv)
	}
	return out, nil
}

func (h *StateHandler) suspectViews(ctx context.Context, gameID uint64) ([]suspectView, error) {
	cards, err := h.Engine.Suspects.ListByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	out := make([]suspectView, 0, len(cards))
	for _, s := range cards {
		sv := suspectView{Name: s.Name, Status: string(s.Status)}
		if s.Status.Opened() {
			sv.Hints, err = h.Engine.Suspects.ClueNamesOfSuspect(ctx, gameID, s.SuspectID)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, sv)
	}
	return out, nil
}

func (h *StateHandler) pendingViews(ctx context.Context, gameID uint64, players []repository.PlayerAt) ([]pendingView, error) {
	actions, err := h.Engine.Moves.ListByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	byPlayer := make(map[uint64]model.PendingAction, len(actions))
	for _, a := range actions {
		byPlayer[a.PlayerID] = a
	}

	out := make([]pendingView, 0, len(players))
	for _, p := range players {
		pv := pendingView{Login: p.Login, Seat: p.SeatNumber}
		if a, ok := byPlayer[p.ID]; ok {
			dir := string(a.Kind)
			res := a.Success
			pv.Direction = &dir
			pv.Result = &res
			pv.MaxSteps = a.MaxSteps
		}
		out = append(out, pv)
	}
	return out, nil
}
