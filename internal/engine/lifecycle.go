package engine

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/nikitusuik/thefox/internal/model"
)

// seatColors indexes pawn colors by seat number.
var seatColors = [model.MaxSeats + 1]string{"", "red", "yellow", "blue", "green"}

// startCells returns the seat -> starting coordinate map for a seat count.
// All starts sit in the 2x2 block at the middle of the board.
func startCells(seatCount int) [][2]int {
	c := model.BoardSize / 2
	switch seatCount {
	case 2:
		return [][2]int{{c, c}, {c + 1, c + 1}}
	case 3:
		return [][2]int{{c, c}, {c, c + 1}, {c + 1, c + 1}}
	default:
		return [][2]int{{c, c}, {c, c + 1}, {c + 1, c}, {c + 1, c + 1}}
	}
}

// distributeClues assigns traits: every clue lands on at least one suspect
// and every suspect ends up with exactly CluesPerSus distinct clues.  The
// first pass deals the shuffled clues round-robin, the second pass tops
// each suspect up.
func distributeClues(suspects, clues []uint64, intn func(int) int) map[uint64][]uint64 {
	shuffled := make([]uint64, len(clues))
	copy(shuffled, clues)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	out := make(map[uint64][]uint64, len(suspects))
	for i, clueID := range shuffled {
		sus := suspects[i%len(suspects)]
		out[sus] = append(out[sus], clueID)
	}

	for _, sus := range suspects {
		have := make(map[uint64]bool, model.CluesPerSus)
		for _, c := range out[sus] {
			have[c] = true
		}
		for len(out[sus]) < model.CluesPerSus {
			c := shuffled[intn(len(shuffled))]
			if have[c] {
				continue
			}
			have[c] = true
			out[sus] = append(out[sus], c)
		}
	}
	return out
}

// CreateGame builds the whole game graph in one transaction: the game row,
// the fox with its secret identity, the grid, the face-down suspects with
// their traits and the hidden clue placements.
func (e *Engine) CreateGame(ctx context.Context, turnTime, seatCount int) (uint64, error) {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	gameID, err := e.Games.CreateTx(ctx, tx, turnTime, seatCount)
	if err != nil {
		return 0, err
	}

	foxSuspect, err := e.Catalog.RandomSuspectIDTx(ctx, tx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrCatalogTooSmall
	}
	if err != nil {
		return 0, err
	}
	if err := e.Foxes.CreateTx(ctx, tx, gameID, foxSuspect); err != nil {
		return 0, err
	}

	if err := e.Board.CreateGridTx(ctx, tx, gameID); err != nil {
		return 0, err
	}

	suspectIDs, err := e.Catalog.ListSuspectIDsTx(ctx, tx)
	if err != nil {
		return 0, err
	}
	if len(suspectIDs) == 0 {
		return 0, ErrCatalogTooSmall
	}
	if err := e.Suspects.InsertAllTx(ctx, tx, gameID, suspectIDs); err != nil {
		return 0, err
	}

	clueIDs, err := e.Catalog.RandomClueIDsTx(ctx, tx, model.CluesPerGame)
	if err != nil {
		return 0, err
	}
	if len(clueIDs) < model.CluesPerGame {
		return 0, ErrCatalogTooSmall
	}

	for sus, clues := range distributeClues(suspectIDs, clueIDs, e.intn) {
		for _, clueID := range clues {
			if err := e.Suspects.LinkClueTx(ctx, tx, gameID, sus, clueID); err != nil {
				return 0, err
			}
		}
	}

	cells, err := e.Board.RandomCellsOutsideCenterTx(ctx, tx, gameID, model.CluesPerGame)
	if err != nil {
		return 0, err
	}
	if len(cells) < model.CluesPerGame {
		return 0, ErrCatalogTooSmall
	}
	for i, clueID := range clueIDs {
		if err := e.Board.PlaceClueTx(ctx, tx, cells[i], clueID); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return gameID, nil
}

// JoinResult reports the seat handed out (or re-reported) by Join.
type JoinResult struct {
	PlayerID   uint64
	Seat       int
	Color      string
	Y, X       int
	PlayersNow int
	SeatCount  int
	Started    bool
	Rejoined   bool
}

// Join seats the login in the game.  Joining a game you already sit in is
// a no-op that reports your existing seat.  The join that fills the last
// seat starts the match.
func (e *Engine) Join(ctx context.Context, gameID uint64, login string) (JoinResult, error) {
	var res JoinResult

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	g, err := e.Games.LockTx(ctx, tx, gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrGameNotFound
	}
	if err != nil {
		return res, err
	}
	res.SeatCount = g.SeatCount

	players, err := e.Players.ListTx(ctx, tx, gameID)
	if err != nil {
		return res, err
	}
	for _, p := range players {
		if strings.EqualFold(p.Login, login) {
			res.PlayerID = p.ID
			res.Seat = p.SeatNumber
			res.Color = p.Color
			res.Y, res.X = p.Y, p.X
			res.PlayersNow = len(players)
			res.Started = g.Started()
			res.Rejoined = true
			if err := tx.Commit(); err != nil {
				return res, err
			}
			committed = true
			return res, nil
		}
	}

	if g.Started() {
		return res, ErrAlreadyStarted
	}
	if len(players) >= g.SeatCount {
		return res, ErrGameFull
	}

	res.Seat = len(players) + 1
	res.Color = seatColors[res.Seat]
	start := startCells(g.SeatCount)[res.Seat-1]
	res.Y, res.X = start[0], start[1]

	cellID, err := e.Board.CellByCoordsTx(ctx, tx, gameID, res.Y, res.X)
	if err != nil {
		return res, err
	}
	res.PlayerID, err = e.Players.CreateTx(ctx, tx, login, res.Seat, res.Color, cellID)
	if err != nil {
		return res, err
	}

	res.PlayersNow = len(players) + 1
	if res.PlayersNow >= g.SeatCount {
		if err := e.Games.StartTx(ctx, tx, gameID); err != nil {
			return res, err
		}
		res.Started = true
	}

	if err := tx.Commit(); err != nil {
		return res, err
	}
	committed = true
	return res, nil
}

// LeaveResult reports what Leave did.
type LeaveResult struct {
	Removed   bool
	Destroyed bool
}

// Leave removes the login from the game along with any pending action.
// Leaving a game you are not in is a no-op.  When the last player leaves
// a game that never started, the whole game is torn down.
func (e *Engine) Leave(ctx context.Context, gameID uint64, login string) (LeaveResult, error) {
	var res LeaveResult

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	p, err := e.Players.LockByLoginTx(ctx, tx, gameID, login)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := e.Games.Get(ctx, gameID); errors.Is(err, sql.ErrNoRows) {
			return res, ErrGameNotFound
		} else if err != nil {
			return res, err
		}
		if err := tx.Commit(); err != nil {
			return res, err
		}
		committed = true
		return res, nil
	}
	if err != nil {
		return res, err
	}

	if err := e.Moves.DeleteTx(ctx, tx, p.ID); err != nil {
		return res, err
	}
	if err := e.Players.DeleteTx(ctx, tx, p.ID); err != nil {
		return res, err
	}
	res.Removed = true

	g, err := e.Games.LockTx(ctx, tx, gameID)
	if err != nil {
		return res, err
	}
	if !g.Started() {
		n, err := e.Players.CountTx(ctx, tx, gameID)
		if err != nil {
			return res, err
		}
		if n == 0 {
			if err := e.destroyTx(ctx, tx, gameID); err != nil {
				return res, err
			}
			res.Destroyed = true
		}
	}

	if err := tx.Commit(); err != nil {
		return res, err
	}
	committed = true
	return res, nil
}

// destroyTx tears a game down child-first so no foreign key is left
// dangling: pending actions, players, clue placements, suspect traits and
// cards, cells, the fox, the game row.
func (e *Engine) destroyTx(ctx context.Context, tx *sql.Tx, gameID uint64) error {
	if err := e.Moves.DeleteByGameTx(ctx, tx, gameID); err != nil {
		return err
	}
	if err := e.Players.DeleteByGameTx(ctx, tx, gameID); err != nil {
		return err
	}
	if err := e.Board.DeleteCluesByGameTx(ctx, tx, gameID); err != nil {
		return err
	}
	if err := e.Suspects.DeleteByGameTx(ctx, tx, gameID); err != nil {
		return err
	}
	if err := e.Board.DeleteCellsByGameTx(ctx, tx, gameID); err != nil {
		return err
	}
	if err := e.Foxes.DeleteTx(ctx, tx, gameID); err != nil {
		return err
	}
	return e.Games.DeleteTx(ctx, tx, gameID)
}

// DestroyGame tears a game down in its own transaction.
func (e *Engine) DestroyGame(ctx context.Context, gameID uint64) error {
	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := e.destroyTx(ctx, tx, gameID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// SweepAbandoned destroys games nobody is playing anymore: empty games and
// games stuck with a lone player half an hour past their start.  Failures
// are logged and skipped so one bad game does not block the sweep.
func (e *Engine) SweepAbandoned(ctx context.Context) int {
	ids, err := e.Games.ListAbandoned(ctx)
	if err != nil {
		log.WithError(err).Warn("abandoned-game sweep query failed")
		return 0
	}
	destroyed := 0
	for _, id := range ids {
		if err := e.DestroyGame(ctx, id); err != nil {
			log.WithError(err).WithField("game", id).Warn("could not destroy abandoned game")
			continue
		}
		destroyed++
	}
	if destroyed > 0 {
		log.WithField("count", destroyed).Info("swept abandoned games")
	}
	return destroyed
}

// DestroyIfStale tears the game down when no turn has passed for two
// hours.  State reads call this before rendering a snapshot.
func (e *Engine) DestroyIfStale(ctx context.Context, gameID uint64) (bool, error) {
	old, err := e.Games.StartedLongAgo(ctx, gameID)
	if err != nil || !old {
		return false, err
	}
	if err := e.DestroyGame(ctx, gameID); err != nil {
		return false, err
	}
	log.WithField("game", gameID).Info("destroyed stale game")
	return true, nil
}

// CleanupReport summarizes a one-shot maintenance sweep.
type CleanupReport struct {
	DeletedGames int   `json:"deleted_games"`
	ExpiredGames int64 `json:"expired_games"`
}

// Cleanup runs the migration sweep: never-started games are deleted
// outright, and running games whose first turn predates today are
// force-finished by walking the fox off the board.
func (e *Engine) Cleanup(ctx context.Context) (CleanupReport, error) {
	var rep CleanupReport

	ids, err := e.Games.ListNeverStarted(ctx)
	if err != nil {
		return rep, err
	}
	for _, id := range ids {
		if err := e.DestroyGame(ctx, id); err != nil {
			log.WithError(err).WithField("game", id).Warn("cleanup: could not delete game")
			continue
		}
		rep.DeletedGames++
	}

	rep.ExpiredGames, err = e.Games.ExpireStartedBeforeToday(ctx)
	if err != nil {
		return rep, err
	}
	return rep, nil
}
