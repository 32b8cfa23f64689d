package engine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/nikitusuik/thefox/internal/model"
)

// TimeoutSkip describes the outcome of a lazy timeout sweep.  GameOver is
// set when the skip walked the fox past the den threshold.
type TimeoutSkip struct {
	Skipped  bool
	FoxPos   int
	GameOver bool
}

// AutoAdvanceIfExpired skips the current seat's turn when its clock ran
// out.  It is invoked lazily from state reads: there is no background
// ticker, the first client to look at a stalled game moves it along.
//
// The check is done twice.  A cheap unlocked read filters the common case
// of a live turn; only when that says expired do we open a transaction,
// take the usual locks and re-verify, in case someone acted in between.
func (e *Engine) AutoAdvanceIfExpired(ctx context.Context, gameID uint64) (TimeoutSkip, error) {
	g, err := e.Games.Get(ctx, gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return TimeoutSkip{}, nil
	}
	if err != nil {
		return TimeoutSkip{}, err
	}
	if !turnExpired(&g, time.Now()) {
		return TimeoutSkip{}, nil
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return TimeoutSkip{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// same lock order as a player-initiated skip
	p, err := e.Players.LockBySeatTx(ctx, tx, gameID, g.CurrentSeat)
	if errors.Is(err, sql.ErrNoRows) {
		return TimeoutSkip{}, nil
	}
	if err != nil {
		return TimeoutSkip{}, err
	}

	fox, err := e.Foxes.LockTx(ctx, tx, gameID)
	if err != nil {
		return TimeoutSkip{}, err
	}
	if fox.Terminal() {
		return TimeoutSkip{}, nil
	}

	if err := e.Moves.DeleteTx(ctx, tx, p.ID); err != nil {
		return TimeoutSkip{}, err
	}

	locked, err := e.Games.LockTx(ctx, tx, gameID)
	if err != nil {
		return TimeoutSkip{}, err
	}
	// someone finished the turn while we were acquiring locks
	if locked.CurrentSeat != g.CurrentSeat || !turnExpired(&locked, time.Now()) {
		return TimeoutSkip{}, nil
	}

	newPos, err := e.Foxes.AdvanceTx(ctx, tx, gameID, model.FoxStep)
	if err != nil {
		return TimeoutSkip{}, err
	}
	ns := nextSeat(locked.CurrentSeat, locked.SeatCount)
	if err := e.Games.SetSeatTx(ctx, tx, gameID, ns, true); err != nil {
		return TimeoutSkip{}, err
	}

	if err := tx.Commit(); err != nil {
		return TimeoutSkip{}, err
	}
	committed = true

	log.WithFields(log.Fields{
		"game":      gameID,
		"seat":      locked.CurrentSeat,
		"next_seat": ns,
		"foxpos":    newPos,
	}).Info("turn timed out, seat skipped")
	return TimeoutSkip{Skipped: true, FoxPos: newPos, GameOver: foxEscaped(newPos)}, nil
}

// turnExpired reports whether the running clock passed the game's per-turn
// allowance.
func turnExpired(g *model.Game, now time.Time) bool {
	if !g.Started() || g.TurnStartedAt == nil {
		return false
	}
	return now.UTC().Sub(g.TurnStartedAt.UTC()) >= time.Duration(g.TurnTime)*time.Second
}
