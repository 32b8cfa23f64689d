package engine

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nikitusuik/thefox/internal/model"
	"github.com/nikitusuik/thefox/internal/repository"
)

// ChooseResult reports a search roll.
type ChooseResult struct {
	Kind     model.ActionKind
	Dice     [3]int
	Success  bool
	MaxSteps *int // set only for a successful clue roll
	FoxMoved bool
	FoxPos   int
	NextSeat *int // set when the failed roll handed the turn over
	GameOver bool
}

// MoveResult reports a completed relocation.
type MoveResult struct {
	FromY, FromX int
	ToY, ToX     int
	Distance     int
	MaxSteps     int
	ClueName     *string // clue on the destination cell, if any
	FoxHasClue   *bool   // whether the culprit carries that item
	NextSeat     int
}

// SuspectResult reports a portrait reveal.
type SuspectResult struct {
	SuspectName string
	Hints       []string
	NextSeat    int
}

// SkipResult reports a forfeited turn.
type SkipResult struct {
	FoxPos   int
	NextSeat int
	GameOver bool
}

// AccuseResult reports the final verdict.
type AccuseResult struct {
	Accused      string
	Win          bool
	FoxPos       int
	AlreadyEnded bool
}

// ChooseAction rolls the dice for the acting player's declared search.  A
// successful roll leaves a pending action to be finished by ResolveMove or
// ResolveSuspect; a failed roll advances the fox and hands the turn over
// immediately.
func (e *Engine) ChooseAction(ctx context.Context, gameID uint64, login string, kind model.ActionKind) (ChooseResult, error) {
	var res ChooseResult
	res.Kind = kind

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

	t, err := e.Players.LockTurnTx(ctx, tx, gameID, login)
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrNotSeated
	}
	if err != nil {
		return res, err
	}
	if t.CurrentSeat == 0 {
		return res, ErrGameNotStarted
	}
	if t.SeatNumber != t.CurrentSeat {
		return res, ErrNotYourTurn
	}

	fox, err := e.Foxes.LockTx(ctx, tx, gameID)
	if err != nil {
		return res, err
	}
	if fox.Terminal() {
		return res, ErrGameOver
	}

	pending, err := e.Moves.ExistsTx(ctx, tx, t.PlayerID)
	if err != nil {
		return res, err
	}
	if pending {
		return res, ErrPendingExists
	}

	res.Dice, res.Success = rollDice(func() int { return e.intn(2) })
	res.FoxPos = fox.Position

	if res.Success {
		if kind == model.ActionClue {
			steps := movementBudget(e.intn)
			res.MaxSteps = &steps
		}
		if err := e.Moves.CreateTx(ctx, tx, t.PlayerID, kind, true, res.MaxSteps); err != nil {
			return res, err
		}
	} else {
		// the failed outcome is written and consumed in one transaction:
		// the fox slips away and the turn ends right here
		if err := e.Moves.CreateTx(ctx, tx, t.PlayerID, kind, false, nil); err != nil {
			return res, err
		}
		if err := e.Moves.DeleteTx(ctx, tx, t.PlayerID); err != nil {
			return res, err
		}
		res.FoxPos, err = e.Foxes.AdvanceTx(ctx, tx, gameID, model.FoxStep)
		if err != nil {
			return res, err
		}
		res.FoxMoved = true
		res.GameOver = foxEscaped(res.FoxPos)

		ns := nextSeat(t.CurrentSeat, t.SeatCount)
		if err := e.Games.SetSeatTx(ctx, tx, gameID, ns, true); err != nil {
			return res, err
		}
		res.NextSeat = &ns
	}

	if err := tx.Commit(); err != nil {
		return res, err
	}
	committed = true
	return res, nil
}

// ResolveMove finishes a successful clue roll: checks the step budget,
// relocates the player, flips any hidden clue on the destination face up
// and hands the turn over.
func (e *Engine) ResolveMove(ctx context.Context, gameID uint64, login string, toY, toX int) (MoveResult, error) {
	var res MoveResult
	res.ToY, res.ToX = toY, toX

	if toY < 1 || toY > model.BoardSize || toX < 1 || toX > model.BoardSize {
		return res, ErrOffBoard
	}

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

	t, err := e.Players.LockTurnTx(ctx, tx, gameID, login)
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrNotSeated
	}
	if err != nil {
		return res, err
	}
	if t.CurrentSeat == 0 {
		return res, ErrGameNotStarted
	}
	if t.SeatNumber != t.CurrentSeat {
		return res, ErrNotYourTurn
	}
	res.FromY, res.FromX = t.Y, t.X

	fox, err := e.Foxes.LockTx(ctx, tx, gameID)
	if err != nil {
		return res, err
	}
	if fox.Terminal() {
		return res, ErrGameOver
	}

	pa, err := e.Moves.LockTx(ctx, tx, t.PlayerID)
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrNoPending
	}
	if err != nil {
		return res, err
	}
	if pa.Kind != model.ActionClue {
		return res, ErrWrongPending
	}
	if !pa.Success {
		return res, e.closeFailedTurn(ctx, tx, &committed, gameID, t)
	}
	if pa.MaxSteps == nil || *pa.MaxSteps <= 0 {
		return res, errors.New("pending clue action has no step budget")
	}
	res.MaxSteps = *pa.MaxSteps

	res.Distance = manhattan(t.Y, t.X, toY, toX)
	if res.Distance > res.MaxSteps {
		return res, ErrTooFar
	}

	toCell, err := e.Board.CellByCoordsTx(ctx, tx, gameID, toY, toX)
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrOffBoard
	}
	if err != nil {
		return res, err
	}

	if err := e.Players.MoveTx(ctx, tx, t.PlayerID, toCell); err != nil {
		return res, err
	}

	clueID, clueName, st, err := e.Board.ClueAtCellTx(ctx, tx, toCell)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// empty cell, nothing to reveal
	case err != nil:
		return res, err
	default:
		if !st.Opened() {
			if err := e.Board.OpenClueTx(ctx, tx, toCell); err != nil {
				return res, err
			}
		}
		has, err := e.Suspects.SuspectHasClueTx(ctx, tx, gameID, fox.SuspectID, clueID)
		if err != nil {
			return res, err
		}
		res.ClueName = &clueName
		res.FoxHasClue = &has
	}

	if err := e.Moves.DeleteTx(ctx, tx, t.PlayerID); err != nil {
		return res, err
	}
	res.NextSeat = nextSeat(t.CurrentSeat, t.SeatCount)
	if err := e.Games.SetSeatTx(ctx, tx, gameID, res.NextSeat, true); err != nil {
		return res, err
	}

	if err := tx.Commit(); err != nil {
		return res, err
	}
	committed = true
	return res, nil
}

// ResolveSuspect finishes a successful suspect roll: turns the named
// portrait face up and returns the items that suspect carries.
func (e *Engine) ResolveSuspect(ctx context.Context, gameID uint64, login, suspectName string) (SuspectResult, error) {
	var res SuspectResult

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

	t, err := e.Players.LockTurnTx(ctx, tx, gameID, login)
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrNotSeated
	}
	if err != nil {
		return res, err
	}
	if t.CurrentSeat == 0 {
		return res, ErrGameNotStarted
	}
	if t.SeatNumber != t.CurrentSeat {
		return res, ErrNotYourTurn
	}

	fox, err := e.Foxes.LockTx(ctx, tx, gameID)
	if err != nil {
		return res, err
	}
	if fox.Terminal() {
		return res, ErrGameOver
	}

	pa, err := e.Moves.LockTx(ctx, tx, t.PlayerID)
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrNoPending
	}
	if err != nil {
		return res, err
	}
	if pa.Kind != model.ActionSuspect {
		return res, ErrWrongPending
	}
	if !pa.Success {
		return res, e.closeFailedTurn(ctx, tx, &committed, gameID, t)
	}

	susID, ok, err := e.Catalog.SuspectIDByName(ctx, suspectName)
	if err != nil {
		return res, err
	}
	if !ok {
		return res, ErrUnknownSuspect
	}

	st, err := e.Suspects.StatusTx(ctx, tx, gameID, susID)
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrUnknownSuspect
	}
	if err != nil {
		return res, err
	}
	if st.Opened() {
		return res, ErrSuspectOpened
	}
	if err := e.Suspects.OpenTx(ctx, tx, gameID, susID); err != nil {
		return res, err
	}

	if err := e.Moves.DeleteTx(ctx, tx, t.PlayerID); err != nil {
		return res, err
	}
	res.NextSeat = nextSeat(t.CurrentSeat, t.SeatCount)
	if err := e.Games.SetSeatTx(ctx, tx, gameID, res.NextSeat, true); err != nil {
		return res, err
	}

	res.SuspectName = suspectName
	res.Hints, err = e.Suspects.ClueNamesOfSuspectTx(ctx, tx, gameID, susID)
	if err != nil {
		return res, err
	}

	if err := tx.Commit(); err != nil {
		return res, err
	}
	committed = true
	return res, nil
}

// SkipTurn forfeits the acting player's turn: the pending action (if any)
// is discarded, the fox advances and the next seat's clock starts.
func (e *Engine) SkipTurn(ctx context.Context, gameID uint64, login string) (SkipResult, error) {
	var res SkipResult

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

	t, err := e.Players.LockTurnTx(ctx, tx, gameID, login)
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrNotSeated
	}
	if err != nil {
		return res, err
	}
	if t.CurrentSeat == 0 {
		return res, ErrGameNotStarted
	}
	if t.SeatNumber != t.CurrentSeat {
		return res, ErrNotYourTurn
	}

	fox, err := e.Foxes.LockTx(ctx, tx, gameID)
	if err != nil {
		return res, err
	}
	if fox.Terminal() {
		return res, ErrGameOver
	}

	if err := e.Moves.DeleteTx(ctx, tx, t.PlayerID); err != nil {
		return res, err
	}
	res.FoxPos, err = e.Foxes.AdvanceTx(ctx, tx, gameID, model.FoxStep)
	if err != nil {
		return res, err
	}
	res.GameOver = foxEscaped(res.FoxPos)

	res.NextSeat = nextSeat(t.CurrentSeat, t.SeatCount)
	if err := e.Games.SetSeatTx(ctx, tx, gameID, res.NextSeat, true); err != nil {
		return res, err
	}

	if err := tx.Commit(); err != nil {
		return res, err
	}
	committed = true
	return res, nil
}

// Accuse is the endgame call.  Any seated player may accuse at any moment,
// turn order does not apply.  Naming the culprit wins the game for every
// player, missing loses it for every player; either way the verdict
// freezes the fox position and later accusations just report it.
func (e *Engine) Accuse(ctx context.Context, gameID uint64, login, suspectName string) (AccuseResult, error) {
	res := AccuseResult{Accused: suspectName}

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

	_, err = e.Players.LockByLoginTx(ctx, tx, gameID, login)
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrNotSeated
	}
	if err != nil {
		return res, err
	}

	susID, ok, err := e.Catalog.SuspectIDByName(ctx, suspectName)
	if err != nil {
		return res, err
	}
	if !ok {
		return res, ErrUnknownSuspect
	}

	fox, err := e.Foxes.LockTx(ctx, tx, gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return res, ErrGameNotFound
	}
	if err != nil {
		return res, err
	}

	if fox.Terminal() {
		// verdict is frozen, report it unchanged
		if err := tx.Commit(); err != nil {
			return res, err
		}
		committed = true
		res.AlreadyEnded = true
		res.Win = fox.Position == model.FoxPosAllWin
		res.FoxPos = fox.Position
		return res, nil
	}

	res.Win = susID == fox.SuspectID
	res.FoxPos = model.FoxPosAllLose
	if res.Win {
		res.FoxPos = model.FoxPosAllWin
	}
	if err := e.Foxes.SetPositionTx(ctx, tx, gameID, res.FoxPos); err != nil {
		return res, err
	}

	// nobody keeps a half-finished turn after the verdict
	if err := e.Moves.DeleteByGameTx(ctx, tx, gameID); err != nil {
		return res, err
	}

	if err := tx.Commit(); err != nil {
		return res, err
	}
	committed = true
	return res, nil
}

// closeFailedTurn consumes a stored failed roll: the pending action goes
// away and the turn passes on.  The handoff is committed before the
// caller surfaces ErrRollFailed.
func (e *Engine) closeFailedTurn(ctx context.Context, tx *sql.Tx, committed *bool, gameID uint64, t repository.TurnRow) error {
	if err := e.Moves.DeleteTx(ctx, tx, t.PlayerID); err != nil {
		return err
	}
	ns := nextSeat(t.CurrentSeat, t.SeatCount)
	if err := e.Games.SetSeatTx(ctx, tx, gameID, ns, true); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	*committed = true
	return ErrRollFailed
}
