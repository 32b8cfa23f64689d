// Package engine implements the game rules on top of the repositories.
//
// Every mutation runs in a single transaction and takes row locks in a
// fixed order: the acting player's row (joined through its cell), the fox
// row, the player's pending-action row, whatever target rows the move
// touches, and finally the game row for the seat/clock update.  Keeping
// the order identical across ChooseAction, ResolveMove, ResolveSuspect,
// SkipTurn, Accuse and the timeout sweep is what makes concurrent requests
// on one game serialize instead of deadlock.
package engine

import (
	"database/sql"
	"math/rand"
	"sync"
	"time"

	"github.com/nikitusuik/thefox/internal/repository"
)

type Engine struct {
	DB       *sql.DB
	Games    *repository.GameRepo
	Foxes    *repository.FoxRepo
	Players  *repository.PlayerRepo
	Board    *repository.BoardRepo
	Suspects *repository.SuspectRepo
	Catalog  *repository.CatalogRepo
	Moves    *repository.MoveRepo

	mu  sync.Mutex
	rng *rand.Rand
}

func New(db *sql.DB) *Engine {
	return &Engine{
		DB:       db,
		Games:    repository.NewGameRepo(db),
		Foxes:    repository.NewFoxRepo(db),
		Players:  repository.NewPlayerRepo(db),
		Board:    repository.NewBoardRepo(db),
		Suspects: repository.NewSuspectRepo(db),
		Catalog:  repository.NewCatalogRepo(db),
		Moves:    repository.NewMoveRepo(db),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// intn is rng.Intn behind the engine's mutex; *rand.Rand is not safe for
// concurrent use.
func (e *Engine) intn(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}
