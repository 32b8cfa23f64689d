package engine

import "github.com/nikitusuik/thefox/internal/model"

// rand2 is a source of fair binary trials.  Production uses the engine's
// seeded rng; tests inject a deterministic sequence.
type rand2 func() int

// rollDice plays the search roll: three binary dice, up to three attempts,
// only zeros are re-rolled.  The roll succeeds when all three show 1.  The
// final faces are returned so clients can show the roll.
func rollDice(r rand2) ([3]int, bool) {
	var dice [3]int
	for attempt := 0; attempt < 3; attempt++ {
		ones := 0
		for i := range dice {
			if dice[i] == 0 {
				dice[i] = r()
			}
			ones += dice[i]
		}
		if ones == 3 {
			return dice, true
		}
	}
	return dice, false
}

// movementBudget is the step allowance granted by a successful clue search,
// uniform over [MinMoveSteps, MaxMoveSteps].
func movementBudget(intn func(int) int) int {
	return model.MinMoveSteps + intn(model.MaxMoveSteps-model.MinMoveSteps+1)
}

// foxEscaped reports whether a position is past the den threshold.  Every
// path that advances the fox decides "game over" through this one check.
func foxEscaped(pos int) bool { return pos >= model.FoxEscapePos }

// manhattan is the board distance used for movement range checks.
func manhattan(y1, x1, y2, x2 int) int {
	dy := y1 - y2
	if dy < 0 {
		dy = -dy
	}
	dx := x1 - x2
	if dx < 0 {
		dx = -dx
	}
	return dy + dx
}

// nextSeat advances the turn pointer, wrapping back to seat 1.
func nextSeat(current, seatCount int) int {
	if current >= seatCount {
		return 1
	}
	return current + 1
}
