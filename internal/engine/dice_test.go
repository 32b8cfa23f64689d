package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikitusuik/thefox/internal/model"
)

// seq returns a rand2 that plays back a fixed sequence of faces.
func seq(vals ...int) rand2 {
	i := 0
	return func() int {
		v := vals[i%len(vals)]
		i++
		return v
	}
}

func TestRollDiceAllOnesFirstAttempt(t *testing.T) {
	dice, ok := rollDice(seq(1, 1, 1))
	require.True(t, ok)
	assert.Equal(t, [3]int{1, 1, 1}, dice)
}

func TestRollDiceRerollsOnlyZeros(t *testing.T) {
	// attempt 1: 1,0,0 -> attempt 2 rolls two dice: 0,1 -> attempt 3 rolls one: 1
	dice, ok := rollDice(seq(1, 0, 0, 0, 1, 1))
	require.True(t, ok)
	assert.Equal(t, [3]int{1, 1, 1}, dice)
}

func TestRollDiceFailsAfterThreeAttempts(t *testing.T) {
	dice, ok := rollDice(seq(0))
	require.False(t, ok)
	assert.Equal(t, [3]int{0, 0, 0}, dice)
}

func TestRollDiceLastAttemptCounts(t *testing.T) {
	// the third attempt may still complete the set
	_, ok := rollDice(seq(0, 0, 0, 0, 0, 0, 1, 1, 1))
	assert.True(t, ok)
}

func TestRollDiceFullFailureDrawsNineFaces(t *testing.T) {
	// three attempts over three dice with nothing ever settling
	calls := 0
	dice, ok := rollDice(func() int { calls++; return 0 })
	require.False(t, ok)
	assert.Equal(t, 9, calls)
	assert.Equal(t, [3]int{0, 0, 0}, dice)
}

func TestRollDiceSettledDiceConsumeNoFaces(t *testing.T) {
	// the first die settles on attempt one, the second on attempt two;
	// only the six faces below are drawn, so a settled die is never
	// rolled again
	calls := 0
	vals := []int{1, 0, 0, 1, 0, 1}
	dice, ok := rollDice(func() int {
		v := vals[calls]
		calls++
		return v
	})
	require.True(t, ok)
	assert.Equal(t, 6, calls)
	assert.Equal(t, [3]int{1, 1, 1}, dice)
}

func TestFoxEscaped(t *testing.T) {
	assert.False(t, foxEscaped(0))
	assert.False(t, foxEscaped(model.FoxEscapePos-1))
	assert.True(t, foxEscaped(model.FoxEscapePos))
	assert.True(t, foxEscaped(model.FoxEscapePos+model.FoxStep))
}

func TestMovementBudgetBounds(t *testing.T) {
	low := movementBudget(func(int) int { return 0 })
	assert.Equal(t, model.MinMoveSteps, low)

	high := movementBudget(func(n int) int { return n - 1 })
	assert.Equal(t, model.MaxMoveSteps, high)
}

func TestManhattan(t *testing.T) {
	assert.Equal(t, 0, manhattan(5, 5, 5, 5))
	assert.Equal(t, 7, manhattan(1, 1, 4, 5))
	assert.Equal(t, 7, manhattan(4, 5, 1, 1)) // symmetric
}

func TestNextSeatWraps(t *testing.T) {
	assert.Equal(t, 2, nextSeat(1, 4))
	assert.Equal(t, 4, nextSeat(3, 4))
	assert.Equal(t, 1, nextSeat(4, 4))
	assert.Equal(t, 1, nextSeat(2, 2))
}
