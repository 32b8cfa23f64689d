package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGameStarted(t *testing.T) {
	g := Game{CurrentSeat: 0}
	assert.False(t, g.Started())

	now := time.Now()
	g = Game{CurrentSeat: 1, TurnStartedAt: &now}
	assert.True(t, g.Started())
}

func TestFoxTerminal(t *testing.T) {
	cases := []struct {
		pos      int
		terminal bool
	}{
		{0, false},
		{18, false},
		{FoxEscapePos - 1, false},
		{FoxEscapePos, true},
		{FoxEscapePos + 5, true},
		{FoxPosAllLose, true},
		{FoxPosAllWin, true},
	}
	for _, tc := range cases {
		f := Fox{Position: tc.pos}
		assert.Equal(t, tc.terminal, f.Terminal(), "foxpos %d", tc.pos)
	}
}

func TestFoxResult(t *testing.T) {
	assert.Equal(t, "", (&Fox{Position: 12}).Result())
	assert.Equal(t, "win", (&Fox{Position: FoxPosAllWin}).Result())
	assert.Equal(t, "lose", (&Fox{Position: FoxPosAllLose}).Result())
	assert.Equal(t, "lose", (&Fox{Position: FoxEscapePos}).Result())
	assert.Equal(t, "lose", (&Fox{Position: FoxEscapePos + 3}).Result())
}
