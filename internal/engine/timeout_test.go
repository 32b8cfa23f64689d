package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nikitusuik/thefox/internal/model"
)

func TestTurnExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	started := now.Add(-25 * time.Second)

	cases := []struct {
		name string
		game model.Game
		want bool
	}{
		{
			name: "clock past the allowance",
			game: model.Game{CurrentSeat: 1, TurnTime: 20, TurnStartedAt: &started},
			want: true,
		},
		{
			name: "clock exactly at the allowance",
			game: model.Game{CurrentSeat: 1, TurnTime: 25, TurnStartedAt: &started},
			want: true,
		},
		{
			name: "turn still running",
			game: model.Game{CurrentSeat: 2, TurnTime: 60, TurnStartedAt: &started},
			want: false,
		},
		{
			name: "game never started",
			game: model.Game{CurrentSeat: 0, TurnTime: 20, TurnStartedAt: nil},
			want: false,
		},
		{
			name: "started but no clock recorded",
			game: model.Game{CurrentSeat: 1, TurnTime: 20, TurnStartedAt: nil},
			want: false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, turnExpired(&tc.game, now))
		})
	}
}
