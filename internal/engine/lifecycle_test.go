package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikitusuik/thefox/internal/model"
)

func TestStartCells(t *testing.T) {
	for _, seats := range []int{2, 3, 4} {
		cells := startCells(seats)
		require.Len(t, cells, seats)
		seen := map[[2]int]bool{}
		for _, c := range cells {
			assert.Contains(t, []int{9, 10}, c[0])
			assert.Contains(t, []int{9, 10}, c[1])
			assert.False(t, seen[c], "start cell handed out twice")
			seen[c] = true
		}
	}
}

func TestSeatColors(t *testing.T) {
	assert.Equal(t, "red", seatColors[1])
	assert.Equal(t, "green", seatColors[model.MaxSeats])
}

func TestDistributeCluesCoversEveryClue(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	suspects := []uint64{101, 102, 103, 104, 105, 106, 107, 108}
	clues := make([]uint64, model.CluesPerGame)
	for i := range clues {
		clues[i] = uint64(200 + i)
	}

	got := distributeClues(suspects, clues, rng.Intn)

	placed := map[uint64]bool{}
	for _, cs := range got {
		for _, c := range cs {
			placed[c] = true
		}
	}
	for _, c := range clues {
		assert.True(t, placed[c], "clue %d never assigned", c)
	}
}

func TestDistributeCluesExactlyThreeDistinctPerSuspect(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		suspects := []uint64{1, 2, 3, 4, 5, 6, 7, 8}
		clues := make([]uint64, model.CluesPerGame)
		for i := range clues {
			clues[i] = uint64(50 + i)
		}

		got := distributeClues(suspects, clues, rng.Intn)

		require.Len(t, got, len(suspects))
		for sus, cs := range got {
			require.Len(t, cs, model.CluesPerSus, "suspect %d", sus)
			distinct := map[uint64]bool{}
			for _, c := range cs {
				distinct[c] = true
			}
			assert.Len(t, distinct, model.CluesPerSus, "suspect %d got a duplicate clue", sus)
		}
	}
}
