package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("hidden")
	require.NoError(t, err)
	assert.Equal(t, StatusHidden, s)
	assert.False(t, s.Opened())

	s, err = ParseStatus("opened")
	require.NoError(t, err)
	assert.True(t, s.Opened())

	_, err = ParseStatus("visible")
	assert.Error(t, err)
	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestParseActionKind(t *testing.T) {
	k, err := ParseActionKind("clue")
	require.NoError(t, err)
	assert.Equal(t, ActionClue, k)

	k, err = ParseActionKind("suspect")
	require.NoError(t, err)
	assert.Equal(t, ActionSuspect, k)

	_, err = ParseActionKind("accuse")
	assert.Error(t, err)
}
