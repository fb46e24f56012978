package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerOther(t *testing.T) {
	assert.Equal(t, Player2, Player1.Other())
	assert.Equal(t, Player1, Player2.Other())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Player 1", Player1.DisplayName())
	assert.Equal(t, "Player 2", Player2.DisplayName())
}

func TestCheckBounds(t *testing.T) {
	cases := []struct {
		c  Coord
		ok bool
	}{
		{Coord{0, 0}, true},
		{Coord{1, 3}, true},
		{Coord{2, 0}, false},
		{Coord{0, 4}, false},
		{Coord{-1, 0}, false},
		{Coord{0, -1}, false},
	}
	for _, tc := range cases {
		err := tc.c.CheckBounds(2, 4)
		if tc.ok {
			assert.NoErrorf(t, err, "%s", tc.c)
		} else {
			assert.ErrorIsf(t, err, ErrInvalidInput, "%s", tc.c)
		}
	}
}
