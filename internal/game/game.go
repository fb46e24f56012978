package game

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for a coordinate that is not two integers
// or lies outside the board.
var ErrInvalidInput = errors.New("invalid input")

// PlayerID identifies one of the two seats at the table.
type PlayerID string

const (
	Player1 PlayerID = "Player1"
	Player2 PlayerID = "Player2"
)

// Players lists the seats in turn order.
var Players = [2]PlayerID{Player1, Player2}

// Other returns the opponent of p.
func (p PlayerID) Other() PlayerID {
	if p == Player1 {
		return Player2
	}
	return Player1
}

// DisplayName is the spaced form used in the final summary ("Player 1").
func (p PlayerID) DisplayName() string {
	switch p {
	case Player1:
		return "Player 1"
	case Player2:
		return "Player 2"
	}
	return string(p)
}

// Coord is a zero-based board position.
type Coord struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Column)
}

// CheckBounds reports ErrInvalidInput when c falls outside a rows×columns board.
func (c Coord) CheckBounds(rows, columns int) error {
	if c.Row < 0 || c.Row >= rows || c.Column < 0 || c.Column >= columns {
		return fmt.Errorf("%w: %s outside %dx%d board", ErrInvalidInput, c, rows, columns)
	}
	return nil
}

// PlayerResult holds the outcome for one player.
type PlayerResult struct {
	PlayerID PlayerID `json:"playerId"`
	Rank     int      `json:"rank"` // 1 = first place, shared on a tie
	Score    int      `json:"score"`
}
