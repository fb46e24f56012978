package memory

import (
	"fmt"
	"math/rand/v2"
)

// Hidden marks a face-down cell on the visible board.
const Hidden byte = '*'

// symbols is the card alphabet; a board may use at most len(symbols) pairs.
const symbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// MaxPairs is the largest number of pairs a board can hold.
const MaxPairs = len(symbols)

// MaxSide is the longest row or column any playable board can have.
const MaxSide = 2 * MaxPairs

// Source supplies uniformly distributed integers in [0, n).
type Source interface {
	Intn(n int) int
}

type defaultSource struct{}

// DefaultSource returns a Source backed by math/rand/v2.
func DefaultSource() Source { return defaultSource{} }

func (defaultSource) Intn(n int) int { return rand.IntN(n) }

// NewDeck returns pairs distinct symbols, each present twice, in sorted order.
func NewDeck(pairs int) ([]byte, error) {
	if pairs < 1 || pairs > MaxPairs {
		return nil, fmt.Errorf("deck needs 1-%d pairs, got %d", MaxPairs, pairs)
	}
	cards := make([]byte, 0, pairs*2)
	for i := 0; i < pairs; i++ {
		cards = append(cards, symbols[i], symbols[i])
	}
	return cards, nil
}

// Shuffle permutes cards in place with Fisher-Yates. The permutation is
// uniform whenever src is.
func Shuffle(cards []byte, src Source) {
	for i := len(cards) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
