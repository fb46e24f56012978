package memory

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// identitySource always picks the last index, leaving the deck untouched.
type identitySource struct{}

func (identitySource) Intn(n int) int { return n - 1 }

type seededSource struct{ r *rand.Rand }

func newSeededSource(seed uint64) seededSource {
	return seededSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s seededSource) Intn(n int) int { return s.r.IntN(n) }

func TestNewDeck(t *testing.T) {
	cards, err := NewDeck(4)
	require.NoError(t, err)
	assert.Equal(t, "AABBCCDD", string(cards))
}

func TestNewDeckBounds(t *testing.T) {
	_, err := NewDeck(0)
	assert.Error(t, err)
	_, err = NewDeck(MaxPairs + 1)
	assert.Error(t, err)
	cards, err := NewDeck(MaxPairs)
	require.NoError(t, err)
	assert.Len(t, cards, MaxPairs*2)
	assert.NotContains(t, string(cards), string(Hidden))
}

func TestShuffleIdentitySource(t *testing.T) {
	cards := []byte("AABBCCDD")
	Shuffle(cards, identitySource{})
	assert.Equal(t, "AABBCCDD", string(cards))
}

func TestShuffleIsPermutation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pairs := rapid.IntRange(1, MaxPairs).Draw(t, "pairs")
		seed := rapid.Uint64().Draw(t, "seed")
		cards, err := NewDeck(pairs)
		require.NoError(t, err)
		Shuffle(cards, newSeededSource(seed))

		counts := make(map[byte]int)
		for _, c := range cards {
			counts[c]++
		}
		assert.Len(t, counts, pairs)
		for sym, n := range counts {
			assert.Equalf(t, 2, n, "symbol %q", sym)
		}
	})
}

func TestShuffleUniform(t *testing.T) {
	const trials = 24000
	src := newSeededSource(42)
	seen := make(map[string]int)
	for i := 0; i < trials; i++ {
		cards := []byte("abcd")
		Shuffle(cards, src)
		seen[string(cards)]++
	}
	require.Len(t, seen, 24, "every permutation of 4 cards should occur")
	for perm, n := range seen {
		assert.InDeltaf(t, trials/24, n, 200, "permutation %s", perm)
	}
}
