// Package memory implements the card-pairs matching game as an explicit
// turn state machine with no I/O of its own.
package memory

import (
	"encoding/json"
	"errors"
	"fmt"

	"memory/internal/game"
)

const (
	DefaultRows    = 2
	DefaultColumns = 4
)

// ErrWrongPhase is returned when an operation is called out of turn order.
var ErrWrongPhase = errors.New("operation not allowed in current phase")

// Phase is a state of the turn loop.
type Phase string

const (
	PhaseAwaitingFirstPick  Phase = "awaiting_first_pick"
	PhaseAwaitingSecondPick Phase = "awaiting_second_pick"
	PhaseResolving          Phase = "resolving"
	PhaseSwitchTurn         Phase = "switch_turn"
	PhaseGameOver           Phase = "game_over"
)

// Match is the whole game state for one session.
//
// Invariants: len(Board) == Rows, len(Board[r]) == Columns,
// len(Cards) == Rows*Columns, Score[Player1]+Score[Player2] <= TotalPairs().
type Match struct {
	Rows     int
	Columns  int
	Score    map[game.PlayerID]int
	Turn     game.PlayerID
	GameOver bool
	Board    [][]byte // Hidden or a revealed symbol
	Cards    []byte   // underlying symbols, row-major
	Phase    Phase

	picks [2]game.Coord
}

// TurnResult describes how a turn was resolved.
type TurnResult struct {
	Player  game.PlayerID `json:"player"`
	First   game.Coord    `json:"first"`
	Second  game.Coord    `json:"second"`
	Symbols [2]byte       `json:"symbols"`
	Matched bool          `json:"matched"`
}

// New creates a rows×columns match with a freshly shuffled deck.
func New(rows, columns int, src Source) (*Match, error) {
	if err := checkSize(rows, columns); err != nil {
		return nil, err
	}
	cards, err := NewDeck(rows * columns / 2)
	if err != nil {
		return nil, err
	}
	Shuffle(cards, src)
	return newMatch(rows, columns, cards), nil
}

// NewWithCards creates a match over a fixed card sequence. Every symbol
// in cards must appear exactly twice.
func NewWithCards(rows, columns int, cards []byte) (*Match, error) {
	if err := checkSize(rows, columns); err != nil {
		return nil, err
	}
	if len(cards) != rows*columns {
		return nil, fmt.Errorf("need %d cards for a %dx%d board, got %d", rows*columns, rows, columns, len(cards))
	}
	counts := make(map[byte]int)
	for _, c := range cards {
		if c == Hidden {
			return nil, fmt.Errorf("card symbol %q is reserved", Hidden)
		}
		counts[c]++
	}
	for c, n := range counts {
		if n != 2 {
			return nil, fmt.Errorf("symbol %q appears %d times, want 2", c, n)
		}
	}
	return newMatch(rows, columns, append([]byte(nil), cards...)), nil
}

func checkSize(rows, columns int) error {
	if rows < 1 || columns < 1 {
		return fmt.Errorf("board must be at least 1x1, got %dx%d", rows, columns)
	}
	// bound each side first so rows*columns cannot overflow
	if rows > MaxSide || columns > MaxSide {
		return fmt.Errorf("board sides must be at most %d, got %dx%d", MaxSide, rows, columns)
	}
	if (rows*columns)%2 != 0 {
		return fmt.Errorf("board %dx%d has an odd number of cells", rows, columns)
	}
	if rows*columns/2 > MaxPairs {
		return fmt.Errorf("board %dx%d needs more than %d pairs", rows, columns, MaxPairs)
	}
	return nil
}

func newMatch(rows, columns int, cards []byte) *Match {
	board := make([][]byte, rows)
	for r := range board {
		board[r] = make([]byte, columns)
		for c := range board[r] {
			board[r][c] = Hidden
		}
	}
	return &Match{
		Rows:    rows,
		Columns: columns,
		Score:   map[game.PlayerID]int{game.Player1: 0, game.Player2: 0},
		Turn:    game.Player1,
		Board:   board,
		Cards:   cards,
		Phase:   PhaseAwaitingFirstPick,
	}
}

// TotalPairs is the number of pairs on the board.
func (m *Match) TotalPairs() int {
	return m.Rows * m.Columns / 2
}

// Matched is the number of pairs scored so far.
func (m *Match) Matched() int {
	return m.Score[game.Player1] + m.Score[game.Player2]
}

// CardAt returns the underlying symbol at c.
func (m *Match) CardAt(c game.Coord) byte {
	return m.Cards[c.Row*m.Columns+c.Column]
}

// Reveal turns the card at c face up on the board.
func (m *Match) Reveal(c game.Coord) {
	m.Board[c.Row][c.Column] = m.CardAt(c)
}

// CheckMatch reports whether the visible symbols at a and b are equal.
func (m *Match) CheckMatch(a, b game.Coord) bool {
	return m.Board[a.Row][a.Column] == m.Board[b.Row][b.Column]
}

// Hide turns the cards at a and b face down.
func (m *Match) Hide(a, b game.Coord) {
	m.Board[a.Row][a.Column] = Hidden
	m.Board[b.Row][b.Column] = Hidden
}

// Pick reveals c for the current player. The same coordinate may be
// picked twice in one turn, which always resolves as a match.
func (m *Match) Pick(c game.Coord) error {
	var slot int
	switch m.Phase {
	case PhaseAwaitingFirstPick:
		slot = 0
	case PhaseAwaitingSecondPick:
		slot = 1
	default:
		return fmt.Errorf("pick: %w (%s)", ErrWrongPhase, m.Phase)
	}
	if err := c.CheckBounds(m.Rows, m.Columns); err != nil {
		return err
	}
	m.Reveal(c)
	m.picks[slot] = c
	if slot == 0 {
		m.Phase = PhaseAwaitingSecondPick
	} else {
		m.Phase = PhaseResolving
	}
	return nil
}

// Resolve scores or hides the two picks of the current turn.
func (m *Match) Resolve() (TurnResult, error) {
	if m.Phase != PhaseResolving {
		return TurnResult{}, fmt.Errorf("resolve: %w (%s)", ErrWrongPhase, m.Phase)
	}
	first, second := m.picks[0], m.picks[1]
	res := TurnResult{
		Player:  m.Turn,
		First:   first,
		Second:  second,
		Symbols: [2]byte{m.CardAt(first), m.CardAt(second)},
		Matched: m.CheckMatch(first, second),
	}
	if res.Matched {
		m.Score[m.Turn]++
	} else {
		m.Hide(first, second)
	}
	m.Phase = PhaseSwitchTurn
	return res, nil
}

// SwitchTurn hands play to the other player and detects the end of the game.
func (m *Match) SwitchTurn() error {
	if m.Phase != PhaseSwitchTurn {
		return fmt.Errorf("switch turn: %w (%s)", ErrWrongPhase, m.Phase)
	}
	m.Turn = m.Turn.Other()
	m.GameOver = m.Matched() == m.TotalPairs()
	if m.GameOver {
		m.Phase = PhaseGameOver
	} else {
		m.Phase = PhaseAwaitingFirstPick
	}
	return nil
}

// IsOver reports whether every pair has been found.
func (m *Match) IsOver() bool {
	return m.GameOver
}

// Results ranks the players once the game is over. A tie ranks both first.
func (m *Match) Results() []game.PlayerResult {
	if !m.GameOver {
		return nil
	}
	s1, s2 := m.Score[game.Player1], m.Score[game.Player2]
	r1, r2 := 1, 1
	switch {
	case s1 > s2:
		r2 = 2
	case s2 > s1:
		r1 = 2
	}
	return []game.PlayerResult{
		{PlayerID: game.Player1, Rank: r1, Score: s1},
		{PlayerID: game.Player2, Rank: r2, Score: s2},
	}
}

// Winner returns the player with the higher score, or false on a tie.
func (m *Match) Winner() (game.PlayerID, bool) {
	s1, s2 := m.Score[game.Player1], m.Score[game.Player2]
	switch {
	case s1 > s2:
		return game.Player1, true
	case s2 > s1:
		return game.Player2, true
	}
	return "", false
}

// BoardLines renders the visible board, one space-separated string per row.
func (m *Match) BoardLines() []string {
	lines := make([]string, 0, m.Rows)
	for _, row := range m.Board {
		buf := make([]byte, 0, len(row)*2)
		for i, cell := range row {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = append(buf, cell)
		}
		lines = append(lines, string(buf))
	}
	return lines
}

var validPhases = map[Phase]bool{
	PhaseAwaitingFirstPick:  true,
	PhaseAwaitingSecondPick: true,
	PhaseResolving:          true,
	PhaseSwitchTurn:         true,
	PhaseGameOver:           true,
}

type snapshot struct {
	Rows     int                   `json:"rows"`
	Columns  int                   `json:"columns"`
	Score    map[game.PlayerID]int `json:"score"`
	Turn     game.PlayerID         `json:"turn"`
	GameOver bool                  `json:"gameOver"`
	Board    []string              `json:"board"`
	Cards    string                `json:"cards"`
	Phase    Phase                 `json:"phase"`
	Picks    [2]game.Coord         `json:"picks"`
}

func (m *Match) MarshalJSON() ([]byte, error) {
	board := make([]string, len(m.Board))
	for i, row := range m.Board {
		board[i] = string(row)
	}
	return json.Marshal(snapshot{
		Rows:     m.Rows,
		Columns:  m.Columns,
		Score:    m.Score,
		Turn:     m.Turn,
		GameOver: m.GameOver,
		Board:    board,
		Cards:    string(m.Cards),
		Phase:    m.Phase,
		Picks:    m.picks,
	})
}

func (m *Match) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if err := checkSize(s.Rows, s.Columns); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if len(s.Board) != s.Rows || len(s.Cards) != s.Rows*s.Columns {
		return fmt.Errorf("snapshot dimensions do not match %dx%d", s.Rows, s.Columns)
	}
	board := make([][]byte, s.Rows)
	for i, row := range s.Board {
		if len(row) != s.Columns {
			return fmt.Errorf("snapshot row %d has %d cells, want %d", i, len(row), s.Columns)
		}
		board[i] = []byte(row)
	}
	if s.Turn != game.Player1 && s.Turn != game.Player2 {
		return fmt.Errorf("snapshot turn %q is not a player", s.Turn)
	}
	if !validPhases[s.Phase] {
		return fmt.Errorf("snapshot phase %q is unknown", s.Phase)
	}
	score := map[game.PlayerID]int{game.Player1: 0, game.Player2: 0}
	for p, n := range s.Score {
		if p != game.Player1 && p != game.Player2 {
			return fmt.Errorf("snapshot score for unknown player %q", p)
		}
		if n < 0 {
			return fmt.Errorf("snapshot score for %s is negative", p)
		}
		score[p] = n
	}
	matched := score[game.Player1] + score[game.Player2]
	total := s.Rows * s.Columns / 2
	if matched > total {
		return fmt.Errorf("snapshot scores sum to %d, board has %d pairs", matched, total)
	}
	if s.GameOver != (s.Phase == PhaseGameOver) || (s.GameOver && matched != total) {
		return fmt.Errorf("snapshot game-over flag disagrees with scores or phase")
	}
	for _, c := range s.Picks {
		if err := c.CheckBounds(s.Rows, s.Columns); err != nil {
			return fmt.Errorf("snapshot pick: %w", err)
		}
	}
	*m = Match{
		Rows:     s.Rows,
		Columns:  s.Columns,
		Score:    score,
		Turn:     s.Turn,
		GameOver: s.GameOver,
		Board:    board,
		Cards:    []byte(s.Cards),
		Phase:    s.Phase,
		picks:    s.Picks,
	}
	return nil
}
