package session

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"memory/internal/console"
	"memory/internal/game"
	"memory/internal/game/memory"
	"memory/internal/storage"
)

// Status represents the session lifecycle.
type Status string

const (
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Journal records the progress of a session. *storage.Store implements it.
type Journal interface {
	CreateSession(code string, rows, columns int) error
	UpdateSessionStatus(code, status string) error
	RecordTurn(t storage.TurnRow) error
	SaveMatchState(sessionCode, stateJSON string) error
}

// Session plays one match on a console.
type Session struct {
	ID     string
	Match  *memory.Match
	Status Status
	Turns  int

	console console.Console
	journal Journal
	logger  *zap.Logger
}

// New creates a session around an initialized match. Journal failures are
// logged and never stop play.
func New(m *memory.Match, con console.Console, journal Journal, logger *zap.Logger) *Session {
	id := uuid.NewString()
	s := &Session{
		ID:      id,
		Match:   m,
		Status:  StatusPlaying,
		console: con,
		journal: journal,
		logger:  logger.With(zap.String("session", id)),
	}
	if err := journal.CreateSession(s.ID, m.Rows, m.Columns); err != nil {
		s.logger.Warn("journal session", zap.Error(err))
	}
	s.logger.Info("session started", zap.Int("rows", m.Rows), zap.Int("columns", m.Columns))
	return s
}

// Run plays turns until every pair is found, then prints the summary.
// It only fails when the console does.
func (s *Session) Run() error {
	for !s.Match.IsOver() {
		if err := s.PlayTurn(); err != nil {
			return err
		}
	}
	return s.Summary()
}

// PlayTurn drives the state machine through one player's turn.
func (s *Session) PlayTurn() error {
	m := s.Match
	for {
		s.logger.Debug("phase", zap.String("phase", string(m.Phase)), zap.String("turn", string(m.Turn)))
		switch m.Phase {
		case memory.PhaseAwaitingFirstPick, memory.PhaseAwaitingSecondPick:
			if err := s.showBoard(); err != nil {
				return err
			}
			c, err := s.readCoordinate(m.Turn)
			if err != nil {
				return err
			}
			if err := m.Pick(c); err != nil {
				return err
			}
			if m.Phase == memory.PhaseResolving {
				if err := s.showBoard(); err != nil {
					return err
				}
			}
		case memory.PhaseResolving:
			res, err := m.Resolve()
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("%s did not find a match", res.Player)
			if res.Matched {
				msg = fmt.Sprintf("%s found a match!", res.Player)
			}
			if err := s.console.WriteLine(msg); err != nil {
				return err
			}
			s.Turns++
			s.record(res)
		case memory.PhaseSwitchTurn:
			if err := m.SwitchTurn(); err != nil {
				return err
			}
			s.snapshot()
			return nil
		case memory.PhaseGameOver:
			return nil
		default:
			return fmt.Errorf("unknown phase %q", m.Phase)
		}
	}
}

// Summary prints the final scores and the winner or tie line.
func (s *Session) Summary() error {
	m := s.Match
	lines := []string{
		"Game over",
		fmt.Sprintf("Final scores: %s: %d | %s: %d",
			game.Player1.DisplayName(), m.Score[game.Player1],
			game.Player2.DisplayName(), m.Score[game.Player2]),
	}
	if winner, ok := m.Winner(); ok {
		lines = append(lines, winner.DisplayName()+" won")
	} else {
		lines = append(lines, "It's a tie!")
	}
	for _, l := range lines {
		if err := s.console.WriteLine(l); err != nil {
			return err
		}
	}
	s.Status = StatusFinished
	if err := s.journal.UpdateSessionStatus(s.ID, string(s.Status)); err != nil {
		s.logger.Warn("journal status", zap.Error(err))
	}
	s.logger.Info("session finished",
		zap.Int("turns", s.Turns),
		zap.Any("results", m.Results()))
	return nil
}

func (s *Session) showBoard() error {
	for _, line := range s.Match.BoardLines() {
		if err := s.console.WriteLine(line); err != nil {
			return err
		}
	}
	return s.console.WriteLine("")
}

// readCoordinate prompts until the player enters an on-board position.
func (s *Session) readCoordinate(player game.PlayerID) (game.Coord, error) {
	rows, columns := s.Match.Rows, s.Match.Columns
	for {
		c, err := s.promptCoordinate(player, rows, columns)
		if errors.Is(err, game.ErrInvalidInput) {
			s.logger.Debug("rejected input", zap.String("player", string(player)), zap.Error(err))
			if err := s.console.WriteLine("Invalid input. Please enter integers only."); err != nil {
				return game.Coord{}, err
			}
			continue
		}
		if err != nil {
			return game.Coord{}, fmt.Errorf("read coordinate: %w", err)
		}
		if err := c.CheckBounds(rows, columns); err != nil {
			s.logger.Debug("rejected input", zap.String("player", string(player)), zap.Error(err))
			msg := fmt.Sprintf("Invalid choice. Row must be between 0 and %d, column must be between 0 and %d.", rows-1, columns-1)
			if err := s.console.WriteLine(msg); err != nil {
				return game.Coord{}, err
			}
			continue
		}
		return c, nil
	}
}

func (s *Session) promptCoordinate(player game.PlayerID, rows, columns int) (game.Coord, error) {
	row, err := s.promptInt(fmt.Sprintf("%s, choose a row (0-%d): ", player, rows-1))
	if err != nil {
		return game.Coord{}, err
	}
	col, err := s.promptInt(fmt.Sprintf("%s, choose a column (0-%d): ", player, columns-1))
	if err != nil {
		return game.Coord{}, err
	}
	return game.Coord{Row: row, Column: col}, nil
}

func (s *Session) promptInt(text string) (int, error) {
	line, err := s.console.Prompt(text)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(line)
	if errors.Is(err, strconv.ErrRange) {
		// n is clamped to the int limits, which no board reaches
		return n, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", game.ErrInvalidInput, line)
	}
	return n, nil
}

func (s *Session) record(res memory.TurnResult) {
	err := s.journal.RecordTurn(storage.TurnRow{
		SessionCode:  s.ID,
		Number:       s.Turns,
		Player:       string(res.Player),
		FirstRow:     res.First.Row,
		FirstColumn:  res.First.Column,
		SecondRow:    res.Second.Row,
		SecondColumn: res.Second.Column,
		Symbols:      string(res.Symbols[:]),
		Matched:      res.Matched,
	})
	if err != nil {
		s.logger.Warn("journal turn", zap.Int("turn", s.Turns), zap.Error(err))
	}
	s.logger.Debug("turn resolved",
		zap.String("player", string(res.Player)),
		zap.Stringer("first", res.First),
		zap.Stringer("second", res.Second),
		zap.Bool("matched", res.Matched))
}

func (s *Session) snapshot() {
	data, err := s.Match.MarshalJSON()
	if err != nil {
		s.logger.Warn("marshal match state", zap.Error(err))
		return
	}
	if err := s.journal.SaveMatchState(s.ID, string(data)); err != nil {
		s.logger.Warn("journal match state", zap.Error(err))
	}
}
