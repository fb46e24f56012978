// Package console abstracts the line-oriented terminal the game is played on.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrClosed is returned by Prompt once input is exhausted.
var ErrClosed = errors.New("console input closed")

// Console is the I/O surface of a game session.
type Console interface {
	// Prompt writes text without a trailing newline and returns the next
	// input line with surrounding whitespace removed.
	Prompt(text string) (string, error)
	WriteLine(text string) error
}

// Stream is a Console over a reader and a writer, typically stdin/stdout.
type Stream struct {
	in  *bufio.Reader
	out *bufio.Writer
}

// NewStream wraps r and w.
func NewStream(r io.Reader, w io.Writer) *Stream {
	return &Stream{
		in:  bufio.NewReader(r),
		out: bufio.NewWriter(w),
	}
}

func (s *Stream) Prompt(text string) (string, error) {
	if _, err := s.out.WriteString(text); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	if err := s.out.Flush(); err != nil {
		return "", fmt.Errorf("flush prompt: %w", err)
	}
	// lines of any length are returned whole
	line, err := s.in.ReadString('\n')
	if err == io.EOF {
		if line == "" {
			return "", ErrClosed
		}
	} else if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (s *Stream) WriteLine(text string) error {
	if _, err := s.out.WriteString(text + "\n"); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return s.out.Flush()
}
