package move

import (
	"fmt"
	"strings"
)

// Move is the placement of a disc on a single board square. A nil *Move is
// the pass sentinel; it is what the engine returns when the side to move has
// no legal placement, and callers must not treat it as a failure.
type Move struct {
	row int
	col int
}

// New creates a move for the given zero-indexed row and column.
func New(row, col int) *Move {
	return &Move{row: row, col: col}
}

func (m *Move) Row() int {
	return m.row
}

func (m *Move) Col() int {
	return m.col
}

// Equals compares two moves by coordinates. A nil move only equals another
// nil move.
func (m *Move) Equals(o *Move) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.row == o.row && m.col == o.col
}

// String renders the move in algebraic-style coordinates ("d3"); a nil move
// renders as "pass".
func (m *Move) String() string {
	if m == nil {
		return "pass"
	}
	return fmt.Sprintf("%c%d", 'a'+rune(m.col), m.row+1)
}

// FromString parses coordinates like "d3" (file a-h, rank 1-8). The string
// "pass" parses to the nil sentinel.
func FromString(s string) (*Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "pass" {
		return nil, nil
	}
	if len(s) != 2 {
		return nil, fmt.Errorf("badly formatted move: %v", s)
	}
	col := int(s[0] - 'a')
	row := int(s[1] - '1')
	if col < 0 || col > 7 || row < 0 || row > 7 {
		return nil, fmt.Errorf("move out of bounds: %v", s)
	}
	return New(row, col), nil
}
