package board

import (
	"math/bits"
	"strings"

	"github.com/desdemona-ai/iago/move"
)

// Side is one of the two players, also used loosely for "whose discs".
type Side uint8

const (
	Black Side = iota
	White
)

func (s Side) Other() Side {
	if s == Black {
		return White
	}
	return Black
}

func (s Side) String() string {
	if s == Black {
		return "black"
	}
	return "white"
}

const dim = 8

// Position is a snapshot of disc placement on the 8x8 grid. Squares are
// numbered row-major: bit row*8+col, with a1 at bit 0 and h8 at bit 63.
// The engine never mutates a position it is exploring; hypothetical moves
// are applied to copies.
type Position struct {
	black uint64
	taken uint64
}

// StartingPosition sets up the four center discs. Black moves first.
func StartingPosition() *Position {
	p := &Position{}
	p.black = bit(3, 4) | bit(4, 3) // e4, d5
	p.taken = p.black | bit(3, 3) | bit(4, 4)
	return p
}

// FromBits builds a position directly from its bit patterns. Every black
// bit must also be set in taken.
func FromBits(black, taken uint64) *Position {
	return &Position{black: black, taken: taken | black}
}

func bit(row, col int) uint64 {
	return 1 << uint(row*dim+col)
}

func onBoard(row, col int) bool {
	return row >= 0 && row < dim && col >= 0 && col < dim
}

// Copy returns a deep, independent clone.
func (p *Position) Copy() *Position {
	return &Position{black: p.black, taken: p.taken}
}

func (p *Position) occupied(row, col int) bool {
	return p.taken&bit(row, col) != 0
}

func (p *Position) owned(s Side, row, col int) bool {
	if !p.occupied(row, col) {
		return false
	}
	isBlack := p.black&bit(row, col) != 0
	return isBlack == (s == Black)
}

// Bits returns the bit pattern of the given side's discs.
func (p *Position) Bits(s Side) uint64 {
	if s == Black {
		return p.black
	}
	return p.taken &^ p.black
}

// Occupied returns the bit pattern of all occupied squares.
func (p *Position) Occupied() uint64 {
	return p.taken
}

// PieceCount counts the discs belonging to a side.
func (p *Position) PieceCount(s Side) int {
	return bits.OnesCount64(p.Bits(s))
}

// legal reports whether s may place a disc on (row, col): the square is
// empty and at least one straight line of opposing discs ends in an own
// disc.
func (p *Position) legal(s Side, row, col int) bool {
	if p.occupied(row, col) {
		return false
	}
	other := s.Other()
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dy == 0 && dx == 0 {
				continue
			}
			r, c := row+dy, col+dx
			if !onBoard(r, c) || !p.owned(other, r, c) {
				continue
			}
			for onBoard(r, c) && p.owned(other, r, c) {
				r += dy
				c += dx
			}
			if onBoard(r, c) && p.owned(s, r, c) {
				return true
			}
		}
	}
	return false
}

// LegalMoves enumerates all legal placements for s in row-major square
// order. An empty result means s must pass.
func (p *Position) LegalMoves(s Side) []*move.Move {
	var moves []*move.Move
	for row := 0; row < dim; row++ {
		for col := 0; col < dim; col++ {
			if p.legal(s, row, col) {
				moves = append(moves, move.New(row, col))
			}
		}
	}
	return moves
}

// HasLegalMove is LegalMoves without materializing the move list.
func (p *Position) HasLegalMove(s Side) bool {
	for row := 0; row < dim; row++ {
		for col := 0; col < dim; col++ {
			if p.legal(s, row, col) {
				return true
			}
		}
	}
	return false
}

// ApplyMove places m for s and flips every bracketed line, mutating the
// position in place. The move is assumed legal. A nil move is a pass and
// leaves the position unchanged.
func (p *Position) ApplyMove(m *move.Move, s Side) {
	if m == nil {
		return
	}
	row, col := m.Row(), m.Col()
	other := s.Other()
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dy == 0 && dx == 0 {
				continue
			}
			r, c := row+dy, col+dx
			for onBoard(r, c) && p.owned(other, r, c) {
				r += dy
				c += dx
			}
			if !onBoard(r, c) || !p.owned(s, r, c) {
				continue
			}
			r, c = row+dy, col+dx
			for p.owned(other, r, c) {
				p.black ^= bit(r, c)
				r += dy
				c += dx
			}
		}
	}
	p.taken |= bit(row, col)
	if s == Black {
		p.black |= bit(row, col)
	} else {
		p.black &^= bit(row, col)
	}
}

// GameOver reports whether neither side has a legal move.
func (p *Position) GameOver() bool {
	return !p.HasLegalMove(Black) && !p.HasLegalMove(White)
}

// ToDisplayText returns a human-readable rendering of the board.
func (p *Position) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for row := 0; row < dim; row++ {
		sb.WriteByte(byte('1' + row))
		for col := 0; col < dim; col++ {
			sb.WriteByte(' ')
			switch {
			case p.owned(Black, row, col):
				sb.WriteByte('X')
			case p.owned(White, row, col):
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
