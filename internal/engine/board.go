package engine

import "strings"

type Color int8

const (
	Empty Color = iota
	Black
	White
)

func (c Color) Opponent() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return Empty
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "empty"
}

// Symbol is the one-character form used by Board.String and snapshots.
func (c Color) Symbol() byte {
	switch c {
	case Black:
		return 'X'
	case White:
		return 'O'
	}
	return '.'
}

func colorFromSymbol(b byte) (Color, bool) {
	switch b {
	case 'X':
		return Black, true
	case 'O':
		return White, true
	case '.':
		return Empty, true
	}
	return Empty, false
}

// Position is a 0-indexed (row, column) point.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is an immutable N×N grid. Every update returns a fresh copy, so a
// Board value may be shared freely between game states and goroutines.
type Board struct {
	size  int
	cells []Color
}

func NewBoard(size int) Board {
	return Board{size: size, cells: make([]Color, size*size)}
}

func (b Board) Size() int {
	return b.size
}

func (b Board) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < b.size && p.Col >= 0 && p.Col < b.size
}

func (b Board) index(p Position) int {
	return p.Row*b.size + p.Col
}

// At returns the color at p. p must be on the board.
func (b Board) At(p Position) Color {
	if !b.InBounds(p) {
		panic("engine: position off the board")
	}
	return b.cells[b.index(p)]
}

// Count returns how many cells hold c.
func (b Board) Count(c Color) int {
	n := 0
	for _, cell := range b.cells {
		if cell == c {
			n++
		}
	}
	return n
}

func (b Board) Equal(o Board) bool {
	if b.size != o.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

func (b Board) with(p Position, c Color) Board {
	cells := make([]Color, len(b.cells))
	copy(cells, b.cells)
	cells[b.index(p)] = c
	return Board{size: b.size, cells: cells}
}

// clear removes stones from a board that the caller already owns.
func (b Board) clear(stones []Position) {
	for _, p := range stones {
		b.cells[b.index(p)] = Empty
	}
}

// Neighbors returns the orthogonal neighbours of p that are on the board.
func (b Board) Neighbors(p Position) []Position {
	return b.neighbors(p)
}

func (b Board) neighbors(p Position) []Position {
	out := make([]Position, 0, 4)
	for _, d := range [4]Position{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		n := Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
		if b.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// Rows renders each row with X for black, O for white and . for empty.
func (b Board) Rows() []string {
	rows := make([]string, b.size)
	line := make([]byte, b.size)
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			line[c] = b.cells[r*b.size+c].Symbol()
		}
		rows[r] = string(line)
	}
	return rows
}

func (b Board) String() string {
	return strings.Join(b.Rows(), "\n")
}

// ParseBoard is the inverse of Rows.
func ParseBoard(rows []string) (Board, error) {
	size := len(rows)
	b := NewBoard(size)
	for r, row := range rows {
		if len(row) != size {
			return Board{}, ErrInvalidSnapshot
		}
		for c := 0; c < size; c++ {
			color, ok := colorFromSymbol(row[c])
			if !ok {
				return Board{}, ErrInvalidSnapshot
			}
			b.cells[r*size+c] = color
		}
	}
	return b, nil
}
