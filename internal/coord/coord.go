// Package coord converts between two-letter board coordinates and engine
// moves. The first letter is the column, the second the row, both counted
// from 'a'. This is also the SGF point format.
package coord

import (
	"fmt"
	"strings"

	"goban/internal/engine"
	"goban/internal/errors"
)

const PassString = "pass"

// Parse reads a coordinate such as "dd" or "pass". Letters beyond the
// board size are reported as engine.ErrOutOfBounds.
func Parse(s string, size int) (engine.Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == PassString {
		return engine.Pass(), nil
	}
	if len(s) != 2 || !isLetter(s[0]) || !isLetter(s[1]) {
		return engine.Move{}, fmt.Errorf("%w: %q", errors.ErrBadCoordinate, s)
	}
	col := int(s[0] - 'a')
	row := int(s[1] - 'a')
	if col >= size || row >= size {
		return engine.Move{}, fmt.Errorf("%q: %w", s, engine.ErrOutOfBounds)
	}
	return engine.Place(row, col), nil
}

// Format is the inverse of Parse.
func Format(m engine.Move) string {
	if m.Pass {
		return PassString
	}
	return string([]byte{byte('a' + m.Pos.Col), byte('a' + m.Pos.Row)})
}

func isLetter(b byte) bool {
	return b >= 'a' && b <= 'z'
}
