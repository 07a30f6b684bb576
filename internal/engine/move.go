package engine

import "fmt"

// Move is either a pass or a stone placement at Pos.
type Move struct {
	Pass bool
	Pos  Position
}

func Pass() Move {
	return Move{Pass: true}
}

func Place(row, col int) Move {
	return Move{Pos: Position{Row: row, Col: col}}
}

func PlaceAt(p Position) Move {
	return Move{Pos: p}
}

func (m Move) String() string {
	if m.Pass {
		return "pass"
	}
	return fmt.Sprintf("(%d,%d)", m.Pos.Row, m.Pos.Col)
}

// ActionIndex maps a move to a flat index in [0, size*size], where
// size*size is the pass action.
func ActionIndex(m Move, size int) int {
	if m.Pass {
		return size * size
	}
	return m.Pos.Row*size + m.Pos.Col
}

// MoveFromAction is the inverse of ActionIndex. Indices outside the action
// range produce an out-of-bounds placement that Step will reject.
func MoveFromAction(action, size int) Move {
	if action == size*size {
		return Pass()
	}
	if action < 0 || action > size*size {
		return Place(-1, -1)
	}
	return Place(action/size, action%size)
}
