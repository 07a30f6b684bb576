package engine

// AcceptedMove is a move that passed validation along with its effect.
type AcceptedMove struct {
	Move     Move
	Board    Board
	Captured []Position
	Group    Group
}

// Validate checks m against s without producing a new state. A finished
// game accepts nothing, not even a pass. Cheap checks run first: bounds,
// occupancy, the ko ban, and only then the capture simulation for suicide.
func Validate(s GameState, m Move) (AcceptedMove, error) {
	if s.IsTerminal() {
		return AcceptedMove{}, reject(m, ErrGameOver)
	}
	if m.Pass {
		return AcceptedMove{Move: m, Board: s.board}, nil
	}
	if !s.board.InBounds(m.Pos) {
		return AcceptedMove{}, reject(m, ErrOutOfBounds)
	}
	if s.board.At(m.Pos) != Empty {
		return AcceptedMove{}, reject(m, ErrOccupied)
	}
	if s.hasKo && m.Pos == s.ko {
		return AcceptedMove{}, reject(m, ErrKoViolation)
	}

	res := ApplyCapture(s.board, m.Pos, s.toMove)
	if res.Suicide {
		return AcceptedMove{}, reject(m, ErrSuicide)
	}
	return AcceptedMove{
		Move:     m,
		Board:    res.Board,
		Captured: res.Captured,
		Group:    res.Group,
	}, nil
}
