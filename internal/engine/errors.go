package engine

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds     = errors.New("position is outside the board")
	ErrOccupied        = errors.New("point is already occupied")
	ErrKoViolation     = errors.New("move retakes a ko immediately")
	ErrSuicide         = errors.New("move would leave its own group without liberties")
	ErrInvalidSize     = errors.New("unsupported board size")
	ErrNotTerminal     = errors.New("game is not finished")
	ErrGameOver        = errors.New("game is already over")
	ErrInvalidSnapshot = errors.New("invalid game snapshot")
)

// MoveError reports why a move was rejected. It unwraps to one of the
// sentinel errors above.
type MoveError struct {
	Move Move
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("illegal move %s: %v", e.Move, e.Err)
}

func (e *MoveError) Unwrap() error {
	return e.Err
}

func reject(m Move, err error) error {
	return &MoveError{Move: m, Err: err}
}
