package errors

import "errors"

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameFinished     = errors.New("game is already finished")
	ErrCreateGameFailed = errors.New("create game failed")
	ErrBadCoordinate    = errors.New("malformed coordinate")
	ErrInvalidSGF       = errors.New("invalid sgf record")
	ErrStore            = errors.New("game store failure")
	ErrInternal         = errors.New("internal error")
)
