package selfplay

import (
	"context"
	"fmt"

	"goban/internal/engine"
)

type Result struct {
	Final engine.GameState
	Score engine.Score
	Moves int
	// Truncated is set when the move cap stopped the game before two passes.
	Truncated bool
}

// MaxMoves is the default playout cap: twice the number of points.
func MaxMoves(size int) int {
	return 2 * size * size
}

// Playout plays from s until two passes or maxMoves moves. A truncated game
// is scored by area as it stands, komi included.
func Playout(ctx context.Context, s engine.GameState, p Policy, maxMoves int) (Result, error) {
	moves := 0
	for !s.IsTerminal() && moves < maxMoves {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		m := p.Choose(s)
		next, err := s.Step(m)
		if err != nil {
			return Result{}, fmt.Errorf("policy chose %s: %w", m, err)
		}
		s = next
		moves++
	}

	res := Result{Final: s, Moves: moves}
	if s.IsTerminal() {
		sc, err := s.Score()
		if err != nil {
			return Result{}, err
		}
		res.Score = sc
		return res, nil
	}
	res.Truncated = true
	res.Score = engine.AreaScore(s.Board())
	res.Score.White += s.Komi()
	return res, nil
}
