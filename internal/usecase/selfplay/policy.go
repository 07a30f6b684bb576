package selfplay

import (
	"math/rand"

	"goban/internal/engine"
)

// Policy picks the next move for the side to move.
type Policy interface {
	Choose(s engine.GameState) engine.Move
}

// RandomPolicy plays a uniformly random legal placement that does not fill
// one of its own single-point eyes, and passes when none is left. It is not
// safe for concurrent use; give each playout its own.
type RandomPolicy struct {
	rng *rand.Rand
}

func NewRandomPolicy(seed int64) *RandomPolicy {
	return &RandomPolicy{rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPolicy) Choose(s engine.GameState) engine.Move {
	b := s.Board()
	me := s.ToMove()

	var candidates []engine.Move
	for _, m := range s.LegalMoves() {
		if m.Pass || isEye(b, m.Pos, me) {
			continue
		}
		candidates = append(candidates, m)
	}
	if len(candidates) == 0 {
		return engine.Pass()
	}
	return candidates[p.rng.Intn(len(candidates))]
}

// isEye reports whether every neighbour of p is a stone of color c.
func isEye(b engine.Board, p engine.Position, c engine.Color) bool {
	for _, n := range b.Neighbors(p) {
		if b.At(n) != c {
			return false
		}
	}
	return true
}
