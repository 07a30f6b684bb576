package engine

import "testing"

func stateFromRows(t *testing.T, toMove string, rows ...string) GameState {
	t.Helper()
	s, err := FromSnapshot(Snapshot{Size: len(rows), Rows: rows, ToMove: toMove})
	if err != nil {
		t.Fatalf("bad test position: %v", err)
	}
	return s
}

func mustStep(t *testing.T, s GameState, m Move) GameState {
	t.Helper()
	next, err := s.Step(m)
	if err != nil {
		t.Fatalf("step %s: unexpected error: %v", m, err)
	}
	return next
}

func posSet(ps []Position) map[Position]bool {
	out := make(map[Position]bool, len(ps))
	for _, p := range ps {
		out[p] = true
	}
	return out
}
