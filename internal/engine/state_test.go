package engine

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
)

var koRows = []string{
	".........",
	"..XO.....",
	".XO.O....",
	"..XO.....",
	".........",
	".........",
	".........",
	".........",
	".........",
}

func TestNewGame(t *testing.T) {
	s, err := NewGame(9)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if s.ToMove() != Black || s.PassStreak() != 0 || s.MoveCount() != 0 {
		t.Fatalf("unexpected initial state: %+v", s.Snapshot())
	}
	if _, ok := s.KoPoint(); ok {
		t.Fatalf("new game has a ko point")
	}
	if s.Board().Count(Empty) != 81 {
		t.Fatalf("new board is not empty")
	}
}

func TestNewGameInvalidSize(t *testing.T) {
	for _, size := range []int{-1, 0, 1, MaxBoardSize + 1} {
		if _, err := NewGame(size); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("NewGame(%d) error = %v, want ErrInvalidSize", size, err)
		}
	}
	if _, err := NewGame(MinBoardSize); err != nil {
		t.Errorf("NewGame(%d) error = %v", MinBoardSize, err)
	}
}

func TestTwoQuietMoves(t *testing.T) {
	s, _ := NewGame(9)
	s = mustStep(t, s, Place(5, 4))
	if s.ToMove() != White {
		t.Fatalf("to move = %v, want white", s.ToMove())
	}
	s = mustStep(t, s, Place(3, 4))
	if s.ToMove() != Black {
		t.Fatalf("to move = %v, want black", s.ToMove())
	}
	if s.Board().At(Position{5, 4}) != Black || s.Board().At(Position{3, 4}) != White {
		t.Fatalf("stones missing:\n%s", s.Board())
	}
	if s.Captures() != (Captures{}) {
		t.Fatalf("captures = %+v, want none", s.Captures())
	}
	if _, ok := s.KoPoint(); ok {
		t.Fatalf("unexpected ko point")
	}
	if s.MoveCount() != 2 {
		t.Fatalf("move count = %d, want 2", s.MoveCount())
	}
}

func TestSurroundedStoneIsCaptured(t *testing.T) {
	s, _ := NewGame(9)
	moves := []Move{
		Place(3, 4), // B
		Place(4, 4), // W, the victim
		Place(4, 3), // B
		Place(0, 0), // W
		Place(4, 5), // B
		Place(0, 8), // W
		Place(5, 4), // B captures
	}
	for i, m := range moves {
		s = mustStep(t, s, m)
		if i < len(moves)-1 && s.Captures().Black != 0 {
			t.Fatalf("capture happened early at move %d", i)
		}
	}
	if s.Board().At(Position{4, 4}) != Empty {
		t.Fatalf("white stone not removed:\n%s", s.Board())
	}
	if s.Captures().Black != 1 || s.Captures().White != 0 {
		t.Fatalf("captures = %+v, want black 1", s.Captures())
	}
}

func TestSuicideIsRejected(t *testing.T) {
	s := stateFromRows(t, "black",
		".........",
		".........",
		".........",
		"....O....",
		"...O.O...",
		"....O....",
		".........",
		".........",
		".........",
	)
	next, err := s.Step(Place(4, 4))
	if !errors.Is(err, ErrSuicide) {
		t.Fatalf("error = %v, want ErrSuicide", err)
	}
	var me *MoveError
	if !errors.As(err, &me) || me.Move != Place(4, 4) {
		t.Fatalf("error does not carry the move: %v", err)
	}
	if next.Size() != 0 {
		t.Fatalf("a rejected move produced a state")
	}
	if s.Board().At(Position{4, 4}) != Empty || s.MoveCount() != 0 {
		t.Fatalf("original state changed")
	}
}

func TestRejectionOrder(t *testing.T) {
	s := stateWithKo(t)

	tests := []struct {
		name string
		move Move
		want error
	}{
		{"below board", Place(9, 0), ErrOutOfBounds},
		{"negative", Place(0, -1), ErrOutOfBounds},
		{"occupied", Place(1, 2), ErrOccupied},
		{"ko", Place(2, 2), ErrKoViolation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Step(tt.move); !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

// stateWithKo plays black's ko capture on the koRows position.
func stateWithKo(t *testing.T) GameState {
	t.Helper()
	s := stateFromRows(t, "black", koRows...)
	return mustStep(t, s, Place(2, 3))
}

func TestKo(t *testing.T) {
	s := stateWithKo(t)

	if s.Board().At(Position{2, 2}) != Empty || s.Captures().Black != 1 {
		t.Fatalf("ko capture did not happen:\n%s", s.Board())
	}
	ko, ok := s.KoPoint()
	if !ok || ko != (Position{2, 2}) {
		t.Fatalf("ko point = %v %v, want (2,2)", ko, ok)
	}

	if _, err := s.Step(Place(2, 2)); !errors.Is(err, ErrKoViolation) {
		t.Fatalf("immediate retake error = %v, want ErrKoViolation", err)
	}

	s = mustStep(t, s, Place(8, 8)) // white elsewhere
	if _, ok := s.KoPoint(); ok {
		t.Fatalf("ko point survived an unrelated move")
	}
	s = mustStep(t, s, Place(8, 0)) // black elsewhere
	s = mustStep(t, s, Place(2, 2)) // white retakes

	if s.Board().At(Position{2, 3}) != Empty || s.Captures().White != 1 {
		t.Fatalf("retake did not capture:\n%s", s.Board())
	}
	ko, ok = s.KoPoint()
	if !ok || ko != (Position{2, 3}) {
		t.Fatalf("ko point after retake = %v %v, want (2,3)", ko, ok)
	}
}

func TestPassClearsKo(t *testing.T) {
	s := stateFromRows(t, "black", koRows...)
	s = mustStep(t, s, Place(2, 3))
	s = mustStep(t, s, Pass())
	if _, ok := s.KoPoint(); ok {
		t.Fatalf("pass kept the ko point")
	}
}

func TestMultiStoneCaptureIsNotKo(t *testing.T) {
	s := stateFromRows(t, "black",
		"XO.OX",
		"XXXXX",
		".....",
		".....",
		".....",
	)
	s = mustStep(t, s, Place(0, 2))
	if _, ok := s.KoPoint(); ok {
		t.Fatalf("capturing two stones must not set a ko point")
	}
	if s.Captures().Black != 2 {
		t.Fatalf("captures = %+v, want black 2", s.Captures())
	}
}

func TestPassStreakAndTerminal(t *testing.T) {
	s, _ := NewGame(9)
	s = mustStep(t, s, Pass())
	if s.PassStreak() != 1 || s.IsTerminal() {
		t.Fatalf("one pass: streak %d terminal %v", s.PassStreak(), s.IsTerminal())
	}
	s = mustStep(t, s, Place(4, 4))
	if s.PassStreak() != 0 {
		t.Fatalf("placement did not reset pass streak")
	}
	s = mustStep(t, s, Pass())
	s = mustStep(t, s, Pass())
	if !s.IsTerminal() {
		t.Fatalf("two passes should end the game")
	}
	if s.Board().At(Position{4, 4}) != White {
		t.Fatalf("passes changed the board")
	}
}

func TestFinishedGameAcceptsNoMoves(t *testing.T) {
	s, _ := NewGame(9)
	s = mustStep(t, s, Place(4, 4))
	s = mustStep(t, s, Pass())
	s = mustStep(t, s, Pass())

	for _, m := range []Move{Pass(), Place(0, 0), Place(4, 4), Place(9, 9)} {
		if _, err := s.Step(m); !errors.Is(err, ErrGameOver) {
			t.Fatalf("step %s after the end: error = %v, want ErrGameOver", m, err)
		}
	}
	if got := s.LegalMoves(); len(got) != 0 {
		t.Fatalf("finished game has legal moves %v", got)
	}

	var decoded GameState
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("finished state does not decode: %v", err)
	}
	if !decoded.IsTerminal() || !decoded.Equal(s) {
		t.Fatalf("decoded state differs: %+v", decoded.Snapshot())
	}
}

func TestBranchingDoesNotAlias(t *testing.T) {
	root, _ := NewGame(9)
	root = mustStep(t, root, Place(4, 4))

	a := mustStep(t, root, Place(0, 0))
	b := mustStep(t, root, Place(8, 8))

	if root.Board().At(Position{0, 0}) != Empty || root.Board().At(Position{8, 8}) != Empty {
		t.Fatalf("branches leaked into the root")
	}
	if a.Board().At(Position{8, 8}) != Empty || b.Board().At(Position{0, 0}) != Empty {
		t.Fatalf("branches leaked into each other")
	}
}

func TestLegalMoves(t *testing.T) {
	s := stateFromRows(t, "black",
		".O",
		"O.",
	)
	moves := s.LegalMoves()
	// (0,0) and (1,1) are both suicide for black; only pass remains.
	if len(moves) != 1 || !moves[0].Pass {
		t.Fatalf("legal moves = %v, want only pass", moves)
	}

	s2, _ := NewGame(3)
	if got := len(s2.LegalMoves()); got != 10 {
		t.Fatalf("legal moves on empty 3x3 = %d, want 10", got)
	}
}

func TestRandomPlayoutKeepsStoneAccounting(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s, _ := NewGame(7)
	for i := 0; i < 300 && !s.IsTerminal(); i++ {
		moves := s.LegalMoves()
		m := moves[rng.Intn(len(moves))]

		prevStones := s.Board().Count(Black) + s.Board().Count(White)
		prevCaptures := s.Captures().Black + s.Captures().White

		next := mustStep(t, s, m)
		stones := next.Board().Count(Black) + next.Board().Count(White)
		captured := next.Captures().Black + next.Captures().White - prevCaptures

		if m.Pass {
			if stones != prevStones || captured != 0 {
				t.Fatalf("pass changed the board")
			}
		} else if stones != prevStones+1-captured {
			t.Fatalf("move %d: stones %d -> %d with %d captured", i, prevStones, stones, captured)
		}
		if ko, ok := next.KoPoint(); ok && next.Board().At(ko) != Empty {
			t.Fatalf("ko point %v is occupied", ko)
		}
		s = next
	}
}
