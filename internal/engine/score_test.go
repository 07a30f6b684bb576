package engine

import (
	"errors"
	"testing"
)

func TestScoreEmptyBoard(t *testing.T) {
	s, _ := NewGame(9)
	s = mustStep(t, s, Pass())
	s = mustStep(t, s, Pass())
	sc, err := s.Score()
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if sc != (Score{}) {
		t.Fatalf("score = %+v, want zero", sc)
	}
	if sc.Winner() != Empty {
		t.Fatalf("empty board has a winner")
	}
}

func TestScoreNotTerminal(t *testing.T) {
	s, _ := NewGame(9)
	if _, err := s.Score(); !errors.Is(err, ErrNotTerminal) {
		t.Fatalf("error = %v, want ErrNotTerminal", err)
	}
}

func TestAreaScore(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want Score
	}{
		{
			name: "split with dame column",
			rows: []string{".X.O.", ".X.O.", ".X.O.", ".X.O.", ".X.O."},
			want: Score{Black: 10, White: 10},
		},
		{
			name: "black owns everything",
			rows: []string{"...", ".X.", "..."},
			want: Score{Black: 9},
		},
		{
			name: "eyes",
			rows: []string{".X.O", "XX.O", "..OO", "OOO."},
			want: Score{Black: 4, White: 8},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseBoard(tt.rows)
			if err != nil {
				t.Fatalf("ParseBoard: %v", err)
			}
			if got := AreaScore(b); got != tt.want {
				t.Fatalf("AreaScore = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScoreIncludesKomi(t *testing.T) {
	s, _ := NewGame(5, WithKomi(0.5))
	s = mustStep(t, s, Place(2, 2))
	s = mustStep(t, s, Pass())
	s = mustStep(t, s, Pass())
	sc, err := s.Score()
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if sc.Black != 25 || sc.White != 0.5 {
		t.Fatalf("score = %+v, want black 25 white 0.5", sc)
	}
	if sc.Winner() != Black || sc.Margin() != 24.5 {
		t.Fatalf("winner %v margin %v", sc.Winner(), sc.Margin())
	}
}
