package repository

import (
	"context"
	stderrors "errors"
	"testing"

	"goban/internal/domain/game"
	"goban/internal/errors"
)

func TestGameMapStorage(t *testing.T) {
	ctx := context.Background()
	s := NewGameMapStorage()

	if _, err := s.GetGame(ctx, "missing"); !stderrors.Is(err, errors.ErrGameNotFound) {
		t.Fatalf("error = %v, want ErrGameNotFound", err)
	}

	g := game.Game{ID: "g1", BoardSize: 9, Moves: []game.Move{{Color: "B", Coordinates: "ee"}}}
	if err := s.SaveGame(ctx, g); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	g.Moves[0].Coordinates = "aa"

	got, err := s.GetGame(ctx, "g1")
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if got.Moves[0].Coordinates != "ee" {
		t.Fatalf("stored record aliased the caller's slice")
	}

	if err := s.ArchiveGame(ctx, got); err != nil {
		t.Fatalf("ArchiveGame: %v", err)
	}
	if s.Archived() != 1 {
		t.Fatalf("archived = %d, want 1", s.Archived())
	}
	if _, err := s.GetGame(ctx, "g1"); err != nil {
		t.Fatalf("archived game not readable: %v", err)
	}
}
