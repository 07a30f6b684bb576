package game

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"goban/internal/domain/game"
	"goban/internal/engine"
	"goban/internal/errors"
)

func TestParseSGFVariations(t *testing.T) {
	record, err := ParseSGF(`(;FF[4]SZ[9]C[a \] bracket];B[ee](;W[ef];B[dd])(;W[aa]))`)
	if err != nil {
		t.Fatalf("ParseSGF: %v", err)
	}
	root := record.Root
	if len(root.Nodes) != 2 || len(root.Children) != 2 {
		t.Fatalf("got %d nodes %d children", len(root.Nodes), len(root.Children))
	}
	if c := first(root.Nodes[0], "C"); c != "a ] bracket" {
		t.Fatalf("comment = %q", c)
	}

	line := mainLine(root)
	if len(line) != 4 || first(line[2], "W") != "ef" {
		t.Fatalf("main line = %+v", line)
	}
}

func TestParseSGFErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"(;SZ[9]",
		"(;SZ[9",
		"(;SZ;B[aa])",
		"(;sz[9])",
	} {
		if _, err := ParseSGF(text); !stderrors.Is(err, errors.ErrInvalidSGF) {
			t.Errorf("ParseSGF(%q) error = %v, want ErrInvalidSGF", text, err)
		}
	}
}

func TestSerializeSGFEscapes(t *testing.T) {
	record := PrepareSgfFile(game.Game{BoardSize: 9, PlayerBlack: `x]y\z`})
	out := SerializeSGF(&record)
	if !strings.Contains(out, `PB[x\]y\\z]`) {
		t.Fatalf("player name not escaped: %s", out)
	}
	back, err := ParseSGF(out)
	if err != nil {
		t.Fatalf("ParseSGF: %v", err)
	}
	if got := first(back.Root.Nodes[0], "PB"); got != `x]y\z` {
		t.Fatalf("round trip PB = %q", got)
	}
}

func TestImportGameReplaysKo(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)

	// black takes a ko at dc, white immediately retakes at cc
	ko := "(;SZ[9]KM[6.5];B[cb];W[db];B[bc];W[cc];B[cd];W[dd];B[ia];W[ec];B[dc];W[cc])"
	if _, err := uc.ImportGame(ctx, ko); !stderrors.Is(err, engine.ErrKoViolation) {
		t.Fatalf("error = %v, want ErrKoViolation", err)
	}

	legal := strings.TrimSuffix(ko, ";W[cc])") + ";W[ii];B[aa];W[cc])"
	g, err := uc.ImportGame(ctx, legal)
	if err != nil {
		t.Fatalf("ImportGame: %v", err)
	}
	if g.Komi != 6.5 || g.State.Captures.Black != 1 || g.State.Captures.White != 1 {
		t.Fatalf("unexpected import state: komi %v captures %+v", g.Komi, g.State.Captures)
	}
}

func TestImportFinishedGame(t *testing.T) {
	ctx := context.Background()
	uc, store := newUseCase(t)
	g, err := uc.ImportGame(ctx, "(;SZ[5];B[cc];W[];B[tt])")
	if err != nil {
		t.Fatalf("ImportGame: %v", err)
	}
	if g.Result == nil || g.Result.Winner != "black" || store.Archived() != 1 {
		t.Fatalf("finished import not archived: %+v", g)
	}

	out, err := uc.ExportSGF(ctx, g.ID)
	if err != nil {
		t.Fatalf("ExportSGF: %v", err)
	}
	if !strings.Contains(out, "RE[B+") {
		t.Fatalf("result missing from %s", out)
	}
}

func TestImportGameWithSetupStones(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUseCase(t)

	// two handicap stones, white moves first
	g, err := uc.ImportGame(ctx, "(;SZ[9]KM[0.5]AB[cc][gg];W[ee];B[ce])")
	if err != nil {
		t.Fatalf("ImportGame: %v", err)
	}
	state, err := engine.FromSnapshot(g.State)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	b := state.Board()
	if b.Count(engine.Black) != 3 || b.Count(engine.White) != 1 {
		t.Fatalf("board after import:\n%s", b)
	}
	if b.At(engine.Position{Row: 2, Col: 2}) != engine.Black || b.At(engine.Position{Row: 6, Col: 6}) != engine.Black {
		t.Fatalf("handicap stones missing:\n%s", b)
	}
	if state.ToMove() != engine.White || state.MoveCount() != 2 {
		t.Fatalf("to move %v after %d moves", state.ToMove(), state.MoveCount())
	}
	if g.Setup == nil || g.Setup.ToMove != "W" || len(g.Setup.Black) != 2 {
		t.Fatalf("setup = %+v", g.Setup)
	}

	out, err := uc.ExportSGF(ctx, g.ID)
	if err != nil {
		t.Fatalf("ExportSGF: %v", err)
	}
	if !strings.Contains(out, "AB[cc][gg]") || !strings.Contains(out, "PL[W]") {
		t.Fatalf("setup missing from %s", out)
	}
	again, err := uc.ImportGame(ctx, out)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	reState, err := engine.FromSnapshot(again.State)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	if !reState.Equal(state) {
		t.Fatalf("re-imported state differs:\n%s\n%s", reState.Board(), state.Board())
	}
}

func TestImportGameCompressedSetup(t *testing.T) {
	uc, _ := newUseCase(t)
	g, err := uc.ImportGame(context.Background(), "(;SZ[9]AW[aa:bb]PL[B];B[dd])")
	if err != nil {
		t.Fatalf("ImportGame: %v", err)
	}
	if got := strings.Count(strings.Join(g.State.Rows, ""), "O"); got != 4 {
		t.Fatalf("white stones = %d, want 4: %v", got, g.State.Rows)
	}
}

func TestImportGameRejectsBadSetup(t *testing.T) {
	uc, store := newUseCase(t)
	tests := []struct {
		name string
		sgf  string
		also error
	}{
		{"move onto setup stone", "(;SZ[9]AB[dd][ee];B[dd])", engine.ErrOccupied},
		{"setup after root", "(;SZ[9];B[aa];AW[bb])", nil},
		{"erase", "(;SZ[9]AE[aa];B[bb])", nil},
		{"same point twice", "(;SZ[9]AB[cc]AW[cc])", nil},
		{"off the board", "(;SZ[9]AB[jj])", nil},
		{"no liberties", "(;SZ[9]AB[ab][ba]AW[aa])", nil},
		{"bad player", "(;SZ[9]AB[cc]PL[X])", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.ImportGame(context.Background(), tt.sgf)
			if !stderrors.Is(err, errors.ErrInvalidSGF) {
				t.Fatalf("error = %v, want ErrInvalidSGF", err)
			}
			if tt.also != nil && !stderrors.Is(err, tt.also) {
				t.Fatalf("error = %v, want it to wrap %v", err, tt.also)
			}
		})
	}
	if n := store.Archived(); n != 0 {
		t.Fatalf("rejected records were archived: %d", n)
	}
}
