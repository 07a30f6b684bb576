package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"goban/internal/coord"
	"goban/internal/domain/game"
	"goban/internal/engine"
	"goban/internal/errors"
	"goban/internal/statuses"
	"goban/internal/usecase/selfplay"
)

type GameStore interface {
	SaveGame(ctx context.Context, g game.Game) error
	GetGame(ctx context.Context, id string) (game.Game, error)
	ArchiveGame(ctx context.Context, g game.Game) error
}

type Defaults struct {
	BoardSize int
	Komi      float64
}

type GameUseCase struct {
	store    GameStore
	log      *zap.SugaredLogger
	defaults Defaults
	locks    sync.Map // game id -> *sync.Mutex
	now      func() time.Time
	newBot   func() selfplay.Policy
	onMove   func(game.Game, game.Move)
}

func NewGameUseCase(store GameStore, log *zap.SugaredLogger, defaults Defaults) *GameUseCase {
	return &GameUseCase{
		store:    store,
		log:      log,
		defaults: defaults,
		now:      time.Now,
		newBot: func() selfplay.Policy {
			return selfplay.NewRandomPolicy(time.Now().UnixNano())
		},
	}
}

// OnMove registers fn to be called after every accepted move. It runs while
// the game is still locked, so calls for one game arrive in move order.
func (g *GameUseCase) OnMove(fn func(game.Game, game.Move)) {
	g.onMove = fn
}

func (g *GameUseCase) CreateGame(ctx context.Context, req game.CreateGameRequest) (game.Game, error) {
	newGame, _, err := g.newRecord(req)
	if err != nil {
		return game.Game{}, err
	}
	if err := g.store.SaveGame(ctx, newGame); err != nil {
		g.log.Errorf("failed to save new game: %v", err)
		return game.Game{}, fmt.Errorf("%w: %v", errors.ErrCreateGameFailed, err)
	}

	g.log.Infow("game created", "id", newGame.ID, "size", newGame.BoardSize, "komi", newGame.Komi)
	return newGame, nil
}

func (g *GameUseCase) newRecord(req game.CreateGameRequest) (game.Game, engine.GameState, error) {
	size := req.BoardSize
	if size == 0 {
		size = g.defaults.BoardSize
	}
	komi := g.defaults.Komi
	if req.Komi != nil {
		komi = *req.Komi
	}

	state, err := engine.NewGame(size, engine.WithKomi(komi))
	if err != nil {
		return game.Game{}, engine.GameState{}, err
	}

	return game.Game{
		ID:          uuid.New().String(),
		CreatedAt:   g.now(),
		Status:      statuses.StatusActive,
		BoardSize:   size,
		Komi:        komi,
		PlayerBlack: req.PlayerBlack,
		PlayerWhite: req.PlayerWhite,
		Moves:       []game.Move{},
		State:       state.Snapshot(),
	}, state, nil
}

func (g *GameUseCase) GetGame(ctx context.Context, id string) (game.Game, error) {
	return g.store.GetGame(ctx, id)
}

// PlayMove applies a coordinate ("dd" style or "pass") for the side to move.
func (g *GameUseCase) PlayMove(ctx context.Context, id string, coordinates string) (game.Game, game.Move, error) {
	return g.play(ctx, id, func(s engine.GameState) (engine.Move, error) {
		return coord.Parse(coordinates, s.Size())
	})
}

func (g *GameUseCase) Pass(ctx context.Context, id string) (game.Game, game.Move, error) {
	return g.PlayMove(ctx, id, coord.PassString)
}

// PlayBotMove lets the random policy move for the side to move.
func (g *GameUseCase) PlayBotMove(ctx context.Context, id string) (game.Game, game.Move, error) {
	bot := g.newBot()
	return g.play(ctx, id, func(s engine.GameState) (engine.Move, error) {
		return bot.Choose(s), nil
	})
}

func (g *GameUseCase) play(ctx context.Context, id string, choose func(engine.GameState) (engine.Move, error)) (game.Game, game.Move, error) {
	unlock := g.lock(id)
	defer unlock()

	play, err := g.store.GetGame(ctx, id)
	if err != nil {
		return game.Game{}, game.Move{}, err
	}
	if play.Status == statuses.StatusCompleted {
		return game.Game{}, game.Move{}, errors.ErrGameFinished
	}

	state, err := engine.FromSnapshot(play.State)
	if err != nil {
		g.log.Errorf("game %s has a corrupt state: %v", id, err)
		return game.Game{}, game.Move{}, err
	}

	m, err := choose(state)
	if err != nil {
		return game.Game{}, game.Move{}, err
	}
	mover := state.ToMove()
	next, err := state.Step(m)
	if err != nil {
		g.log.Debugw("move rejected", "id", id, "move", coord.Format(m), "reason", err)
		return game.Game{}, game.Move{}, err
	}

	move := game.Move{Color: sgfColor(mover), Coordinates: coord.Format(m)}
	play.Moves = append(play.Moves, move)
	play.State = next.Snapshot()

	if next.IsTerminal() {
		if err := g.finish(ctx, &play, next); err != nil {
			return game.Game{}, game.Move{}, err
		}
		// archived games are read-only, later callers only need a fresh lock
		g.locks.Delete(id)
	} else if err := g.store.SaveGame(ctx, play); err != nil {
		g.log.Errorf("failed to save game %s: %v", id, err)
		return game.Game{}, game.Move{}, err
	}

	if g.onMove != nil {
		g.onMove(play, move)
	}
	return play, move, nil
}

func (g *GameUseCase) finish(ctx context.Context, play *game.Game, state engine.GameState) error {
	sc, err := state.Score()
	if err != nil {
		return err
	}
	finishedAt := g.now()
	play.Status = statuses.StatusCompleted
	play.FinishedAt = &finishedAt
	play.Result = resultFromScore(sc)

	if err := g.store.ArchiveGame(ctx, *play); err != nil {
		g.log.Errorf("failed to archive game %s: %v", play.ID, err)
		return err
	}
	g.log.Infow("game finished", "id", play.ID, "black", sc.Black, "white", sc.White, "winner", play.Result.Winner)
	return nil
}

// LegalMoves lists the coordinates the side to move may play, pass last.
func (g *GameUseCase) LegalMoves(ctx context.Context, id string) ([]string, error) {
	play, err := g.store.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if play.Status == statuses.StatusCompleted {
		return []string{}, nil
	}
	state, err := engine.FromSnapshot(play.State)
	if err != nil {
		return nil, err
	}
	moves := state.LegalMoves()
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = coord.Format(m)
	}
	return out, nil
}

// GetScore fails with engine.ErrNotTerminal until both players have passed.
func (g *GameUseCase) GetScore(ctx context.Context, id string) (engine.Score, error) {
	play, err := g.store.GetGame(ctx, id)
	if err != nil {
		return engine.Score{}, err
	}
	state, err := engine.FromSnapshot(play.State)
	if err != nil {
		return engine.Score{}, err
	}
	return state.Score()
}

func (g *GameUseCase) lock(id string) func() {
	mu, _ := g.locks.LoadOrStore(id, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func sgfColor(c engine.Color) string {
	if c == engine.White {
		return "W"
	}
	return "B"
}

func resultFromScore(sc engine.Score) *game.Result {
	res := &game.Result{Black: sc.Black, White: sc.White, Winner: "draw"}
	switch sc.Winner() {
	case engine.Black:
		res.Winner = engine.Black.String()
	case engine.White:
		res.Winner = engine.White.String()
	}
	return res
}
