package engine

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"math"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"goban/internal/coord"
	"goban/internal/engine"
)

const serviceName = "goban.engine.Engine"

// EngineServer is a stateless rules service: every call carries the state it
// works on as snapshot JSON and returns the new one.
//
//	NewGame    {board_size, komi}  -> {state}
//	Step       {state, move}       -> {state, terminal, captured}
//	Score      {state}             -> {black, white, winner}
//	LegalMoves {state}             -> {moves}
type EngineServer interface {
	NewGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Step(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Score(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	LegalMoves(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

type EngineService struct {
	log *zap.SugaredLogger
}

func NewEngineService(log *zap.SugaredLogger) *EngineService {
	return &EngineService{log: log}
}

func RegisterEngineServer(s grpc.ServiceRegistrar, srv EngineServer) {
	s.RegisterService(&Engine_ServiceDesc, srv)
}

func (e *EngineService) NewGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	fields := in.GetFields()
	size := fields["board_size"].GetNumberValue()
	if size != math.Trunc(size) || math.Abs(size) > engine.MaxBoardSize {
		return nil, status.Errorf(codes.InvalidArgument, "board_size %v is not a board size", size)
	}
	komi := fields["komi"].GetNumberValue()

	state, err := engine.NewGame(int(size), engine.WithKomi(komi))
	if err != nil {
		return nil, toStatus(err)
	}
	return stateReply(state, nil)
}

func (e *EngineService) Step(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	state, err := stateArg(in)
	if err != nil {
		return nil, err
	}
	m, err := coord.Parse(in.GetFields()["move"].GetStringValue(), state.Size())
	if err != nil {
		return nil, toStatus(err)
	}

	before := state.Captures()
	next, err := state.Step(m)
	if err != nil {
		e.log.Debugw("move rejected", "move", coord.Format(m), "reason", err)
		return nil, toStatus(err)
	}
	after := next.Captures()
	captured := after.Black - before.Black + after.White - before.White

	return stateReply(next, map[string]any{
		"terminal": next.IsTerminal(),
		"captured": captured,
	})
}

func (e *EngineService) Score(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	state, err := stateArg(in)
	if err != nil {
		return nil, err
	}
	sc, err := state.Score()
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{
		"black":  sc.Black,
		"white":  sc.White,
		"winner": sc.Winner().String(),
	})
}

func (e *EngineService) LegalMoves(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	state, err := stateArg(in)
	if err != nil {
		return nil, err
	}
	legal := state.LegalMoves()
	moves := make([]any, len(legal))
	for i, m := range legal {
		moves[i] = coord.Format(m)
	}
	return structpb.NewStruct(map[string]any{"moves": moves})
}

func stateArg(in *structpb.Struct) (engine.GameState, error) {
	var state engine.GameState
	raw := in.GetFields()["state"].GetStringValue()
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return engine.GameState{}, status.Errorf(codes.InvalidArgument, "bad state: %v", err)
	}
	return state, nil
}

func stateReply(state engine.GameState, extra map[string]any) (*structpb.Struct, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	fields := map[string]any{"state": string(data)}
	for k, v := range extra {
		fields[k] = v
	}
	return structpb.NewStruct(fields)
}

func toStatus(err error) error {
	switch {
	case stderrors.Is(err, engine.ErrNotTerminal), stderrors.Is(err, engine.ErrGameOver):
		return status.Error(codes.FailedPrecondition, err.Error())
	case err != nil:
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}
