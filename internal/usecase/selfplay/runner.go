package selfplay

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"goban/internal/engine"
)

type Config struct {
	Games     int
	BoardSize int
	Komi      float64
	Workers   int
	Seed      int64
	MaxMoves  int
}

type Summary struct {
	Games      int     `json:"games"`
	BlackWins  int     `json:"black_wins"`
	WhiteWins  int     `json:"white_wins"`
	Draws      int     `json:"draws"`
	Truncated  int     `json:"truncated"`
	MeanMargin float64 `json:"mean_margin"`
	StdMargin  float64 `json:"std_margin"`
	MeanMoves  float64 `json:"mean_moves"`
}

// Run plays cfg.Games independent random games in parallel. Game i uses
// seed cfg.Seed+i, so a run is reproducible regardless of scheduling.
func Run(ctx context.Context, cfg Config, log *zap.SugaredLogger) (Summary, error) {
	start, err := engine.NewGame(cfg.BoardSize, engine.WithKomi(cfg.Komi))
	if err != nil {
		return Summary{}, err
	}
	maxMoves := cfg.MaxMoves
	if maxMoves <= 0 {
		maxMoves = MaxMoves(cfg.BoardSize)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, cfg.Games)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < cfg.Games; i++ {
		i := i // per-iteration copy; go directive is 1.21
		eg.Go(func() error {
			res, err := Playout(ctx, start, NewRandomPolicy(cfg.Seed+int64(i)), maxMoves)
			if err != nil {
				return err
			}
			results[i] = res
			log.Debugw("playout finished", "game", i, "moves", res.Moves, "margin", res.Score.Margin())
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Summary{}, err
	}
	return summarize(results), nil
}

func summarize(results []Result) Summary {
	sum := Summary{Games: len(results)}
	if len(results) == 0 {
		return sum
	}
	margins := make([]float64, len(results))
	moves := make([]float64, len(results))
	for i, r := range results {
		margins[i] = r.Score.Margin()
		moves[i] = float64(r.Moves)
		switch r.Score.Winner() {
		case engine.Black:
			sum.BlackWins++
		case engine.White:
			sum.WhiteWins++
		default:
			sum.Draws++
		}
		if r.Truncated {
			sum.Truncated++
		}
	}
	sum.MeanMargin, sum.StdMargin = stat.MeanStdDev(margins, nil)
	sum.MeanMoves = stat.Mean(moves, nil)
	return sum
}
