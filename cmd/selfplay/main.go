package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"goban/internal/bootstrap"
	"goban/internal/usecase/selfplay"
)

func main() {
	flags := pflag.NewFlagSet("selfplay", pflag.ExitOnError)
	flags.Int("games", 100, "number of games to play")
	flags.Int("size", 9, "board size")
	flags.Float64("komi", 7.5, "komi given to white")
	flags.Int("workers", 0, "parallel games, 0 means one per CPU")
	flags.Int64("seed", 1, "seed of the first game")
	flags.Int("max-moves", 0, "move cap per game, 0 means 2*size*size")
	flags.String("config", ".env", "optional .env file")
	flags.Parse(os.Args[1:])

	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg, err := bootstrap.SetupWith(v, v.GetString("config"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	logger := bootstrap.NewLogger(cfg.LogDevelopment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := selfplay.Run(ctx, selfplay.Config{
		Games:     v.GetInt("games"),
		BoardSize: v.GetInt("size"),
		Komi:      v.GetFloat64("komi"),
		Workers:   v.GetInt("workers"),
		Seed:      v.GetInt64("seed"),
		MaxMoves:  v.GetInt("max-moves"),
	}, logger)
	if err != nil {
		logger.Errorw("selfplay failed", "error", err)
		os.Exit(1)
	}

	logger.Infow("selfplay finished",
		"games", summary.Games,
		"black_wins", summary.BlackWins,
		"white_wins", summary.WhiteWins,
		"draws", summary.Draws,
		"truncated", summary.Truncated,
		"mean_margin", summary.MeanMargin,
	)
	json.NewEncoder(os.Stdout).Encode(summary)
}
