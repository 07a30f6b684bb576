package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"goban/internal/adapters"
	"goban/internal/bootstrap"
	gameDelivery "goban/internal/delivery/game"
	ownMiddleware "goban/internal/middleware"
	"goban/internal/repository"
	gameUsecase "goban/internal/usecase/game"
)

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func (d *dataBaseAdapters) Close(ctx context.Context) {
	if d == nil {
		return
	}
	d.mongoAdapter.Close(ctx)
	d.redisAdapter.Close(ctx)
}

func main() {
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		bootstrap.NewLogger(false).Error("Failed to setup configuration", zap.Error(err))
		return
	}
	logger := bootstrap.NewLogger(cfg.LogDevelopment)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	store, databaseAdapters := initGameStore(ctx, logger, *cfg)
	defer databaseAdapters.Close(context.Background())

	r := chi.NewRouter()
	if cfg.IsLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	gameDelivery.NewGameHandler(*cfg, logger, store).Routes(r)

	server := &http.Server{Addr: cfg.ServerPort, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warnw("server shutdown", "error", err)
		}
	}()

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func initGameStore(ctx context.Context, log *zap.SugaredLogger, cfg bootstrap.Config) (gameUsecase.GameStore, *dataBaseAdapters) {
	if cfg.Storage != bootstrap.StorageRedis {
		log.Info("using in-memory game storage")
		return repository.NewGameMapStorage(), nil
	}

	mongoAdapter := adapters.NewAdapterMongo(&cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatal("failed to initialize MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(&cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatal("failed to initialize Redis", zap.Error(err))
	}

	log.Info("database adapters initialized")
	store := repository.NewGameRepository(cfg, log, redisAdapter.GetClient(), mongoAdapter.Database)
	return store, &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
