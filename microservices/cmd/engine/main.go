package main

import (
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"goban/internal/bootstrap"
	"goban/microservices/engine"
)

func main() {
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		bootstrap.NewLogger(false).Error("Failed to setup configuration", zap.Error(err))
		return
	}
	logger := bootstrap.NewLogger(cfg.LogDevelopment)
	defer logger.Sync()

	lis, err := net.Listen("tcp", cfg.GrpcPort)
	if err != nil {
		logger.Fatalw("cant listen port", "port", cfg.GrpcPort, "error", err)
	}

	server := grpc.NewServer()
	engine.RegisterEngineServer(server, engine.NewEngineService(logger))

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		<-sigs
		logger.Info("Received shutdown signal")
		server.GracefulStop()
	}()

	logger.Infof("starting engine server at %s", cfg.GrpcPort)
	if err := server.Serve(lis); err != nil {
		logger.Fatal("grpc server stopped", zap.Error(err))
	}
}
