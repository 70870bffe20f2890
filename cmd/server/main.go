package main

import (
	"context"
	"ctchen222/Grid-Tac-Toe/internal/config"
	"ctchen222/Grid-Tac-Toe/internal/logger"
	"ctchen222/Grid-Tac-Toe/internal/server"
	"ctchen222/Grid-Tac-Toe/internal/session"
	"ctchen222/Grid-Tac-Toe/internal/telemetry"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := config.MustLoad(configPath())

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, conf.Telemetry)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	level, err := logger.ParseLevel(conf.LogLevel)
	if err != nil {
		log.Fatalf("invalid log level: %v", err)
	}
	logger.Init(level)
	if level > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics, err := telemetry.NewGameMetrics(otel.GetMeterProvider())
	if err != nil {
		log.Fatalf("failed to create game metrics: %v", err)
	}

	// Create the session manager and its sweeper
	manager := session.NewManager(session.Options{
		MaxSize:      conf.Board.MaxSize,
		IdleTimeout:  conf.Session.IdleTimeout,
		PingInterval: conf.Session.PingInterval(),
	}, metrics)
	go manager.RunSweeper(ctx, conf.Session.SweepInterval)

	// Create the Gin-based server
	srv := server.NewServer(manager, server.Options{
		WebDir:           conf.WebDir,
		DefaultBoardSize: conf.Board.DefaultSize,
		PongWait:         conf.Session.Heartbeat,
	})

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:    conf.HTTPAddr,
		Handler: srv.Engine(),
	}

	go func() {
		slog.Info("http server started", "http.addr", conf.HTTPAddr, "board.max_size", conf.Board.MaxSize)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop

	slog.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server exiting", "sessions.live", manager.Len())
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.yml"
}
