package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minaorangina/boss/config"
	"github.com/minaorangina/boss/logging"
	"github.com/minaorangina/boss/server"
	"github.com/minaorangina/boss/store"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.DevLogging)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rooms := store.NewInMemoryRoomStore(store.Opts{Rand: cfg.Rand(), Logger: logger})
	defer rooms.Close()
	go rooms.RunSweeper(ctx, cfg.RoomSweepInterval)

	s := server.NewServer(server.ServerOpts{
		Addr:           cfg.Addr,
		Store:          rooms,
		Logger:         logger,
		AllowedOrigins: cfg.Origins(),
		MaxMessageSize: cfg.MaxMessageBytes,
		AccessLog:      os.Stdout,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
