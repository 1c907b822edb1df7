// The fleetlog stub server: a small stand-in for the maintenance portal's
// usage API, for local development of the worksheet client.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetlog/internal/app/server/api"
	"fleetlog/internal/app/server/config"
	"fleetlog/internal/infrastructure/storage/sqlite"
	"fleetlog/internal/utils/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	storage, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	srv := &http.Server{
		Addr:              cfg.Server.RunAddress,
		Handler:           api.New(cfg, storage, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("stub server listening", "address", cfg.Server.RunAddress, "db", cfg.DB.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
