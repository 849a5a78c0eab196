package appbootstrap

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vigilant-console/api"
	"vigilant-console/config"
	"vigilant-console/core/store"
	"vigilant-console/core/utils"
)

const shutdownTimeout = 10 * time.Second

// Run boots the console: config, database, composition, workers, HTTP
// server. It blocks until SIGINT/SIGTERM and shuts everything down in
// reverse order.
func Run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := utils.NewLogger()
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := store.ApplyMigrations(ctx, db, logger); err != nil {
		return err
	}
	runtime, err := composeRuntime(cfg, db, logger)
	if err != nil {
		return err
	}
	server := api.NewServer(cfg, runtime.serverDeps, logger)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	for _, worker := range runtime.workers {
		worker.StartWithContext(ctx)
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Printf("listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, worker := range runtime.workers {
		if err := worker.StopWithContext(shutdownCtx); err != nil {
			logger.Errorf("worker stop: %v", err)
		}
	}
	return httpServer.Shutdown(shutdownCtx)
}
