package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kalviumcommunity/kalviumcommunity-Shashank-Venkatesh-s74-FocusTroop/internal/app"
	httpx "github.com/kalviumcommunity/kalviumcommunity-Shashank-Venkatesh-s74-FocusTroop/internal/http"
	"github.com/kalviumcommunity/kalviumcommunity-Shashank-Venkatesh-s74-FocusTroop/internal/room"
	"github.com/kalviumcommunity/kalviumcommunity-Shashank-Venkatesh-s74-FocusTroop/internal/store"
	"github.com/kalviumcommunity/kalviumcommunity-Shashank-Venkatesh-s74-FocusTroop/internal/ws"
)

func main() {
	// Load local .env (dev only)
	_ = godotenv.Load()

	cfg := app.LoadConfig()
	logger := app.NewLogger(cfg.Env)

	// Cancel on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Postgres connection + migrations (users + timer preferences only;
	// room state is purely in-memory and dies with the process)
	pg, err := store.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("postgres connect", "err", err)
		log.Fatal(err)
	}
	defer pg.Close()
	if err := store.RunMigrations(ctx, pg, logger); err != nil {
		logger.Error("migrations", "err", err)
		log.Fatal(err)
	}

	// Room core: one registry, one event router, one dispatch loop
	registry := room.NewRegistry()
	router := room.NewRouter(logger, registry)
	hub := ws.NewHub(logger, router)
	go hub.Run(ctx)

	// HTTP + WS routes
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.NewRouter(cfg, logger, hub, pg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("server.listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server.crash", "err", err)
			cancel()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	logger.Info("server.shutdown.start")

	// shutdown
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	_ = srv.Shutdown(shutdownCtx)

	logger.Info("server.shutdown.complete")
	_ = os.Stdout.Sync()
}
