package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/decred/slog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Kritagya123611/OUTLAND-Effect-and-Cause-sub000/config"
	"github.com/Kritagya123611/OUTLAND-Effect-and-Cause-sub000/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "outland: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return err
	}

	backend := slog.NewBackend(os.Stdout)
	log := backend.Logger("MAIN")
	srvrLog := backend.Logger("SRVR")
	gameLog := backend.Logger("GAME")
	for _, l := range []slog.Logger{log, srvrLog, gameLog} {
		l.SetLevel(cfg.LogLevel)
	}

	log.Infof("Starting OUTLAND arena server on port %s (fog of war: %v)", cfg.Port, cfg.FogOfWar)

	gameServer := server.NewServer(server.Config{
		Log:            srvrLog,
		GameLog:        gameLog,
		FogOfWar:       cfg.FogOfWar,
		MsgRate:        rate.Limit(cfg.MsgRate), // 0 means unlimited
		MsgBurst:       cfg.MsgBurst,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	mux := http.NewServeMux()

	// WebSocket endpoint
	mux.HandleFunc("/ws", gameServer.HandleWebSocket)

	// Arena stats endpoint
	mux.HandleFunc("/api/stats", gameServer.HandleStats)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return gameServer.Run(gctx)
	})

	g.Go(func() error {
		log.Infof("Server running at http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Infof("Shutting down server...")

		// Create a context with timeout for graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Server shutdown error: %v", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Infof("Server stopped")
	return nil
}
