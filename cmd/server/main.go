package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	estateweb "github.com/MegaGrindStone/estate-analyst-web"
	"github.com/MegaGrindStone/estate-analyst-web/internal/handlers"
	"github.com/MegaGrindStone/estate-analyst-web/internal/services"
)

const errLoggerKey = "err"

func main() {
	cfg, logger, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	store, closeStore, err := newStore(cfg)
	if err != nil {
		logger.Error("Failed to open store", slog.String(errLoggerKey, err.Error()))
		os.Exit(1)
	}

	analyst := services.NewAnalyst(cfg.APIBaseURL, nil, logger)

	m, err := handlers.NewMain(analyst, store, logger)
	if err != nil {
		panic(err)
	}

	// Serve static files
	staticFS, err := estateweb.Static()
	if err != nil {
		panic(err)
	}
	fileServer := http.FileServer(http.FS(staticFS))

	// Create custom mux
	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", fileServer))
	mux.HandleFunc("GET /{$}", m.HandleHome)
	mux.HandleFunc("/query", m.HandleQuery)
	mux.HandleFunc("/session/end", m.HandleEndSession)
	mux.HandleFunc("GET /sse/messages", m.HandleSSE)
	mux.HandleFunc("GET /messages/latest", m.HandleLatestMessage)
	mux.HandleFunc("GET /areas", m.HandleAreas)
	mux.HandleFunc("GET /health", m.HandleHealth)
	mux.HandleFunc("GET /chart", m.HandleChart)

	// Create custom server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv.RegisterOnShutdown(func() {
		if err := m.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown sse server", slog.String(errLoggerKey, err.Error()))
		}
	})

	// Channel to listen for errors coming from the listener
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		logger.Info("Server starting",
			slog.String("port", cfg.Port),
			slog.String("apiBaseURL", analyst.BaseURL()))
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt/terminate signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Blocking select waiting for either interrupt or server error
	select {
	case err := <-serverErrors:
		logger.Error("Server error", slog.String(errLoggerKey, err.Error()))

	case sig := <-shutdown:
		logger.Info("Start shutdown", slog.String("signal", sig.String()))

		// Create context with timeout for shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Gracefully shutdown the server
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Graceful shutdown failed", slog.String(errLoggerKey, err.Error()))
			if err := srv.Close(); err != nil {
				logger.Error("Forcing server close", slog.String(errLoggerKey, err.Error()))
			}
		}
	}
	if err := closeStore(); err != nil {
		logger.Error("Failed to close store", slog.String(errLoggerKey, err.Error()))
	}
}
