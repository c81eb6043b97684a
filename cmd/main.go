/*
Package main is the entry point for the doceasy telehealth backend.

It loads configuration, initializes the global logging system, connects the
document store, wires the signaling relay, starts the HTTP server, and
handles operating system interrupt signals (SIGINT, SIGTERM) for a graceful
shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"doceasy/internal/app/db"
	"doceasy/internal/app/room"
	"doceasy/internal/app/signaling"
	"doceasy/internal/configs"
	"doceasy/internal/handler"
	"doceasy/internal/pkg/auth/jwt"
	"doceasy/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Dur("jwt_expiry", cfg.JWTExpiry).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Persistence: Postgres when configured, in-memory otherwise (development).
	var (
		store room.Store
		users *db.Users
	)

	if cfg.DatabaseDSN != "" {
		pool, err := db.NewPool(cfg.DatabaseDSN)
		if err != nil {
			logx.Fatal(err, "Failed to connect to database")
		}
		defer pool.Close()

		store = room.NewPostgresStore(pool)
		users = db.NewUsers(pool)
		logx.Info("Connected to PostgreSQL document store.")
	} else {
		store = room.NewMemoryStore()
		logx.Warn("DATABASE_URL not set. Running with in-memory room store; account endpoints disabled.")
	}

	verifier := jwt.NewVerifier(cfg.JWTSecret)

	// Wire the signaling relay
	relay := signaling.NewRelay(signaling.NewRegistry(), signaling.NewHub(), store, verifier)

	// Setup HTTP server and routes
	router := handler.Router(&handler.AppDeps{
		Config:   cfg,
		Relay:    relay,
		Store:    store,
		Verifier: verifier,
		Users:    users,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("doceasy server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
