package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"mytodos/internal/config"
	"mytodos/internal/handlers"
	"mytodos/internal/store"
)

func main() {
	// Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DataPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Initialize store
	s, err := store.Open(cfg.Backend, cfg.DataPath)
	if err != nil {
		log.Fatalf("Failed to initialize %s store at %s: %v", cfg.Backend, cfg.DataPath, err)
	}
	defer s.Close()

	// Initialize handlers
	h := handlers.New(s)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handlers.NewRouter(h, cfg.RequestTimeout),
	}

	// Start server
	go func() {
		log.Printf("Starting server on http://localhost%s (%s store: %s)", cfg.Addr(), cfg.Backend, cfg.DataPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Printf("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
