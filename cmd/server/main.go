package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ptcgp/data-api/internal/api"
	"github.com/ptcgp/data-api/internal/data"
	"github.com/ptcgp/data-api/internal/database"
	"github.com/ptcgp/data-api/internal/metrics"
	"github.com/ptcgp/data-api/internal/services"
	"github.com/ptcgp/data-api/internal/store"
)

func main() {
	// Load the card dataset; the server must not start without it
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	dataset, err := data.Load(dataDir)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	metrics.CardDatabaseSize.Set(float64(dataset.CardCount()))
	metrics.SetDatabaseSize.Set(float64(dataset.SetCount()))

	// Image URL resolver (probe + cache, or skip-checks mode)
	imageService := services.NewImageService()

	// Mutable stores: in-memory by default, sqlite when configured
	var stores store.Stores
	if os.Getenv("STORE_BACKEND") == "sqlite" {
		dbPath := os.Getenv("DB_PATH")
		if dbPath == "" {
			dbPath = "./ptcgp_api.db"
		}
		db, err := database.Open(dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		stores, err = store.NewSQLiteStores(db)
		if err != nil {
			log.Fatalf("Failed to initialize sqlite stores: %v", err)
		}
		log.Printf("Using sqlite store backend at %s", dbPath)
	} else {
		stores = store.NewMemoryStores()
		log.Println("Using in-memory store backend (state is lost on restart)")
	}

	if os.Getenv("API_KEY") != "" {
		log.Println("API authentication enabled")
	}

	// Setup router
	router := api.SetupRouter(dataset, imageService, stores)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
