package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"astronova.app/server/internal/api"
	"astronova.app/server/internal/config"
	"astronova.app/server/internal/core"
	"astronova.app/server/internal/geo"
	"astronova.app/server/internal/search"
	"astronova.app/server/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	// Initialize the model gateway. Without an API key it stays nil and the
	// service runs in the degraded chat-stub mode.
	var gateway core.ModelGateway
	if config.AppConfig.GeminiAPIKey != "" {
		geminiService := core.NewGeminiService()
		defer geminiService.Close()
		gateway = geminiService
	}

	// Location autocomplete
	geoClient := geo.NewClient(config.AppConfig.NominatimURL)
	searchCtl := search.NewController(geoClient.Search, search.DefaultDebounceDelay)

	// Core services
	chatService := core.NewChatService(gateway)
	analysisService := core.NewAnalysisService(gateway)
	sessionService := core.NewSessionService(dbStore, chatService, analysisService, searchCtl)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(sessionService, searchCtl, geoClient)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second, // dossier generation waits on two long model calls
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
