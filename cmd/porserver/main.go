package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/efreeman/porsearch/internal/config"
	"github.com/efreeman/porsearch/internal/handler"
	"github.com/efreeman/porsearch/internal/index"
	"github.com/efreeman/porsearch/internal/logger"
	"github.com/efreeman/porsearch/internal/middleware"
	"github.com/efreeman/porsearch/internal/repository"
	"github.com/efreeman/porsearch/internal/repository/postgres"
	redisrepo "github.com/efreeman/porsearch/internal/repository/redis"
	"github.com/efreeman/porsearch/internal/search"
	"github.com/efreeman/porsearch/internal/service"
)

func main() {
	logger.Init()
	cfg := config.Load()
	log.Info().Str("indexPath", cfg.IndexPath).Msg("Config loaded")

	// Index (read handle held for the server lifetime)
	reader, err := index.Open(cfg.IndexPath)
	if err != nil {
		log.Fatal().Err(err).Str("index", cfg.IndexPath).Msg("Opening index failed")
	}
	defer reader.Close()

	// Relational mirror (optional)
	var mirror repository.PORMirror
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer db.Close()
		mirror = postgres.NewPORRepo(db)
	}

	// Query cache (optional)
	var cache *redisrepo.Client
	if cfg.RedisURL != "" {
		cache, err = redisrepo.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		defer cache.Close()
	}

	// Service
	svc := service.NewSearchService(search.NewEngine(reader), reader, mirror, cache)

	// Handlers
	searchHandler := handler.NewSearchHandler(svc)
	lookupHandler := handler.NewLookupHandler(svc)

	// Router
	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /search", searchHandler.Search)
	mux.HandleFunc("GET /por/iata/{code}", lookupHandler.ByIATA)
	mux.HandleFunc("GET /por/icao/{code}", lookupHandler.ByICAO)
	mux.HandleFunc("GET /por/faa/{code}", lookupHandler.ByFAA)
	mux.HandleFunc("GET /por/geoname/{id}", lookupHandler.ByGeonameID)
	mux.HandleFunc("GET /por/count", lookupHandler.Count)

	// Apply global middleware
	root := middleware.Chain(mux, middleware.Logger, middleware.CORS("*"), middleware.JSON)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}
