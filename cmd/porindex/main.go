package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/efreeman/porsearch/internal/config"
	"github.com/efreeman/porsearch/internal/index"
	"github.com/efreeman/porsearch/internal/logger"
	"github.com/efreeman/porsearch/internal/model"
	"github.com/efreeman/porsearch/internal/repository/postgres"
	redisrepo "github.com/efreeman/porsearch/internal/repository/redis"
)

const version = "0.3.0"

// Exit codes: 0 success, 99 early return (help/version), 1 errors.
func main() {
	logger.Init()
	cfg := config.Load()

	porPath := flag.String("por", cfg.PORPath, "path to the POR data file")
	indexPath := flag.String("index", cfg.IndexPath, "path to the index directory (replaced)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(99)
		}
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println("porindex " + version)
		os.Exit(99)
	}

	ctx := context.Background()

	var each index.RecordFunc
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer db.Close()

		repo := postgres.NewPORRepo(db)
		if err := repo.Clear(ctx); err != nil {
			log.Fatal().Err(err).Msg("Clearing POR mirror failed")
		}
		each = func(ctx context.Context, loc *model.Location) error {
			return repo.Insert(ctx, loc)
		}
		log.Info().Msg("Filling relational mirror during build")
	}

	stats, err := index.Build(ctx, *porPath, *indexPath, each)
	if err != nil {
		log.Fatal().Err(err).Str("por", *porPath).Str("index", *indexPath).Msg("Index build failed")
	}

	if cfg.RedisURL != "" {
		cache, err := redisrepo.NewClient(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis connection failed, cached queries may be stale")
		} else {
			defer cache.Close()
			if err := cache.InvalidateQueries(ctx); err != nil {
				log.Warn().Err(err).Msg("Query cache invalidation failed")
			}
		}
	}

	log.Info().
		Uint64("entries", stats.Entries).
		Uint64("skippedNotAvailable", stats.SkippedNotAvailable).
		Uint64("skippedParseErrors", stats.SkippedParseErrors).
		Msg("Indexing finished")
}
