package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/efreeman/porsearch/internal/config"
	"github.com/efreeman/porsearch/internal/index"
	"github.com/efreeman/porsearch/internal/logger"
	"github.com/efreeman/porsearch/internal/repository"
	"github.com/efreeman/porsearch/internal/repository/postgres"
	"github.com/efreeman/porsearch/internal/search"
	"github.com/efreeman/porsearch/internal/service"
)

const version = "0.3.0"

// Exit codes: 0 success, 99 early return (help/version), 1 errors.
func main() {
	logger.Init()
	cfg := config.Load()

	indexPath := flag.String("index", cfg.IndexPath, "path to the index directory")
	iata := flag.String("iata", "", "list mirrored records by IATA code")
	icao := flag.String("icao", "", "list mirrored records by ICAO code")
	faa := flag.String("faa", "", "list mirrored records by FAA code")
	geoname := flag.Int64("geoname", 0, "list mirrored records by Geonames ID")
	count := flag.Bool("count", false, "count mirrored records")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)
	if err := flag.CommandLine.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(99)
		}
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println("porsearch " + version)
		os.Exit(99)
	}

	ctx := context.Background()

	reader, err := index.Open(*indexPath)
	if err != nil {
		log.Fatal().Err(err).Str("index", *indexPath).Msg("Opening index failed")
	}
	defer reader.Close()

	var mirror repository.PORMirror
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer db.Close()
		mirror = postgres.NewPORRepo(db)
	}

	svc := service.NewSearchService(search.NewEngine(reader), reader, mirror, nil)

	var out any
	switch {
	case *iata != "":
		out, err = svc.ListByIATA(ctx, *iata)
	case *icao != "":
		out, err = svc.ListByICAO(ctx, *icao)
	case *faa != "":
		out, err = svc.ListByFAA(ctx, *faa)
	case *geoname != 0:
		out, err = svc.ListByGeonameID(ctx, *geoname)
	case *count:
		out, err = svc.CountPOR(ctx)
	default:
		query := strings.Join(flag.Args(), " ")
		if strings.TrimSpace(query) == "" {
			fmt.Fprintln(os.Stderr, "usage: porsearch [flags] <query words>")
			os.Exit(99)
		}
		out, err = svc.Resolve(ctx, query)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Lookup failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal().Err(err).Msg("Encoding result failed")
	}
}
