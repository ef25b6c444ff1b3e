// Package service wires the resolution engine to the query cache and the
// relational mirror, behind the API the handlers and CLIs consume.
package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/efreeman/porsearch/internal/model"
	"github.com/efreeman/porsearch/internal/repository"
	redisrepo "github.com/efreeman/porsearch/internal/repository/redis"
	"github.com/efreeman/porsearch/internal/search"
	"github.com/efreeman/porsearch/internal/text"
)

// ErrMirrorDisabled is returned from key-based lookups when no relational
// mirror is configured.
var ErrMirrorDisabled = errors.New("relational mirror not configured")

// SliceResult is the externalized outcome of one query slice.
type SliceResult struct {
	Phrase    string             `json:"phrase"`
	Corrected string             `json:"corrected,omitempty"`
	Best      *model.Location    `json:"best,omitempty"`
	BestPct   float64            `json:"best_pct,omitempty"`
	Weights   map[uint64]float64 `json:"weights,omitempty"`
}

// QueryResult is the externalized resolution of one raw query.
type QueryResult struct {
	Query  string        `json:"query"`
	Found  bool          `json:"found"`
	Score  float64       `json:"score,omitempty"`
	Slices []SliceResult `json:"slices,omitempty"`
}

// SearchService resolves queries and serves key-based lookups. The cache and
// the mirror are optional; a nil client disables the concern.
type SearchService struct {
	engine *search.Engine
	source repository.LocationSource
	mirror repository.PORMirror
	cache  *redisrepo.Client
}

// NewSearchService creates a SearchService. mirror and cache may be nil.
func NewSearchService(engine *search.Engine, source repository.LocationSource, mirror repository.PORMirror, cache *redisrepo.Client) *SearchService {
	return &SearchService{engine: engine, source: source, mirror: mirror, cache: cache}
}

// Resolve runs one raw query through the cache and the pipeline. Empty and
// separator-only queries return an empty result without touching the index.
func (s *SearchService) Resolve(ctx context.Context, rawQuery string) (*QueryResult, error) {
	normalized := text.Normalize(rawQuery)
	if normalized == "" {
		return &QueryResult{Query: rawQuery}, nil
	}

	if s.cache != nil {
		cached, err := s.cache.GetQueryResult(ctx, normalized)
		if err != nil {
			log.Warn().Err(err).Str("query", normalized).Msg("Query cache read failed")
		} else if cached != nil {
			var res QueryResult
			if err := json.Unmarshal(cached, &res); err == nil {
				return &res, nil
			}
			log.Warn().Str("query", normalized).Msg("Dropping undecodable cache entry")
		}
	}

	rc, err := s.engine.Resolve(ctx, rawQuery)
	if err != nil {
		return nil, err
	}
	res := externalize(rc)

	if s.cache != nil {
		if payload, err := json.Marshal(res); err == nil {
			if err := s.cache.SetQueryResult(ctx, normalized, payload); err != nil {
				log.Warn().Err(err).Str("query", normalized).Msg("Query cache write failed")
			}
		}
	}
	return res, nil
}

// externalize flattens the best holder of a combination for callers.
func externalize(rc *search.ResultCombination) *QueryResult {
	res := &QueryResult{Query: rc.Query}
	best, err := rc.BestMatchingResultHolder()
	if err != nil {
		return res
	}
	res.Found = true
	res.Score = best.Score
	for _, md := range best.Docs {
		sr := SliceResult{
			Phrase:    md.Phrase,
			Corrected: md.Corrected,
			Weights:   md.Weights,
		}
		if !md.Empty() {
			sr.Best = md.Best
			sr.BestPct = md.BestPct
		}
		res.Slices = append(res.Slices, sr)
	}
	return res
}

// ByDocID resolves a document ID to its stored Location.
func (s *SearchService) ByDocID(ctx context.Context, docID uint64) (*model.Location, error) {
	return s.source.ByDocID(ctx, docID)
}

// ListByIATA lists mirrored records by IATA code.
func (s *SearchService) ListByIATA(ctx context.Context, code string) ([]model.Location, error) {
	if s.mirror == nil {
		return nil, ErrMirrorDisabled
	}
	return s.mirror.ListByIATA(ctx, code)
}

// ListByICAO lists mirrored records by ICAO code.
func (s *SearchService) ListByICAO(ctx context.Context, code string) ([]model.Location, error) {
	if s.mirror == nil {
		return nil, ErrMirrorDisabled
	}
	return s.mirror.ListByICAO(ctx, code)
}

// ListByFAA lists mirrored records by FAA code.
func (s *SearchService) ListByFAA(ctx context.Context, code string) ([]model.Location, error) {
	if s.mirror == nil {
		return nil, ErrMirrorDisabled
	}
	return s.mirror.ListByFAA(ctx, code)
}

// ListByGeonameID lists mirrored records by Geonames ID.
func (s *SearchService) ListByGeonameID(ctx context.Context, id int64) ([]model.Location, error) {
	if s.mirror == nil {
		return nil, ErrMirrorDisabled
	}
	return s.mirror.ListByGeonameID(ctx, id)
}

// CountPOR counts mirrored records.
func (s *SearchService) CountPOR(ctx context.Context) (int64, error) {
	if s.mirror == nil {
		return 0, ErrMirrorDisabled
	}
	return s.mirror.CountPOR(ctx)
}
