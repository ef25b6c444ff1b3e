package search

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/efreeman/porsearch/internal/index"
	"github.com/efreeman/porsearch/internal/text"
)

// Engine resolves raw travel queries against one open index reader. Engines
// hold no per-query state and are safe for concurrent use.
type Engine struct {
	reader  *index.Reader
	matcher *Matcher
}

// NewEngine wraps an open index reader.
func NewEngine(r *index.Reader) *Engine {
	return &Engine{reader: r, matcher: NewMatcher(r)}
}

// Resolve runs the full pipeline for one raw query: slicing, per-slice
// matching over the candidate partitionings, and best-holder selection. An
// empty or separator-only query yields an empty combination, not an error.
func (e *Engine) Resolve(ctx context.Context, rawQuery string) (*ResultCombination, error) {
	rc := &ResultCombination{Query: rawQuery}
	if len(text.Tokenize(rawQuery)) == 0 {
		return rc, nil
	}

	sliced, err := SliceQuery(ctx, e.reader, rawQuery)
	if err != nil {
		return nil, err
	}

	// Candidate partitionings: the sliced reading, plus the whole query as a
	// single slice when slicing split it.
	candidates := [][]string{sliced}
	whole := strings.Join(strings.Fields(rawQuery), " ")
	if len(sliced) > 1 {
		candidates = append(candidates, []string{whole})
	}

	totalWords := wordCount(whole)
	for _, slices := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs := make([]*MatchingDocuments, 0, len(slices))
		for _, slice := range slices {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			md, err := e.matcher.Search(ctx, slice)
			if err != nil {
				return nil, err
			}
			docs = append(docs, md)
		}
		holder := newResultHolder(slices, docs, totalWords)
		rc.Holders = append(rc.Holders, holder)
		log.Debug().Str("query", rawQuery).Strs("slices", slices).
			Float64("score", holder.Score).Msg("Scored partitioning")
	}

	rc.ChooseBestMatchingResultHolder()
	return rc, nil
}
