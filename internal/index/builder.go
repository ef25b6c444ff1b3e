package index

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/rs/zerolog/log"

	"github.com/efreeman/porsearch/internal/model"
	"github.com/efreeman/porsearch/internal/por"
)

// maxLineSize bounds one POR line; alternate-name lists can get long.
const maxLineSize = 1 << 20

// BuildStats reports what a build did. Skip counters are how recoverable
// parse failures surface to the caller.
type BuildStats struct {
	Entries             uint64
	SkippedNotAvailable uint64
	SkippedParseErrors  uint64
}

// RecordFunc is invoked for every indexed Location, after its doc ID has
// been assigned. Used to stream records into the relational mirror. May be
// nil.
type RecordFunc func(ctx context.Context, loc *model.Location) error

// Build parses the POR file at porPath and constructs a fresh index at
// indexPath, replacing whatever was there. The whole build is one batch,
// committed once at the end; readers of a previous index generation are
// unaffected until then. Returns the build statistics: the number of indexed
// entries and the skip counters.
func Build(ctx context.Context, porPath, indexPath string, each RecordFunc) (BuildStats, error) {
	var stats BuildStats

	info, err := os.Stat(porPath)
	if err != nil || !info.Mode().IsRegular() {
		return stats, fmt.Errorf("por file %s: %w", porPath, ErrFileNotFound)
	}
	f, err := os.Open(porPath)
	if err != nil {
		return stats, fmt.Errorf("por file %s: %w", porPath, ErrFileNotFound)
	}
	defer f.Close()

	log.Debug().Str("indexPath", indexPath).Msg("Clearing index directory")
	if err := os.RemoveAll(indexPath); err != nil {
		return stats, &WriteError{Cause: fmt.Errorf("clear index dir: %w", err)}
	}
	idx, err := bleve.New(indexPath, buildMapping())
	if err != nil {
		return stats, &WriteError{Cause: fmt.Errorf("create index: %w", err)}
	}
	defer idx.Close()

	spell := newSpelling()
	batch := idx.NewBatch()
	var docID uint64

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		loc, err := por.ParseLine(line, lineNo)
		if err != nil {
			stats.SkippedParseErrors++
			log.Warn().Err(err).Int("line", lineNo).Msg("Skipping unparseable POR line")
			continue
		}
		if loc.Name == model.NotAvailable {
			stats.SkippedNotAvailable++
			continue
		}

		docID++
		loc.DocID = docID

		place := NewPlace(loc)
		place.BuildIndexSets()
		doc, err := placeDoc(place)
		if err != nil {
			return stats, &WriteError{Cause: fmt.Errorf("encode place %s: %w", loc.Key, err)}
		}
		if err := batch.Index(strconv.FormatUint(docID, 10), doc); err != nil {
			return stats, &WriteError{Cause: fmt.Errorf("batch place %s: %w", loc.Key, err)}
		}
		for _, term := range place.SpellingSet() {
			spell.add(term)
		}
		place.ResetIndexSets()

		if each != nil {
			if err := each(ctx, loc); err != nil {
				return stats, fmt.Errorf("record hook for %s: %w", loc.Key, err)
			}
		}
		stats.Entries++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read por file: %w", err)
	}

	if err := idx.Batch(batch); err != nil {
		return stats, &WriteError{Cause: fmt.Errorf("commit batch: %w", err)}
	}
	if err := spell.save(indexPath); err != nil {
		return stats, &WriteError{Cause: err}
	}

	log.Info().
		Uint64("entries", stats.Entries).
		Uint64("skippedNotAvailable", stats.SkippedNotAvailable).
		Uint64("skippedParseErrors", stats.SkippedParseErrors).
		Int("spellingTerms", spell.Len()).
		Msg("Index build committed")
	return stats, nil
}

// placeDoc converts a Place into the stored retrieval unit. The payload is
// the serialized Location and round-trips through ByDocID.
func placeDoc(p *Place) (*indexDoc, error) {
	payload, err := json.Marshal(p.Location)
	if err != nil {
		return nil, err
	}
	return &indexDoc{
		Terms:    p.TermSet(),
		Phrases:  p.PhraseSet(),
		Name:     p.Location.Name,
		PageRank: p.Location.PageRank,
		Payload:  string(payload),
	}, nil
}
