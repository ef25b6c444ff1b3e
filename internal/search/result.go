package search

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoBestMatch is returned when a best result holder is read from a
// combination in which no slice of any holder matched.
var ErrNoBestMatch = errors.New("no best matching result holder")

// ResultHolder is the ordered list of per-slice results for one slice
// partitioning of the query, with its aggregate score.
type ResultHolder struct {
	// Slices is the partitioning this holder was built for.
	Slices []string
	// Docs holds one MatchingDocuments per slice, in slice order.
	Docs []*MatchingDocuments
	// Score is the aggregate: the product over slices of the slice's
	// confidence factor times its length weight. Missed slices contribute
	// PMiss instead of zero.
	Score float64
}

// newResultHolder scores a partitioning from its per-slice results.
// totalWords is the word count of the whole query, so longer slices count
// more and the degenerate split into single words cannot dominate.
func newResultHolder(slices []string, docs []*MatchingDocuments, totalWords int) *ResultHolder {
	h := &ResultHolder{Slices: slices, Docs: docs, Score: 1}
	for i, md := range docs {
		weight := float64(wordCount(slices[i])) / float64(totalWords)
		confidence := PMiss
		if !md.Empty() {
			confidence = md.BestPct / 100
		}
		h.Score *= confidence * weight
	}
	return h
}

// Matched reports whether at least one slice of this holder found a match.
func (h *ResultHolder) Matched() bool {
	for _, md := range h.Docs {
		if !md.Empty() {
			return true
		}
	}
	return false
}

// CorrectedQuery joins the corrected phrases of all slices.
func (h *ResultHolder) CorrectedQuery() string {
	parts := make([]string, 0, len(h.Docs))
	for _, md := range h.Docs {
		if md.Corrected != "" {
			parts = append(parts, md.Corrected)
		}
	}
	return strings.Join(parts, " ")
}

// String renders the holder for display and logs.
func (h *ResultHolder) String() string {
	parts := make([]string, 0, len(h.Docs))
	for _, md := range h.Docs {
		parts = append(parts, md.String())
	}
	return fmt.Sprintf("score %.4f: %s", h.Score, strings.Join(parts, "; "))
}

// ResultCombination is the set of ResultHolders built for the candidate
// slice partitionings of one query, and the chosen best among them.
type ResultCombination struct {
	// Query is the raw query string.
	Query string
	// Holders are the candidate partitionings' results.
	Holders []*ResultHolder

	best *ResultHolder
}

// ChooseBestMatchingResultHolder selects the best holder: highest aggregate
// score, then fewest slices, then lexicographically smallest corrected
// query. Only holders with at least one matched slice are eligible. Returns
// whether a best holder exists.
func (rc *ResultCombination) ChooseBestMatchingResultHolder() bool {
	rc.best = nil
	for _, h := range rc.Holders {
		if !h.Matched() || h.Score <= 0 {
			continue
		}
		if rc.best == nil || betterHolder(h, rc.best) {
			rc.best = h
		}
	}
	return rc.best != nil
}

// BestMatchingResultHolder returns the holder chosen by
// ChooseBestMatchingResultHolder, or ErrNoBestMatch when there is none.
func (rc *ResultCombination) BestMatchingResultHolder() (*ResultHolder, error) {
	if rc.best == nil {
		return nil, ErrNoBestMatch
	}
	return rc.best, nil
}

// Empty reports whether the combination carries no best match.
func (rc *ResultCombination) Empty() bool { return rc.best == nil }

func betterHolder(a, b *ResultHolder) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if len(a.Slices) != len(b.Slices) {
		return len(a.Slices) < len(b.Slices)
	}
	return a.CorrectedQuery() < b.CorrectedQuery()
}
