// Package search implements the query resolution pipeline: slicing a raw
// travel query, fuzzy per-slice retrieval, and composition of per-slice
// results into a best whole-query answer.
package search

import (
	"fmt"
	"strings"

	"github.com/efreeman/porsearch/internal/model"
)

// Tunables of the matching pipeline.
const (
	// TExact is the minimum match confidence for an attempt to be accepted
	// without further correction or shrinking.
	TExact = 0.5
	// PMiss is the confidence factor a slice without any match contributes,
	// so partial matches still score.
	PMiss = 0.1
	// retrievalSize caps the ranked result set fetched per attempt.
	retrievalSize = 30
)

// MatchingDocuments holds the retrieval state of one query slice: the phrase
// that was asked, the corrected phrase that was actually executed, the
// weighted result set, and the best matching document.
type MatchingDocuments struct {
	// Phrase is the original slice text.
	Phrase string
	// Corrected is the phrase that produced the results, after spelling
	// correction and/or shrinking. Empty when nothing matched.
	Corrected string
	// Weights maps doc IDs to their percentage of the top document's raw
	// weight; the top document is at 100.
	Weights map[uint64]float64
	// BestDocID identifies the single best matching document.
	BestDocID uint64
	// BestPct is the match confidence of the best document measured against
	// the original phrase, in [0..100]. Correction keeps full confidence;
	// shrinking loses the dropped words' share.
	BestPct float64
	// Best is the decoded location of the best matching document.
	Best *model.Location
}

// Empty reports whether the slice yielded no match at all.
func (m *MatchingDocuments) Empty() bool { return m.Best == nil }

// String renders the slice outcome for display and logs.
func (m *MatchingDocuments) String() string {
	if m.Empty() {
		return fmt.Sprintf("%q => no match", m.Phrase)
	}
	return fmt.Sprintf("%q => %q (%s, doc %d, %.0f%%)",
		m.Phrase, m.Corrected, m.Best.Name, m.BestDocID, m.BestPct)
}

// wordCount counts the whitespace-separated words of a phrase.
func wordCount(phrase string) int {
	return len(strings.Fields(phrase))
}
