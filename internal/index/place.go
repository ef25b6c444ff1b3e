// Package index builds and reads the persistent full-text index over POR
// records. The index lives in a directory on local disk, is written in a
// single batch commit, and supports multiple concurrent readers.
package index

import (
	"sort"
	"strings"

	"github.com/efreeman/porsearch/internal/model"
	"github.com/efreeman/porsearch/internal/text"
)

// Place wraps one Location with its derived index term sets. A Place is owned
// by the build that created it and lives only for the duration of indexing.
type Place struct {
	Location *model.Location

	terms    []string
	phrases  []string
	spelling []string
}

// NewPlace wraps a parsed Location.
func NewPlace(loc *model.Location) *Place {
	return &Place{Location: loc}
}

// BuildIndexSets computes the term set, phrase set, and spelling set from the
// location's names and codes. Terms are single lowercased tokens; phrases are
// every word combination of each name field; the spelling set is the terms
// registered for approximate matching.
func (p *Place) BuildIndexSets() {
	termSet := make(map[string]struct{})
	phraseSet := make(map[string]struct{})

	fields := []string{
		p.Location.Name,
		p.Location.ASCIIName,
		p.Location.CityCode,
		p.Location.Key.IATA,
		p.Location.Key.ICAO,
		p.Location.FAA,
	}
	for _, alt := range p.Location.AltNames {
		fields = append(fields, alt.Name)
	}

	for _, field := range fields {
		if field == "" {
			continue
		}
		for _, term := range text.Tokenize(field) {
			termSet[term] = struct{}{}
		}
		for _, combo := range text.Combinations(field) {
			if norm := text.Normalize(combo); norm != "" {
				phraseSet[norm] = struct{}{}
			}
		}
	}

	p.terms = sortedKeys(termSet)
	p.phrases = sortedKeys(phraseSet)
	p.spelling = p.terms
}

// TermSet returns the single-token terms derived for this place.
func (p *Place) TermSet() []string { return p.terms }

// PhraseSet returns the normalized word combinations derived for this place.
func (p *Place) PhraseSet() []string { return p.phrases }

// SpellingSet returns the terms registered to the spelling dictionary.
func (p *Place) SpellingSet() []string { return p.spelling }

// ResetIndexSets drops the derived sets so the Place can be reused.
func (p *Place) ResetIndexSets() {
	p.terms, p.phrases, p.spelling = nil, nil, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// describeSets renders the derived sets for debug logging.
func (p *Place) describeSets() string {
	return "terms{" + strings.Join(p.terms, ",") + "} phrases{" + strings.Join(p.phrases, ",") + "}"
}
