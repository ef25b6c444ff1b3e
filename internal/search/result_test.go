package search

import (
	"errors"
	"testing"

	"github.com/efreeman/porsearch/internal/model"
)

func matched(phrase, corrected string, pct float64) *MatchingDocuments {
	return &MatchingDocuments{
		Phrase:    phrase,
		Corrected: corrected,
		Weights:   map[uint64]float64{1: 100},
		BestDocID: 1,
		BestPct:   pct,
		Best:      &model.Location{Name: corrected},
	}
}

func missed(phrase string) *MatchingDocuments {
	return &MatchingDocuments{Phrase: phrase, Weights: map[uint64]float64{}}
}

func TestResultHolderScore(t *testing.T) {
	// Two fully confident slices of 2 and 3 words over a 5-word query:
	// (1.0 * 2/5) * (1.0 * 3/5) = 0.24.
	h := newResultHolder(
		[]string{"san francicso", "rio de janero"},
		[]*MatchingDocuments{
			matched("san francicso", "san francisco", 100),
			matched("rio de janero", "rio de janeiro", 100),
		},
		5,
	)
	if h.Score < 0.2399 || h.Score > 0.2401 {
		t.Errorf("expected score 0.24, got %f", h.Score)
	}
	if !h.Matched() {
		t.Error("expected holder to be matched")
	}
}

func TestResultHolderMissPenalty(t *testing.T) {
	// A missed slice contributes PMiss instead of zero.
	h := newResultHolder(
		[]string{"xxqqzz", "paris"},
		[]*MatchingDocuments{missed("xxqqzz"), matched("paris", "paris", 100)},
		2,
	)
	want := (PMiss * 0.5) * (1.0 * 0.5)
	if h.Score < want-1e-9 || h.Score > want+1e-9 {
		t.Errorf("expected score %f, got %f", want, h.Score)
	}
	if !h.Matched() {
		t.Error("one matched slice should mark the holder matched")
	}
}

func TestResultHolderAllMissed(t *testing.T) {
	h := newResultHolder(
		[]string{"xxqqzz"},
		[]*MatchingDocuments{missed("xxqqzz")},
		1,
	)
	if h.Matched() {
		t.Error("holder with no matched slice must not count as matched")
	}
	if h.Score <= 0 {
		t.Error("penalty factor keeps the raw score positive")
	}
}

func TestChooseBestPrefersHigherScore(t *testing.T) {
	strong := newResultHolder(
		[]string{"rio de janero"},
		[]*MatchingDocuments{matched("rio de janero", "rio de janeiro", 100)},
		3,
	)
	weak := newResultHolder(
		[]string{"rio", "de janero"},
		[]*MatchingDocuments{
			matched("rio", "rio", 100),
			matched("de janero", "de janeiro", 100),
		},
		3,
	)
	rc := &ResultCombination{Query: "rio de janero", Holders: []*ResultHolder{weak, strong}}
	if !rc.ChooseBestMatchingResultHolder() {
		t.Fatal("expected a best holder")
	}
	best, err := rc.BestMatchingResultHolder()
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if len(best.Slices) != 1 {
		t.Errorf("expected the single-slice holder to win, got %v", best.Slices)
	}
}

func TestChooseBestTieBreaksOnFewerSlices(t *testing.T) {
	a := &ResultHolder{
		Slices: []string{"paris", "madrid"},
		Docs:   []*MatchingDocuments{matched("paris", "paris", 100), matched("madrid", "madrid", 100)},
		Score:  0.5,
	}
	b := &ResultHolder{
		Slices: []string{"paris madrid"},
		Docs:   []*MatchingDocuments{matched("paris madrid", "paris madrid", 100)},
		Score:  0.5,
	}
	rc := &ResultCombination{Holders: []*ResultHolder{a, b}}
	if !rc.ChooseBestMatchingResultHolder() {
		t.Fatal("expected a best holder")
	}
	best, _ := rc.BestMatchingResultHolder()
	if len(best.Slices) != 1 {
		t.Errorf("tie should go to fewer slices, got %v", best.Slices)
	}
}

func TestChooseBestNoEligibleHolder(t *testing.T) {
	rc := &ResultCombination{
		Query: "xxqqzz",
		Holders: []*ResultHolder{
			newResultHolder([]string{"xxqqzz"}, []*MatchingDocuments{missed("xxqqzz")}, 1),
		},
	}
	if rc.ChooseBestMatchingResultHolder() {
		t.Error("expected no best holder")
	}
	if _, err := rc.BestMatchingResultHolder(); !errors.Is(err, ErrNoBestMatch) {
		t.Errorf("expected ErrNoBestMatch, got %v", err)
	}
	if !rc.Empty() {
		t.Error("combination should report empty")
	}
}

func TestCorrectedQueryJoinsSlices(t *testing.T) {
	h := &ResultHolder{
		Docs: []*MatchingDocuments{
			matched("san francicso", "san francisco", 100),
			matched("rio de janero", "rio de janeiro", 100),
		},
	}
	if got := h.CorrectedQuery(); got != "san francisco rio de janeiro" {
		t.Errorf("unexpected corrected query %q", got)
	}
}
