package search_test

import (
	"context"
	"errors"
	"testing"

	"github.com/efreeman/porsearch/internal/search"
	"github.com/efreeman/porsearch/internal/testutil"
)

func TestResolveMultiDestinationQuery(t *testing.T) {
	reader := testutil.BuildTestIndex(t)
	engine := search.NewEngine(reader)

	rc, err := engine.Resolve(context.Background(), "san francicso rio de janero")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	best, err := rc.BestMatchingResultHolder()
	if err != nil {
		t.Fatalf("best holder: %v", err)
	}

	if len(best.Slices) != 2 {
		t.Fatalf("expected 2 slices, got %v", best.Slices)
	}
	if best.Docs[0].Corrected != "san francisco" {
		t.Errorf("slice 0 corrected: expected %q, got %q", "san francisco", best.Docs[0].Corrected)
	}
	if best.Docs[1].Corrected != "rio de janeiro" {
		t.Errorf("slice 1 corrected: expected %q, got %q", "rio de janeiro", best.Docs[1].Corrected)
	}
	if best.Docs[0].Best.Name != "San Francisco" {
		t.Errorf("slice 0 best: expected San Francisco, got %q", best.Docs[0].Best.Name)
	}
	if best.Docs[1].Best.Name != "Rio de Janeiro" {
		t.Errorf("slice 1 best: expected Rio de Janeiro, got %q", best.Docs[1].Best.Name)
	}
}

func TestResolveSingleDestinationQueries(t *testing.T) {
	reader := testutil.BuildTestIndex(t)
	engine := search.NewEngine(reader)
	ctx := context.Background()

	tests := []struct {
		query string
		want  string
	}{
		{"rio de janero", "Rio de Janeiro"},
		{"lso angeles", "Los Angeles"},
		{"rekyavik", "Reykjavik"},
		{"chelsea municipal airport", "Chelsea Municipal Airport"},
		{"NCE", "Nice Côte d'Azur"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rc, err := engine.Resolve(ctx, tt.query)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			best, err := rc.BestMatchingResultHolder()
			if err != nil {
				t.Fatalf("best holder: %v", err)
			}
			if len(best.Slices) != 1 {
				t.Fatalf("expected one slice, got %v", best.Slices)
			}
			if best.Docs[0].Best.Name != tt.want {
				t.Errorf("expected %q, got %q", tt.want, best.Docs[0].Best.Name)
			}
		})
	}
}

func TestResolveEmptyAndSeparatorQueries(t *testing.T) {
	reader := testutil.BuildTestIndex(t)
	engine := search.NewEngine(reader)
	ctx := context.Background()

	for _, q := range []string{"", "   ", " .,;:!? "} {
		rc, err := engine.Resolve(ctx, q)
		if err != nil {
			t.Fatalf("resolve %q: %v", q, err)
		}
		if !rc.Empty() {
			t.Errorf("query %q: expected empty combination", q)
		}
		if _, err := rc.BestMatchingResultHolder(); !errors.Is(err, search.ErrNoBestMatch) {
			t.Errorf("query %q: expected ErrNoBestMatch, got %v", q, err)
		}
	}
}

func TestResolveUnmatchableQuery(t *testing.T) {
	reader := testutil.BuildTestIndex(t)
	engine := search.NewEngine(reader)

	rc, err := engine.Resolve(context.Background(), "xxqqzz yyqqww")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !rc.Empty() {
		t.Error("expected no best match for unmatchable words")
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	reader := testutil.BuildTestIndex(t)
	engine := search.NewEngine(reader)
	ctx := context.Background()

	query := "san francicso rio de janero"
	var corrected []string
	var names []string
	for i := 0; i < 3; i++ {
		rc, err := engine.Resolve(ctx, query)
		if err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
		best, err := rc.BestMatchingResultHolder()
		if err != nil {
			t.Fatalf("best holder %d: %v", i, err)
		}
		if i == 0 {
			for _, md := range best.Docs {
				corrected = append(corrected, md.Corrected)
				names = append(names, md.Best.Name)
			}
			continue
		}
		for j, md := range best.Docs {
			if md.Corrected != corrected[j] || md.Best.Name != names[j] {
				t.Errorf("run %d slice %d: %q/%q, want %q/%q",
					i, j, md.Corrected, md.Best.Name, corrected[j], names[j])
			}
		}
	}
}

func TestResolveCancelled(t *testing.T) {
	reader := testutil.BuildTestIndex(t)
	engine := search.NewEngine(reader)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Resolve(ctx, "rio de janero"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
