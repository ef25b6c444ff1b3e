package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/efreeman/porsearch/internal/search"
	"github.com/efreeman/porsearch/internal/service"
	"github.com/efreeman/porsearch/internal/testutil"
)

func newTestService(t *testing.T) *service.SearchService {
	t.Helper()
	reader := testutil.BuildTestIndex(t)
	return service.NewSearchService(search.NewEngine(reader), reader, nil, nil)
}

func TestResolveFindsBestCombination(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Resolve(context.Background(), "san francicso rio de janero")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !res.Found {
		t.Fatal("expected a match")
	}
	if len(res.Slices) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(res.Slices))
	}
	if res.Slices[0].Best == nil || res.Slices[0].Best.Name != "San Francisco" {
		t.Errorf("unexpected slice 0 best: %+v", res.Slices[0].Best)
	}
	if res.Slices[1].Corrected != "rio de janeiro" {
		t.Errorf("unexpected slice 1 corrected: %q", res.Slices[1].Corrected)
	}
	if res.Score <= 0 {
		t.Errorf("expected positive score, got %f", res.Score)
	}
}

func TestResolveEmptyQuery(t *testing.T) {
	svc := newTestService(t)

	for _, q := range []string{"", "   ", ",,,;;;"} {
		res, err := svc.Resolve(context.Background(), q)
		if err != nil {
			t.Fatalf("resolve %q: %v", q, err)
		}
		if res.Found {
			t.Errorf("query %q: expected not found", q)
		}
		if len(res.Slices) != 0 {
			t.Errorf("query %q: expected no slices", q)
		}
	}
}

func TestResolveUnmatchedQueryIsNotAnError(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Resolve(context.Background(), "xxqqzz")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Found {
		t.Error("expected not found")
	}
}

func TestByDocID(t *testing.T) {
	svc := newTestService(t)

	loc, err := svc.ByDocID(context.Background(), 4)
	if err != nil {
		t.Fatalf("by doc id: %v", err)
	}
	if loc.Name != "Los Angeles" {
		t.Errorf("expected Los Angeles at doc 4, got %q", loc.Name)
	}
}

func TestMirrorDisabled(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ListByIATA(ctx, "NCE"); !errors.Is(err, service.ErrMirrorDisabled) {
		t.Errorf("ListByIATA: expected ErrMirrorDisabled, got %v", err)
	}
	if _, err := svc.ListByICAO(ctx, "LFMN"); !errors.Is(err, service.ErrMirrorDisabled) {
		t.Errorf("ListByICAO: expected ErrMirrorDisabled, got %v", err)
	}
	if _, err := svc.ListByFAA(ctx, "08A"); !errors.Is(err, service.ErrMirrorDisabled) {
		t.Errorf("ListByFAA: expected ErrMirrorDisabled, got %v", err)
	}
	if _, err := svc.ListByGeonameID(ctx, 1); !errors.Is(err, service.ErrMirrorDisabled) {
		t.Errorf("ListByGeonameID: expected ErrMirrorDisabled, got %v", err)
	}
	if _, err := svc.CountPOR(ctx); !errors.Is(err, service.ErrMirrorDisabled) {
		t.Errorf("CountPOR: expected ErrMirrorDisabled, got %v", err)
	}
}
