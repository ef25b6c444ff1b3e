package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/efreeman/porsearch/internal/handler"
	"github.com/efreeman/porsearch/internal/search"
	"github.com/efreeman/porsearch/internal/service"
	"github.com/efreeman/porsearch/internal/testutil"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	reader := testutil.BuildTestIndex(t)
	svc := service.NewSearchService(search.NewEngine(reader), reader, nil, nil)

	searchHandler := handler.NewSearchHandler(svc)
	lookupHandler := handler.NewLookupHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", searchHandler.Search)
	mux.HandleFunc("GET /por/iata/{code}", lookupHandler.ByIATA)
	mux.HandleFunc("GET /por/geoname/{id}", lookupHandler.ByGeonameID)
	mux.HandleFunc("GET /por/count", lookupHandler.Count)
	return mux
}

func TestSearchEndpoint(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/search?q=rekyavik", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var res service.QueryResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !res.Found {
		t.Fatal("expected found=true")
	}
	if len(res.Slices) != 1 || res.Slices[0].Best == nil || res.Slices[0].Best.Name != "Reykjavik" {
		t.Errorf("unexpected slices: %+v", res.Slices)
	}
}

func TestSearchEndpointEmptyQuery(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/search?q=", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("empty query must not error, got %d", rec.Code)
	}
	var res service.QueryResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Found {
		t.Error("expected found=false for empty query")
	}
}

func TestLookupWithoutMirror(t *testing.T) {
	mux := newTestMux(t)

	for _, path := range []string{"/por/iata/NCE", "/por/count"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotImplemented {
			t.Errorf("%s: expected 501 without mirror, got %d", path, rec.Code)
		}
	}
}

func TestLookupBadGeonameID(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/por/geoname/notanumber", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric id, got %d", rec.Code)
	}
}
