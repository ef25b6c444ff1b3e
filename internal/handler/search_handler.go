// Package handler exposes query resolution and key-based lookups over HTTP.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/efreeman/porsearch/internal/logger"
	"github.com/efreeman/porsearch/internal/service"
)

// SearchHandler serves free-text resolution requests.
type SearchHandler struct {
	svc *service.SearchService
}

// NewSearchHandler creates a SearchHandler.
func NewSearchHandler(svc *service.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Search handles GET /search?q=... An unmatched or empty query is a 200 with
// found=false, not an error.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	res, err := h.svc.Resolve(r.Context(), q)
	if err != nil {
		log := logger.ForRequest(r.Context())
		log.Error().Err(err).Str("query", q).Msg("Query resolution failed")
		writeError(w, http.StatusInternalServerError, "query resolution failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// LookupHandler serves key-based lookups against the relational mirror.
type LookupHandler struct {
	svc *service.SearchService
}

// NewLookupHandler creates a LookupHandler.
func NewLookupHandler(svc *service.SearchService) *LookupHandler {
	return &LookupHandler{svc: svc}
}

// ByIATA handles GET /por/iata/{code}.
func (h *LookupHandler) ByIATA(w http.ResponseWriter, r *http.Request) {
	h.lookup(w, r, func() (any, error) {
		return h.svc.ListByIATA(r.Context(), r.PathValue("code"))
	})
}

// ByICAO handles GET /por/icao/{code}.
func (h *LookupHandler) ByICAO(w http.ResponseWriter, r *http.Request) {
	h.lookup(w, r, func() (any, error) {
		return h.svc.ListByICAO(r.Context(), r.PathValue("code"))
	})
}

// ByFAA handles GET /por/faa/{code}.
func (h *LookupHandler) ByFAA(w http.ResponseWriter, r *http.Request) {
	h.lookup(w, r, func() (any, error) {
		return h.svc.ListByFAA(r.Context(), r.PathValue("code"))
	})
}

// ByGeonameID handles GET /por/geoname/{id}.
func (h *LookupHandler) ByGeonameID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "geoname id must be numeric")
		return
	}
	h.lookup(w, r, func() (any, error) {
		return h.svc.ListByGeonameID(r.Context(), id)
	})
}

// Count handles GET /por/count.
func (h *LookupHandler) Count(w http.ResponseWriter, r *http.Request) {
	h.lookup(w, r, func() (any, error) {
		n, err := h.svc.CountPOR(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]int64{"count": n}, nil
	})
}

func (h *LookupHandler) lookup(w http.ResponseWriter, r *http.Request, f func() (any, error)) {
	v, err := f()
	if err != nil {
		if errors.Is(err, service.ErrMirrorDisabled) {
			writeError(w, http.StatusNotImplemented, "relational mirror not configured")
			return
		}
		log := logger.ForRequest(r.Context())
		log.Error().Err(err).Msg("Lookup failed")
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, v)
}
