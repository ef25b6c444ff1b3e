package index

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/efreeman/porsearch/internal/model"
)

// phraseBoost favors documents whose phrase set contains the whole query
// over documents that merely share individual words.
const phraseBoost = 2.0

// Hit is one retrieved document with its raw relevance score and the query
// terms that matched it.
type Hit struct {
	DocID        uint64
	Score        float64
	PageRank     float64
	Name         string
	MatchedTerms []string
	Location     model.Location
}

// Result is a ranked retrieval set. Hits are ordered by descending score as
// returned by the index.
type Result struct {
	Hits  []Hit
	Total uint64
}

// Reader is a read handle on one committed index generation plus its
// spelling dictionary. Readers are safe for concurrent use; each query
// should hold its own Reader only when isolation between generations
// matters.
type Reader struct {
	idx   bleve.Index
	spell *Spelling
}

// Open opens the index directory for reading.
func Open(indexPath string) (*Reader, error) {
	idx, err := bleve.Open(indexPath)
	if err != nil {
		return nil, &ReadError{Cause: fmt.Errorf("open index %s: %w", indexPath, err)}
	}
	spell, err := loadSpelling(indexPath)
	if err != nil {
		idx.Close()
		return nil, &ReadError{Cause: err}
	}
	return &Reader{idx: idx, spell: spell}, nil
}

// Close releases the underlying index handle.
func (r *Reader) Close() error {
	return r.idx.Close()
}

// Spelling returns the dictionary loaded with this reader.
func (r *Reader) Spelling() *Spelling { return r.spell }

// DocCount returns the number of documents in the index.
func (r *Reader) DocCount() (uint64, error) {
	n, err := r.idx.DocCount()
	if err != nil {
		return 0, &ReadError{Cause: err}
	}
	return n, nil
}

// SearchTerms runs the ranked OR-query over the given tokens: a disjunction
// of exact term lookups, plus a boosted lookup of the whole phrase against
// the stored word combinations.
func (r *Reader) SearchTerms(ctx context.Context, tokens []string, limit int) (*Result, error) {
	if len(tokens) == 0 {
		return &Result{}, nil
	}

	disjuncts := make([]query.Query, 0, len(tokens)+1)
	for _, tok := range tokens {
		tq := bleve.NewTermQuery(tok)
		tq.SetField(fieldTerms)
		disjuncts = append(disjuncts, tq)
	}
	if len(tokens) > 1 {
		pq := bleve.NewTermQuery(strings.Join(tokens, " "))
		pq.SetField(fieldPhrases)
		pq.SetBoost(phraseBoost)
		disjuncts = append(disjuncts, pq)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(disjuncts...), limit, 0, false)
	req.Fields = []string{fieldName, fieldPageRank, fieldPayload}
	req.IncludeLocations = true

	res, err := r.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, &ReadError{Cause: err}
	}

	out := &Result{Total: res.Total}
	for _, hit := range res.Hits {
		h, err := decodeHit(hit.ID, hit.Score, hit.Fields)
		if err != nil {
			return nil, &ReadError{Cause: err}
		}
		for term := range hit.Locations[fieldTerms] {
			h.MatchedTerms = append(h.MatchedTerms, term)
		}
		sort.Strings(h.MatchedTerms)
		out.Hits = append(out.Hits, *h)
	}
	return out, nil
}

// ContainsAll reports whether at least one document carries every one of the
// given tokens. This is the probe the slicing algorithm grows buffers with.
func (r *Reader) ContainsAll(ctx context.Context, tokens []string) (bool, error) {
	if len(tokens) == 0 {
		return false, nil
	}
	conjuncts := make([]query.Query, 0, len(tokens))
	for _, tok := range tokens {
		tq := bleve.NewTermQuery(tok)
		tq.SetField(fieldTerms)
		conjuncts = append(conjuncts, tq)
	}
	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(conjuncts...), 1, 0, false)
	res, err := r.idx.SearchInContext(ctx, req)
	if err != nil {
		return false, &ReadError{Cause: err}
	}
	return res.Total > 0, nil
}

// ByDocID fetches the stored Location for one document.
func (r *Reader) ByDocID(ctx context.Context, docID uint64) (*model.Location, error) {
	q := query.NewDocIDQuery([]string{strconv.FormatUint(docID, 10)})
	req := bleve.NewSearchRequestOptions(q, 1, 0, false)
	req.Fields = []string{fieldName, fieldPageRank, fieldPayload}

	res, err := r.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, &ReadError{Cause: err}
	}
	if len(res.Hits) == 0 {
		return nil, &ReadError{Cause: fmt.Errorf("doc %d not found", docID)}
	}
	h, err := decodeHit(res.Hits[0].ID, res.Hits[0].Score, res.Hits[0].Fields)
	if err != nil {
		return nil, &ReadError{Cause: err}
	}
	return &h.Location, nil
}

// decodeHit rebuilds a Hit from stored fields. The payload field round-trips
// the Location that was indexed.
func decodeHit(id string, score float64, fields map[string]interface{}) (*Hit, error) {
	docID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("doc id %q: %w", id, err)
	}
	h := &Hit{DocID: docID, Score: score}
	if name, ok := fields[fieldName].(string); ok {
		h.Name = name
	}
	if rank, ok := fields[fieldPageRank].(float64); ok {
		h.PageRank = rank
	}
	payload, ok := fields[fieldPayload].(string)
	if !ok {
		return nil, fmt.Errorf("doc %s: missing payload", id)
	}
	if err := json.Unmarshal([]byte(payload), &h.Location); err != nil {
		return nil, fmt.Errorf("doc %s: decode payload: %w", id, err)
	}
	return h, nil
}
