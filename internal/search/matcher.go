package search

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/efreeman/porsearch/internal/index"
	"github.com/efreeman/porsearch/internal/text"
)

// scoreEpsilon bounds float comparison when collecting the top-scored hits
// for tie-breaking.
const scoreEpsilon = 1e-9

// Matcher executes index lookups with spelling correction and weighting for
// one slice at a time.
type Matcher struct {
	reader *index.Reader
}

// NewMatcher wraps an open index reader.
func NewMatcher(r *index.Reader) *Matcher {
	return &Matcher{reader: r}
}

// Search resolves one slice phrase. It tries the exact OR-query first, then
// the spell-corrected phrase, then shrinks the phrase word by word from the
// right and finally from the left, stopping at the first attempt whose top
// document reaches TExact. An empty index or an unmatchable phrase yields an
// empty MatchingDocuments, not an error.
func (m *Matcher) Search(ctx context.Context, phrase string) (*MatchingDocuments, error) {
	md := &MatchingDocuments{Phrase: phrase, Weights: make(map[uint64]float64)}

	tokens := text.Tokenize(phrase)
	if len(tokens) == 0 {
		return md, nil
	}
	origLen := len(tokens)

	att, err := m.attempt(ctx, tokens, origLen)
	if err != nil {
		return nil, err
	}
	if att != nil && att.relExec >= TExact {
		fill(md, tokens, att)
		return md, nil
	}

	corrected, changed := correctTokens(m.reader.Spelling(), tokens)
	if changed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		att, err = m.attempt(ctx, corrected, origLen)
		if err != nil {
			return nil, err
		}
		if att != nil && att.relExec >= TExact {
			fill(md, corrected, att)
			return md, nil
		}
	}

	// Shrink from the right, then from the left of the corrected form.
	for n := len(corrected) - 1; n >= 1; n-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		att, err = m.attempt(ctx, corrected[:n], origLen)
		if err != nil {
			return nil, err
		}
		if att != nil && att.relExec >= TExact {
			fill(md, corrected[:n], att)
			return md, nil
		}
	}
	for i := 1; i < len(corrected); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		att, err = m.attempt(ctx, corrected[i:], origLen)
		if err != nil {
			return nil, err
		}
		if att != nil && att.relExec >= TExact {
			fill(md, corrected[i:], att)
			return md, nil
		}
	}

	log.Debug().Str("phrase", phrase).Msg("No attempt reached the match threshold")
	return md, nil
}

// attemptResult carries one retrieval attempt: the ranked hits, the chosen
// best document, and the match confidence measured against the executed
// tokens (relExec) and against the original phrase length (relOrig).
type attemptResult struct {
	result  *index.Result
	best    index.Hit
	relExec float64
	relOrig float64
}

func (m *Matcher) attempt(ctx context.Context, exec []string, origLen int) (*attemptResult, error) {
	res, err := m.reader.SearchTerms(ctx, exec, retrievalSize)
	if err != nil {
		return nil, err
	}
	if len(res.Hits) == 0 {
		return nil, nil
	}

	best := bestHit(res.Hits)
	matched := 0
	for _, tok := range exec {
		for _, mt := range best.MatchedTerms {
			if mt == tok {
				matched++
				break
			}
		}
	}
	covExec := float64(matched) / float64(len(exec))
	covOrig := float64(matched) / float64(origLen)
	return &attemptResult{
		result:  res,
		best:    best,
		relExec: covExec * covExec,
		relOrig: covOrig * covOrig,
	}, nil
}

// bestHit selects the best matching document: highest raw score, ties broken
// by higher page rank, then lower doc ID.
func bestHit(hits []index.Hit) index.Hit {
	best := hits[0]
	top := best.Score
	for _, h := range hits[1:] {
		if h.Score < top-scoreEpsilon {
			break
		}
		if h.PageRank > best.PageRank ||
			(h.PageRank == best.PageRank && h.DocID < best.DocID) {
			best = h
		}
	}
	return best
}

// fill records a successful attempt into the MatchingDocuments: the executed
// phrase, weights normalized to the top document, and the best document with
// its confidence against the original phrase.
func fill(md *MatchingDocuments, exec []string, att *attemptResult) {
	md.Corrected = strings.Join(exec, " ")
	top := att.result.Hits[0].Score
	for _, h := range att.result.Hits {
		md.Weights[h.DocID] = h.Score / top * 100
	}
	loc := att.best.Location
	md.BestDocID = att.best.DocID
	md.BestPct = att.relOrig * 100
	md.Best = &loc
}

// correctTokens replaces each token absent from the spelling dictionary with
// its best suggestion within edit distance 2, keeping tokens that have no
// suggestion. The boolean reports whether anything changed.
func correctTokens(sp *index.Spelling, tokens []string) ([]string, bool) {
	out := make([]string, len(tokens))
	changed := false
	for i, tok := range tokens {
		out[i] = tok
		if sp.Has(tok) {
			continue
		}
		if sug, ok := sp.Suggest(tok); ok && sug != tok {
			out[i] = sug
			changed = true
		}
	}
	return out, changed
}
