package search

import (
	"context"
	"strings"

	"github.com/efreeman/porsearch/internal/index"
	"github.com/efreeman/porsearch/internal/text"
)

// SliceQuery splits a raw query into independent slices, each expected to
// resolve to a separate place. It walks left to right, greedily growing a
// slice one word at a time and probing the index for the buffer (with
// spelling correction); a word that would make the buffer stop matching
// closes the slice and starts the next one. Slices are contiguous,
// non-overlapping, and cover the query exactly.
func SliceQuery(ctx context.Context, r *index.Reader, query string) ([]string, error) {
	words := strings.Fields(query)
	if len(words) == 0 {
		return nil, nil
	}

	var slices []string
	var buf []string
	var bufTokens []string

	for _, word := range words {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wordTokens, _ := correctTokens(r.Spelling(), text.Tokenize(word))

		cand := make([]string, 0, len(bufTokens)+len(wordTokens))
		cand = append(cand, bufTokens...)
		cand = append(cand, wordTokens...)

		ok, err := r.ContainsAll(ctx, cand)
		if err != nil {
			return nil, err
		}
		if ok || len(buf) == 0 {
			buf = append(buf, word)
			bufTokens = cand
			continue
		}

		slices = append(slices, strings.Join(buf, " "))
		buf = []string{word}
		bufTokens = wordTokens
	}
	if len(buf) > 0 {
		slices = append(slices, strings.Join(buf, " "))
	}
	return slices, nil
}
