// Package text implements the word-level building blocks of the query
// pipeline: tokenization, ordered phrase partitions, and word-combination
// candidate lists.
package text

import "strings"

// Separators is the fixed set of characters that delimit terms. Space is the
// only whitespace character in it; tabs and newlines do not split terms.
const Separators = " .,;:|+-*/_=!@#$%`~^&(){}[]?'<>\""

// isSeparator reports whether r delimits terms.
func isSeparator(r rune) bool {
	return strings.ContainsRune(Separators, r)
}

// Tokenize splits a phrase on the separator set and lowercases the result.
// Empty terms are never yielded and input order is preserved.
func Tokenize(phrase string) []string {
	fields := strings.FieldsFunc(phrase, isSeparator)
	if len(fields) == 0 {
		return nil
	}
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, strings.ToLower(f))
	}
	return terms
}

// Normalize tokenizes a phrase and joins the terms back with single spaces,
// producing the canonical form used for index keys and cache keys.
func Normalize(phrase string) string {
	return strings.Join(Tokenize(phrase), " ")
}
