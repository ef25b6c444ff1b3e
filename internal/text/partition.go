package text

import "strings"

// Partitions enumerates every ordered partition of a phrase into contiguous
// word groups. For "a b c" it yields [[a, b, c], [a, b c], [a b, c], [a b c]]
// — 2^(n-1) partitions for n words, in a deterministic order. Each partition
// is one way to read the phrase as a list of sub-queries.
func Partitions(phrase string) [][]string {
	words := strings.Fields(phrase)
	return partitionWords(words)
}

func partitionWords(words []string) [][]string {
	if len(words) == 0 {
		return nil
	}
	var out [][]string
	for i := 1; i <= len(words); i++ {
		head := strings.Join(words[:i], " ")
		if i == len(words) {
			out = append(out, []string{head})
			continue
		}
		for _, rest := range partitionWords(words[i:]) {
			p := make([]string, 0, 1+len(rest))
			p = append(p, head)
			p = append(p, rest...)
			out = append(out, p)
		}
	}
	return out
}
