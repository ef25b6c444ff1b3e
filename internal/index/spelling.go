package index

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/xrash/smetrics"
)

// spellingFile is the dictionary file written inside the index directory.
const spellingFile = "spelling.dict"

// maxEditDistance bounds approximate matching in the spelling dictionary.
const maxEditDistance = 2

// Spelling is the spell dictionary: every term registered during the build,
// with its occurrence count. It is written once at the end of a build and
// read-only afterwards.
type Spelling struct {
	counts map[string]int
	terms  []string
}

func newSpelling() *Spelling {
	return &Spelling{counts: make(map[string]int)}
}

func (s *Spelling) add(term string) {
	if term == "" {
		return
	}
	if _, ok := s.counts[term]; !ok {
		s.terms = append(s.terms, term)
	}
	s.counts[term]++
}

// Len returns the number of distinct terms in the dictionary.
func (s *Spelling) Len() int { return len(s.counts) }

// Has reports whether the term is spelled exactly as a dictionary entry.
func (s *Spelling) Has(term string) bool {
	_, ok := s.counts[term]
	return ok
}

// Suggest returns the best dictionary term within edit distance 2 of the
// input, or false if none qualifies. Candidates are ranked by edit distance
// (a transposition counts as one edit), then occurrence count, then
// JaroWinkler similarity, then lexicographically, so suggestions are
// deterministic.
func (s *Spelling) Suggest(term string) (string, bool) {
	if term == "" {
		return "", false
	}
	if s.Has(term) {
		return term, true
	}

	best := ""
	bestDist := maxEditDistance + 1
	bestCount := 0
	bestSim := 0.0
	for _, cand := range s.terms {
		if diff := len(cand) - len(term); diff > maxEditDistance || diff < -maxEditDistance {
			continue
		}
		dist := editDistance(term, cand)
		if dist > maxEditDistance {
			continue
		}
		count := s.counts[cand]
		sim := smetrics.JaroWinkler(term, cand, 0.5, 3)
		if dist < bestDist ||
			(dist == bestDist && count > bestCount) ||
			(dist == bestDist && count == bestCount && sim > bestSim) ||
			(dist == bestDist && count == bestCount && sim == bestSim && (best == "" || cand < best)) {
			best, bestDist, bestCount, bestSim = cand, dist, count, sim
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// editDistance is the optimal string alignment distance over runes:
// insertions, deletions, substitutions, and adjacent transpositions each
// cost one. Transpositions matter for travel typos ("lso angeles"), and no
// metric in smetrics counts them as a single edit.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	prev2 := make([]int, lb+1)
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			m := prev[j] + 1
			if v := cur[j-1] + 1; v < m {
				m = v
			}
			if v := prev[j-1] + cost; v < m {
				m = v
			}
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if v := prev2[j-2] + 1; v < m {
					m = v
				}
			}
			cur[j] = m
		}
		prev2, prev, cur = prev, cur, prev2
	}
	return prev[lb]
}

// save writes the dictionary into the index directory, one "term count" line
// per entry, sorted for reproducible output.
func (s *Spelling) save(indexPath string) error {
	f, err := os.Create(spellingPath(indexPath))
	if err != nil {
		return fmt.Errorf("create spelling dictionary: %w", err)
	}
	defer f.Close()

	sorted := make([]string, len(s.terms))
	copy(sorted, s.terms)
	sort.Strings(sorted)

	w := bufio.NewWriter(f)
	for _, term := range sorted {
		if _, err := fmt.Fprintf(w, "%s %d\n", term, s.counts[term]); err != nil {
			return fmt.Errorf("write spelling dictionary: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush spelling dictionary: %w", err)
	}
	return nil
}

// loadSpelling reads the dictionary back from the index directory. A missing
// file yields an empty dictionary, matching an empty index.
func loadSpelling(indexPath string) (*Spelling, error) {
	s := newSpelling()
	f, err := os.Open(spellingPath(indexPath))
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("open spelling dictionary: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		term, rawCount, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		count, err := strconv.Atoi(rawCount)
		if err != nil || count < 1 {
			count = 1
		}
		s.terms = append(s.terms, term)
		s.counts[term] = count
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read spelling dictionary: %w", err)
	}
	return s, nil
}

func spellingPath(indexPath string) string {
	return indexPath + string(os.PathSeparator) + spellingFile
}
