package text

import "sort"

// Combinations returns the distinct sub-phrases appearing in any ordered
// partition of the phrase, sorted by descending length in bytes with ties
// broken lexicographically. The list feeds the phrase set of an indexed
// Place; the matcher does not iterate over it when resolving a query.
func Combinations(phrase string) []string {
	seen := make(map[string]struct{})
	var list []string
	for _, partition := range Partitions(phrase) {
		for _, sub := range partition {
			if _, ok := seen[sub]; ok {
				continue
			}
			seen[sub] = struct{}{}
			list = append(list, sub)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if len(list[i]) != len(list[j]) {
			return len(list[i]) > len(list[j])
		}
		return list[i] < list[j]
	})
	return list
}
