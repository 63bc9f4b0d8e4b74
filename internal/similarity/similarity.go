// Package similarity computes edit distances and normalized similarity scores
// between strings.
package similarity

import "unicode/utf8"

// EditDistance returns the Levenshtein distance between a and b: the minimum
// number of single-rune insertions, deletions and substitutions needed to turn
// a into b.
//
// Only two rows of the dynamic programming table are kept, sized by the
// shorter input.
func EditDistance(a, b string) int {
	if a == b {
		return 0
	}

	ra := []rune(a)
	rb := []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = 1 + min(
				prev[j],   // deletion
				curr[j-1], // insertion
				prev[j-1], // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Similarity returns 1 - EditDistance(a, b) / max(len(a), len(b)), with lengths
// counted in runes. Two empty strings are identical and score 1.
func Similarity(a, b string) float64 {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(EditDistance(a, b))/float64(maxLen)
}
