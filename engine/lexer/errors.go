package lexer

import (
	"fmt"
	"strings"
)

// ParseError represents an error with position info
type ParseError struct {
	Message string
	Line    int
	Column  int
	Token   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// SuggestSimilar finds the closest matching keyword for an unknown word,
// used for "did you mean" diagnostics on unrecognized query starts.
func SuggestSimilar(unknown string) string {
	unknown = strings.ToUpper(unknown)

	var bestMatch string
	bestDistance := 999
	maxDistance := 2 // only suggest if within 2 edits

	// Query-start keywords get a -1 bonus so a near-miss on ASK/TELL beats
	// a near-miss on a clause keyword of equal distance.
	queryStarts := []string{"ASK", "TELL", "FIND", "SHOW", "GET"}
	startSet := make(map[string]bool)
	for _, kw := range queryStarts {
		startSet[kw] = true
		dist := levenshtein(unknown, kw)
		if dist <= maxDistance && dist-1 < bestDistance {
			bestDistance = dist - 1
			bestMatch = kw
		}
	}

	for kw := range keywords {
		if startSet[kw] {
			continue // already checked with bonus
		}
		dist := levenshtein(unknown, kw)
		if dist < bestDistance && dist <= maxDistance {
			bestDistance = dist
			bestMatch = kw
		}
	}

	return bestMatch
}

// levenshtein calculates edit distance between two strings
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
