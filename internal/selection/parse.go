// Package selection interprets which discovered listings a run should act
// on: either a raw selection string typed by the operator or a
// non-interactive policy evaluated over the listings themselves.
package selection

import (
	"sort"
	"strconv"
	"strings"
)

// Parse interprets a raw selection over n listings and returns the chosen
// indices, zero-based, deduplicated, in ascending order.
//
// Recognized forms: the literal "all", a single 1-based position, or a
// comma-separated list of 1-based positions (surrounding whitespace is
// tolerated). Anything else, including out-of-range positions, is a
// *ParseError; entries are never clamped or silently dropped.
func Parse(raw string, n int) ([]int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &ParseError{N: n}
	}

	if strings.EqualFold(trimmed, "all") {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return indices, nil
	}

	seen := make(map[int]bool)
	for _, token := range strings.Split(trimmed, ",") {
		token = strings.TrimSpace(token)
		pos, err := strconv.Atoi(token)
		if err != nil {
			return nil, &ParseError{Token: token, N: n}
		}
		if pos < 1 || pos > n {
			return nil, &ParseError{Token: token, N: n}
		}
		seen[pos-1] = true
	}

	indices := make([]int, 0, len(seen))
	for idx := range seen {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices, nil
}
