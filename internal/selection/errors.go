package selection

import "fmt"

// ParseError reports an invalid selection string. It always names the
// offending token and the valid range so the operator can correct the input.
type ParseError struct {
	Token string // offending token; empty when the whole input was empty
	N     int    // number of selectable listings
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("empty selection (valid range: 1-%d)", e.N)
	}
	return fmt.Sprintf("invalid selection %q (valid range: 1-%d)", e.Token, e.N)
}
