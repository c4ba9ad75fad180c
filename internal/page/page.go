// Package page defines the listing contract: an ordered slice of at most
// Limit rows plus the total row count for the same predicate.
package page

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

type Page[T any] struct {
	Data  []T   `json:"data"`
	Count int64 `json:"count"`
}

// Normalize clamps skip/limit to sane values. Zero or negative limit falls
// back to DefaultLimit.
func Normalize(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return skip, limit
}
