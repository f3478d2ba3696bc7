package request

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	// DefaultResultsLimit is used when no limit is given
	DefaultResultsLimit = 20
	// MaxResultsLimit caps a single page of results
	MaxResultsLimit = 100
)

// ListResultsQuery holds the query parameters of GET /results
type ListResultsQuery struct {
	Limit int
}

// ParseListResults reads ?limit from the request. Missing means the default;
// values above the cap are clamped.
func ParseListResults(r *http.Request) (ListResultsQuery, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return ListResultsQuery{Limit: DefaultResultsLimit}, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return ListResultsQuery{}, fmt.Errorf("limit must be a positive integer, got %q", raw)
	}
	return ListResultsQuery{Limit: min(limit, MaxResultsLimit)}, nil
}
