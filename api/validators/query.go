package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ardidrizi/inventory-saas/pkg/pagination"
)

// ParseQueryInt reads an integer query parameter, returning fallback when the
// parameter is absent or malformed.
func ParseQueryInt(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// ParsePagination reads page and limit query parameters into normalized
// pagination params.
func ParsePagination(r *http.Request) pagination.Params {
	params := pagination.Params{
		Page:  ParseQueryInt(r, "page", 0),
		Limit: ParseQueryInt(r, "limit", 0),
	}
	return params.Normalize()
}
