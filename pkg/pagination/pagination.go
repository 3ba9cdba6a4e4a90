package pagination

import "strconv"

const (
	// DefaultLimit is the page size used when a limit is not provided.
	DefaultLimit = 100
	// MaxLimit is the largest per_page value the store API accepts.
	MaxLimit = 100
	// FirstPage is the index of the first page; the API counts from one.
	FirstPage = 1
)

// Params holds page-number pagination inputs.
type Params struct {
	Page    int
	PerPage int
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// First returns the params for the first page at the given page size.
func First(limit int) Params {
	return Params{Page: FirstPage, PerPage: NormalizeLimit(limit)}
}

// Next returns the params for the following page.
func (p Params) Next() Params {
	return Params{Page: p.Page + 1, PerPage: p.PerPage}
}

// IsFirst reports whether p addresses the first page.
func (p Params) IsFirst() bool {
	return p.Page <= FirstPage
}

// IsLastPage applies the short-page heuristic: a page holding fewer records
// than requested is the last one. A full page is never considered last, so a
// total that is an exact multiple of the page size costs one extra request.
func (p Params) IsLastPage(received int) bool {
	return received < p.PerPage
}

// Query renders the params as page/per_page query values.
func (p Params) Query() map[string]string {
	return map[string]string{
		"page":     strconv.Itoa(p.Page),
		"per_page": strconv.Itoa(p.PerPage),
	}
}
