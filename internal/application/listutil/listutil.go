package listutil

import (
	"net/url"
	"strconv"
)

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page
}

// PageInfo carries pagination metadata for responses.
type PageInfo struct {
	Page       int // current page (1-indexed)
	PerPage    int // rows per page
	Total      int // total matching rows
	TotalPages int // ceil(Total / PerPage)
}

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100, 200}

// ParsePageParams extracts page and per_page from URL query values.
// ok is false when the request asks for no paging at all.
// PRE: none
// POST: returns valid PageParams with defaults applied
func ParsePageParams(q url.Values) (PageParams, bool) {
	if q.Get("page") == "" && q.Get("per_page") == "" {
		return PageParams{}, false
	}
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !isValidPerPage(perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}, true
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: returns PageInfo with TotalPages computed; Page clamped to valid range
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the index of the first row on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// EndRow returns min(Offset+PerPage, Total).
func (p PageInfo) EndRow() int {
	end := p.Offset() + p.PerPage
	if end > p.Total {
		end = p.Total
	}
	return end
}

// Paginate returns the rows of the requested page and its metadata.
// POST: the returned slice is never nil
func Paginate[T any](rows []T, params PageParams) ([]T, PageInfo) {
	info := NewPageInfo(params.Page, params.PerPage, len(rows))
	page := make([]T, 0, info.EndRow()-info.Offset())
	return append(page, rows[info.Offset():info.EndRow()]...), info
}

// FilterBy keeps the rows whose key equals want. An empty want keeps everything.
func FilterBy[T any](rows []T, want string, key func(T) string) []T {
	if want == "" {
		return rows
	}
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if key(r) == want {
			out = append(out, r)
		}
	}
	return out
}

func isValidPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}
