package query

import (
	"cmp"
	"math"
	"strconv"
	"strings"

	"blogapi/internal/models"
)

// SortField is a whitelisted sort key.
type SortField string

const (
	SortCreatedAt   SortField = "createdAt"
	SortReadCount   SortField = "read_count"
	SortReadingTime SortField = "reading_time"
)

var sortColumns = map[SortField]string{
	SortCreatedAt:   "b.created_at",
	SortReadCount:   "b.read_count",
	SortReadingTime: "b.reading_time",
}

// ParseSortField returns the named field, or SortCreatedAt for anything
// not on the whitelist.
func ParseSortField(v string) SortField {
	f := SortField(v)
	if _, ok := sortColumns[f]; ok {
		return f
	}
	return SortCreatedAt
}

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder returns Asc only for a case-insensitive "asc"; everything else
// is Desc.
func ParseOrder(v string) Order {
	if strings.EqualFold(strings.TrimSpace(v), string(Asc)) {
		return Asc
	}
	return Desc
}

// Sort orders a listing. Ties fall back to the blog id so pages are stable.
type Sort struct {
	Field SortField
	Order Order
}

// Newest is the default sort: most recently created first.
var Newest = Sort{Field: SortCreatedAt, Order: Desc}

// SQL renders the ORDER BY list.
func (s Sort) SQL() string {
	col, ok := sortColumns[s.Field]
	if !ok {
		col = sortColumns[SortCreatedAt]
	}
	dir := " DESC"
	if s.Order == Asc {
		dir = " ASC"
	}
	return col + dir + ", b.id" + dir
}

// Compare orders a before b under s, for in-memory sorting.
func (s Sort) Compare(a, b *models.Blog) int {
	var c int
	switch s.Field {
	case SortReadCount:
		c = cmp.Compare(a.ReadCount, b.ReadCount)
	case SortReadingTime:
		c = cmp.Compare(a.ReadingTime, b.ReadingTime)
	default:
		c = a.CreatedAt.Compare(b.CreatedAt)
	}
	if c == 0 {
		c = strings.Compare(a.ID.String(), b.ID.String())
	}
	if s.Order == Asc {
		return c
	}
	return -c
}

// Page limits.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit within an int at any limit.
	MaxPage = math.MaxInt / MaxLimit
)

// Page selects one page of a listing.
type Page struct {
	Number int
	Limit  int
}

// ParsePage reads page and limit query values. A missing, non-numeric or
// non-positive page is 1 and larger pages stop at MaxPage. A missing,
// non-numeric or zero limit is 20; any other limit is clamped to [1, 100].
func ParsePage(page, limit string) Page {
	p := DefaultPage
	if n, err := strconv.Atoi(strings.TrimSpace(page)); err == nil && n > 1 {
		p = min(n, MaxPage)
	}

	l := DefaultLimit
	if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil && n != 0 {
		l = min(max(n, 1), MaxLimit)
	}

	return Page{Number: p, Limit: l}
}

// Offset is the number of items skipped before this page. It saturates at
// math.MaxInt instead of overflowing.
func (p Page) Offset() int {
	if p.Number <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Limit
}

// Pagination describes where a page sits in the filtered result set.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalBlogs   int `json:"totalBlogs"`
	BlogsPerPage int `json:"blogsPerPage"`
}

// Paginate builds the pagination block for total matching items.
func (p Page) Paginate(total int) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		CurrentPage:  p.Number,
		TotalPages:   pages,
		TotalBlogs:   total,
		BlogsPerPage: p.Limit,
	}
}

// Query is a complete listing request.
type Query struct {
	Filter Predicate
	Sort   Sort
	Page   Page
}

// Where renders the filter, treating a nil filter as All.
func (q Query) Where(args *Args) string {
	if q.Filter == nil {
		return All().SQL(args)
	}
	return q.Filter.SQL(args)
}

// Matches evaluates the filter, treating a nil filter as All.
func (q Query) Matches(b *models.Blog) bool {
	return q.Filter == nil || q.Filter.Match(b)
}
