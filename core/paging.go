package core

import (
	"strconv"
	"strings"
)

const DefaultPageSize = 10

// PageSizes are the page sizes offered by list pages.
var PageSizes = []int{5, 10, 25, 50}

type Ordering struct {
	Field     string
	Ascending bool
}

// String renders the ordering the way the API expects it in the sort parameter.
func (ord Ordering) String() string {
	direction := "desc"
	if ord.Ascending {
		direction = "asc"
	}
	return ord.Field + "," + direction
}

// ParseOrderings reads a comma separated list of fields, "-field" meaning descending.
func ParseOrderings(s string) []Ordering {
	var ords []Ordering
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ords = append(ords, Ordering{Field: field, Ascending: !descending})
	}
	return ords
}

// FormatOrderings is the inverse of ParseOrderings.
func FormatOrderings(ords []Ordering) string {
	fields := make([]string, 0, len(ords))
	for _, ord := range ords {
		if ord.Ascending {
			fields = append(fields, ord.Field)
		} else {
			fields = append(fields, "-"+ord.Field)
		}
	}
	return strings.Join(fields, ",")
}

// PageRequest selects a zero-based page of a collection.
type PageRequest struct {
	Page int
	Size int
	Sort []Ordering
}

func NewPageRequest(page, size int, sort ...Ordering) PageRequest {
	pr := PageRequest{Page: page, Size: size, Sort: sort}
	pr.Clean()
	return pr
}

func (pr *PageRequest) Clean() {
	if pr.Page < 0 {
		pr.Page = 0
	}
	if pr.Size <= 0 {
		pr.Size = DefaultPageSize
	}
}

// Query returns the page, size and sort query parameters. Only the first ordering is sent.
func (pr PageRequest) Query() map[string]string {
	pr.Clean()
	q := map[string]string{
		"page": strconv.Itoa(pr.Page),
		"size": strconv.Itoa(pr.Size),
	}
	if len(pr.Sort) > 0 && pr.Sort[0].Field != "" {
		q["sort"] = pr.Sort[0].String()
	}
	return q
}

// Page is one page of a collection as returned by the API.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}
