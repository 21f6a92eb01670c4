package pages

import (
	"fmt"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
)

// Pagination is the footer state of a list page. Page is zero-based.
type Pagination struct {
	Page          int
	Size          int
	TotalElements int64
	TotalPages    int
}

func (p *Pagination) clean() {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = core.DefaultPageSize
	}
}

// SetPageSize changes the page size and goes back to the first page.
func (p *Pagination) SetPageSize(size int) {
	p.Size = size
	p.Page = 0
	p.clean()
}

// First is the 1-based position of the first row shown, 0 for an empty list.
func (p Pagination) First() int64 {
	if p.TotalElements == 0 {
		return 0
	}
	return int64(p.Page)*int64(p.Size) + 1
}

// Last is the 1-based position of the last row shown.
func (p Pagination) Last() int64 {
	last := int64(p.Page+1) * int64(p.Size)
	if last > p.TotalElements {
		return p.TotalElements
	}
	return last
}

func (p Pagination) HasPrev() bool {
	return p.Page > 0
}

func (p Pagination) HasNext() bool {
	return p.Page+1 < p.TotalPages
}

func (p Pagination) Summary() string {
	return fmt.Sprintf("Showing %d to %d of %d entries", p.First(), p.Last(), p.TotalElements)
}
