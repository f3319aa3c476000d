package feed

import (
	"github.com/yatube/yatube/internal/models"
)

// Page is one page of a feed
type Page struct {
	Posts      []*models.Post `json:"posts"`
	Number     int            `json:"number"`
	Size       int            `json:"size"`
	TotalPages int            `json:"total_pages"`
	TotalCount int64          `json:"total_count"`
}

// HasNext reports whether a later page exists
func (p *Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// HasPrev reports whether an earlier page exists
func (p *Page) HasPrev() bool {
	return p.Number > 1
}

// paginate computes the page layout for a result set. An out-of-range page
// number clamps to the nearest valid page instead of failing; an empty
// result set is a single empty page.
func paginate(total int64, size, page int) (totalPages, number, offset int) {
	totalPages = int((total + int64(size) - 1) / int64(size))
	if totalPages < 1 {
		totalPages = 1
	}

	number = page
	if number < 1 {
		number = 1
	}
	if number > totalPages {
		number = totalPages
	}

	offset = (number - 1) * size
	return totalPages, number, offset
}
