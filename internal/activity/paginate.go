package activity

import "github.com/akashpatki/rupeelog/internal/domain"

const (
	// DefaultPageSize applies when the caller does not ask for a size.
	DefaultPageSize = 20
	// MaxPageSize caps what a caller may request in one page.
	MaxPageSize = 100
)

// Page is one slice of an ordered record set.
type Page struct {
	Items      []domain.ActivityRecord `json:"items"`
	TotalCount int                     `json:"total_count"`
	Page       int                     `json:"page"`
	PageSize   int                     `json:"page_size"`
}

// Paginate slices an ordered record set. Pages are 1-indexed; a page
// past the end yields empty items with the correct total, never an
// error. Out-of-range page numbers and sizes are clamped rather than
// rejected.
func Paginate(records []domain.ActivityRecord, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(records) {
		start = len(records)
	}
	if end > len(records) {
		end = len(records)
	}

	items := make([]domain.ActivityRecord, end-start)
	copy(items, records[start:end])

	return Page{
		Items:      items,
		TotalCount: len(records),
		Page:       page,
		PageSize:   pageSize,
	}
}
