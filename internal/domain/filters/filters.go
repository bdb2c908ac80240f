package filters

import (
	"fmt"
	"math"

	"reviewhub/proj/internal/domain/errs"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 10_000_000
)

type Filters struct {
	Page     int
	PageSize int
}

// Validate rejects pages whose offset would not fit the query.
func (f Filters) Validate() error {
	if f.Page > MaxPage {
		return errs.Validation("page", fmt.Sprintf("The maximum value is %d", MaxPage))
	}
	return nil
}

// Normalize fills zero page values with defaults.
func (f *Filters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

func (f *Filters) Limit() int {
	return f.PageSize
}

func (f *Filters) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Paginate slices an already ordered result set the same way the SQL
// LIMIT/OFFSET pair does.
func Paginate[T any](items []T, f Filters) []T {
	start := f.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + f.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

type Metadata struct {
	CurrentPage  int `json:"current_page,omitempty"`
	PageSize     int `json:"page_size,omitempty"`
	FirstPage    int `json:"first_page,omitempty"`
	LastPage     int `json:"last_page,omitempty"`
	TotalRecords int `json:"total_records,omitempty"`
}

// CalculateMetadata returns empty metadata when there are no records.
func CalculateMetadata(totalRecords, page, pageSize int) Metadata {
	if totalRecords == 0 {
		return Metadata{}
	}
	return Metadata{
		CurrentPage:  page,
		PageSize:     pageSize,
		FirstPage:    1,
		LastPage:     int(math.Ceil(float64(totalRecords) / float64(pageSize))),
		TotalRecords: totalRecords,
	}
}
