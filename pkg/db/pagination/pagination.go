package pagination

import "gorm.io/gorm"

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Pagination struct {
	Page     int `form:"page,default=1" json:"page"`
	PageSize int `form:"page_size,default=20" json:"page_size"`
}

// Normalize clamps the pagination values to the allowed range.
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Apply returns a gorm scope applying offset and limit.
func (p Pagination) Apply() func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Offset(p.Offset()).Limit(p.PageSize)
	}
}

type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

func BuildPageInfo(p Pagination, total int64) PageInfo {
	pages := int(total) / p.PageSize
	if int(total)%p.PageSize != 0 {
		pages++
	}
	return PageInfo{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: total,
		TotalPages: pages,
	}
}
