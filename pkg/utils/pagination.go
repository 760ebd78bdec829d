package utils

import (
	"social_feed/internal/pkg/errs"
)

// Pagination 分页请求参数，字段为 nil 时取默认值
type Pagination struct {
	Page    *int `json:"page" form:"page"`
	PerPage *int `json:"per_page" form:"per_page"`
}

// PageResult 分页响应结果
type PageResult[T any] struct {
	Count   int64 `json:"count"`
	Items   []T   `json:"items"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
}

// Page 校验后的分页参数
type Page struct {
	Page    int
	PerPage int
}

// Offset 标准分页偏移量
func (p Page) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Limit 本页最多返回条数
func (p Page) Limit() int {
	return p.PerPage
}

// Resolve 填充默认值并校验：page >= 1，0 <= per_page <= maxPerPage
func (p Pagination) Resolve(defaultPerPage, maxPerPage int) (Page, error) {
	page := 1
	if p.Page != nil {
		page = *p.Page
	}
	if page < 1 {
		return Page{}, errs.Validationf("page must be >= 1, got %d", page)
	}

	perPage := defaultPerPage
	if p.PerPage != nil {
		perPage = *p.PerPage
	}
	if perPage < 0 {
		return Page{}, errs.Validationf("per_page must be >= 0, got %d", perPage)
	}
	if maxPerPage > 0 && perPage > maxPerPage {
		return Page{}, errs.Validationf("per_page must be <= %d, got %d", maxPerPage, perPage)
	}
	return Page{Page: page, PerPage: perPage}, nil
}

// NewPage 直接构造并校验分页参数
func NewPage(page, perPage int) (Page, error) {
	return Pagination{Page: &page, PerPage: &perPage}.Resolve(perPage, 0)
}
