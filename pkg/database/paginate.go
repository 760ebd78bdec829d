package database

import (
	"social_feed/pkg/utils"

	"gorm.io/gorm"
)

// PageDecorator 包装已排序、已截取的当前页查询，例如只为这一页补充聚合列
type PageDecorator func(page *gorm.DB) *gorm.DB

// Paginate 对已过滤、已关联的查询做分页：先 COUNT(*) 整个结果集，再按 order 取当前页
//
// base 不能带 Order/Offset/Limit，order 必须以唯一列收尾以保证分页稳定。
// per_page 为 0 时只统计总数，不执行取数查询。
func Paginate[T any](base *gorm.DB, order string, page utils.Page, decorators ...PageDecorator) (utils.PageResult[T], error) {
	result := utils.PageResult[T]{
		Items:   []T{},
		Page:    page.Page,
		PerPage: page.PerPage,
	}

	counter := base.Session(&gorm.Session{NewDB: true}).Table("(?) AS paged", base)
	if err := counter.Count(&result.Count).Error; err != nil {
		return result, Classify(err)
	}

	if page.PerPage == 0 || result.Count == 0 {
		return result, nil
	}

	items := base.Session(&gorm.Session{}).
		Order(order).
		Offset(page.Offset()).
		Limit(page.Limit())
	for _, decorate := range decorators {
		items = decorate(items)
	}
	if err := items.Scan(&result.Items).Error; err != nil {
		return result, Classify(err)
	}
	return result, nil
}
