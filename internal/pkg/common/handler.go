// Package common 各领域 handler 共用的参数解析
package common

import (
	"strconv"

	"social_feed/internal/pkg/config"
	"social_feed/internal/pkg/errs"
	"social_feed/pkg/response"
	"social_feed/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ParamID 解析路径中的正整数 ID，失败时已写入响应
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.FromError(c, errs.Validationf("invalid %s", name))
		return 0, false
	}
	return id, true
}

// BindPage 解析 page/per_page 查询参数，失败时已写入响应
func BindPage(c *gin.Context, cfg config.FeedConfig) (utils.Page, bool) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.FromError(c, errs.Validation("page and per_page must be integers"))
		return utils.Page{}, false
	}
	page, err := p.Resolve(cfg.DefaultPerPage, cfg.MaxPerPage)
	if err != nil {
		response.FromError(c, err)
		return utils.Page{}, false
	}
	return page, true
}

// BindJSON 绑定请求体，失败时已写入响应
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.FromError(c, errs.Validation(err.Error()))
		return false
	}
	return true
}
