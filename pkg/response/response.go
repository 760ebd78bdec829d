package response

import (
	"errors"
	"net/http"

	"social_feed/internal/pkg/errs"
	"social_feed/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`    // 业务码
	Message string      `json:"message"` // 提示信息
	Data    interface{} `json:"data"`    // 数据
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// Fail 业务失败响应 (HTTP 200, 业务码非 0)
func Fail(c *gin.Context, errCode int, msg string) {
	c.JSON(http.StatusOK, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// Status 错误分类对应的 HTTP 状态与业务码
func Status(kind errs.Kind) (int, int) {
	switch kind {
	case errs.KindNotFound:
		return http.StatusNotFound, ErrNotFound
	case errs.KindPermissionDenied:
		return http.StatusForbidden, ErrNoPermission
	case errs.KindConflict:
		return http.StatusConflict, ErrConflict
	case errs.KindValidation:
		return http.StatusBadRequest, ErrInvalidParam
	case errs.KindUnauthorized:
		return http.StatusUnauthorized, ErrAuthFailed
	case errs.KindUnavailable:
		return http.StatusServiceUnavailable, ErrStorageUnavailable
	default:
		return http.StatusInternalServerError, ErrServerInternal
	}
}

// FromError 按错误分类输出响应，内部错误不向客户端暴露细节
func FromError(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	httpCode, errCode := Status(kind)

	msg := err.Error()
	var e *errs.Error
	if errors.As(err, &e) {
		msg = e.Msg
	}
	if kind == errs.KindInternal || kind == errs.KindUnavailable {
		logger.Log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("kind", kind.String()),
			zap.Error(err),
		)
		if kind == errs.KindInternal {
			msg = "internal server error"
		}
	}
	Error(c, httpCode, errCode, msg)
}
