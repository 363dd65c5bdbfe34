package api

import (
	"errors"
	"net/http"

	"butce/service"

	"github.com/gin-gonic/gin"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400 错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401 错误响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// NotFound 404 错误响应
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500 错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// ServiceError 将 service 层领域错误映射为对应的 HTTP 响应
// 领域错误按种类区分，未知错误走 SafeErrorMessage 兜底
func ServiceError(c *gin.Context, err error, fallback string) {
	var mismatch *service.CategoryTypeMismatchError
	switch {
	case errors.As(err, &mismatch):
		BadRequest(c, mismatch.Error())
	case errors.Is(err, service.ErrCategoryNotFound):
		BadRequest(c, service.ErrCategoryNotFound.Error())
	case errors.Is(err, service.ErrDefaultCategoryProtected):
		BadRequest(c, service.ErrDefaultCategoryProtected.Error())
	case errors.Is(err, service.ErrInvalidMonth):
		BadRequest(c, service.ErrInvalidMonth.Error())
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, service.ErrNotFound.Error())
	default:
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}
