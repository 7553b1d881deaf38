package ginx

import (
	"github.com/gin-gonic/gin"
)

// RequestIDHeader 请求 ID 的 HTTP 头
const RequestIDHeader = "X-Request-Id"

// requestIDKey gin.Context 中存放请求 ID 的 key
const requestIDKey = "ginx.request_id"

// RequestID 返回当前请求的 ID，没有经过 RequestID 中间件时为空
func RequestID(ctx *gin.Context) string {
	return ctx.GetString(requestIDKey)
}
