package ginx

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/taxo/pkg/apierror"
)

// bindArgs 绑定请求参数到 args 结构体
// 有 body 时按 JSON 解析，同时绑定 query；空 body 只绑定 query
func bindArgs(ctx *gin.Context, args any) error {
	if ctx.Request.Body != nil && ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(args); err != nil {
			// 未声明长度的空 body 等同于没有 body
			if !errors.Is(err, io.EOF) {
				return err
			}
			return ctx.ShouldBindQuery(args)
		}
		_ = ctx.ShouldBindQuery(args)
		return nil
	}
	return ctx.ShouldBindQuery(args)
}

// invalidParameter 把绑定或校验错误转换为 InvalidParameter
func invalidParameter(err error) error {
	if _, ok := apierror.As(err); ok {
		return err
	}
	return apierror.WrapError(apierror.ErrInvalidParameter, err.Error(), err)
}
