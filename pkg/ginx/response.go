package ginx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jimyag/taxo/pkg/apierror"
	"github.com/rs/zerolog"
)

// renderResponse 以 JSON 渲染响应，nil 返回 204
func renderResponse(ctx *gin.Context, response any) {
	if response == nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	switch v := response.(type) {
	case string:
		ctx.String(http.StatusOK, v)
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, bool:
		ctx.JSON(http.StatusOK, gin.H{"value": v})
	default:
		ctx.JSON(http.StatusOK, response)
	}
}

// renderError 渲染错误响应
//
// 错误链中有 *apierror.Error 时使用它的 Code 和 HTTPStatus，
// *apierror.ErrorResponse 原样输出，其他错误统一为 InternalError
func renderError(ctx *gin.Context, statusCode int, err error) {
	requestID := RequestID(ctx)

	if errorResp, ok := err.(*apierror.ErrorResponse); ok {
		if len(errorResp.Errors) > 0 && errorResp.Errors[0].HTTPStatus > 0 {
			statusCode = errorResp.Errors[0].HTTPStatus
		}
		if errorResp.RequestID == "" {
			errorResp.RequestID = requestID
		}
		ctx.JSON(statusCode, errorResp)
		return
	}

	apiErr, ok := apierror.As(err)
	if !ok {
		apiErr = apierror.WrapError(apierror.ErrInternalError, apierror.ErrInternalError.Message, err)
	}
	if apiErr.HTTPStatus > 0 {
		statusCode = apiErr.HTTPStatus
	}

	if statusCode >= http.StatusInternalServerError {
		zerolog.Ctx(ctx.Request.Context()).Error().
			Err(err).
			Str("code", apiErr.Code).
			Msg("Request failed")
	}

	ctx.JSON(statusCode, apierror.NewErrorResponse(requestID, apiErr))
}
