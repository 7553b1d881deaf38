package apierror

import "net/http"

// 通用错误
var (
	// ErrInternalError 发生了内部错误
	ErrInternalError = &Error{
		Code:       "InternalError",
		Message:    "An internal error has occurred.",
		HTTPStatus: http.StatusInternalServerError,
	}

	// ErrInvalidParameter 请求参数不合法
	ErrInvalidParameter = &Error{
		Code:       "InvalidParameter",
		Message:    "A parameter specified in a request is not valid.",
		HTTPStatus: http.StatusBadRequest,
	}

	// ErrDBError 后端存储失败，RawError 保留原始错误
	ErrDBError = &Error{
		Code:       "DbError",
		Message:    "The backing store failed to process the request.",
		HTTPStatus: http.StatusInternalServerError,
	}
)
