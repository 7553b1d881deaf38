// Package apierror 提供统一的错误类型
//
// 错误响应为 JSON 格式：
//
//	{
//	    "errors": [
//	        {
//	            "code": "TermExists",
//	            "message": "A term with the name provided already exists in this taxonomy.",
//	            "data": {"term_id": 12}
//	        }
//	    ],
//	    "requestID": "ea966190-f9aa-478e-9ede-example"
//	}
//
// 错误之间按 Code 比较：
//
//	if errors.Is(err, service.ErrInvalidTaxonomy) {
//	    // ...
//	}
//
// 存储层错误使用 WrapError 包装，原始错误可通过 errors.Unwrap 取回：
//
//	return apierror.WrapError(apierror.ErrDBError, "insert term", err)
package apierror
