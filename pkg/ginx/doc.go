// Package ginx 提供 gin 的 handler 适配器和通用中间件
//
// 所有接口使用 JSON。handler 签名：
//
//	// 有参数，有返回值，有 error
//	func(c *gin.Context, args *Args) (resp, error)
//
//	// 有参数，只有 error，成功时返回 204
//	func(c *gin.Context, args *Args) error
//
//	// 无参数，有返回值，有 error
//	func(c *gin.Context) (resp, error)
//
// 参数绑定失败或 IsValid 返回错误时响应 400 InvalidParameter。
// handler 返回的错误链中有 *apierror.Error 时使用它的状态码：
//
//	router := gin.New()
//	router.Use(ginx.WithRequestID(), ginx.WithLogger(logger), ginx.Recovery())
//	router.POST("/api/create-term", ginx.Adapt5(func(c *gin.Context, req *entity.CreateTermRequest) (*entity.CreateTermResponse, error) {
//	    return termService.CreateTerm(c, req)
//	}))
package ginx
