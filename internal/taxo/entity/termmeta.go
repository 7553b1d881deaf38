package entity

// AddTermMetaRequest 添加词条元数据请求
type AddTermMetaRequest struct {
	TermID uint64 `json:"term_id" binding:"required"`
	Key    string `json:"key" binding:"required"`
	Value  string `json:"value"`
	Unique bool   `json:"unique"`
}

// AddTermMetaResponse 添加词条元数据响应
type AddTermMetaResponse struct {
	MetaID uint64 `json:"meta_id"`
}

// UpdateTermMetaRequest 更新词条元数据请求，PrevValue 非空时只更新匹配的值
type UpdateTermMetaRequest struct {
	TermID    uint64 `json:"term_id" binding:"required"`
	Key       string `json:"key" binding:"required"`
	Value     string `json:"value"`
	PrevValue string `json:"prev_value"`
}

// UpdateTermMetaResponse 更新词条元数据响应
type UpdateTermMetaResponse struct {
	Updated bool `json:"updated"`
}

// DeleteTermMetaRequest 删除词条元数据请求，Value 非空时只删除匹配的值
type DeleteTermMetaRequest struct {
	TermID uint64 `json:"term_id" binding:"required"`
	Key    string `json:"key" binding:"required"`
	Value  string `json:"value"`
}

// DeleteTermMetaResponse 删除词条元数据响应
type DeleteTermMetaResponse struct {
	Deleted bool `json:"deleted"`
}

// DescribeTermMetaRequest 查询词条元数据请求，Key 为空时返回全部
type DescribeTermMetaRequest struct {
	TermID uint64 `json:"term_id" binding:"required"`
	Key    string `json:"key"`
}

// DescribeTermMetaResponse 查询词条元数据响应
type DescribeTermMetaResponse struct {
	Meta map[string][]string `json:"meta"`
}
