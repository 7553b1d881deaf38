package entity

// SetObjectTermsRequest 设置对象词条请求
// Append 为 false 时对象在该分类法下的词条集合被替换为 Terms
type SetObjectTermsRequest struct {
	ObjectID uint64    `json:"object_id" binding:"required"`
	Taxonomy string    `json:"taxonomy" binding:"required"`
	Terms    []TermRef `json:"terms"`
	Append   bool      `json:"append"`
}

// SetObjectTermsResponse 设置对象词条响应
type SetObjectTermsResponse struct {
	TermTaxonomyIDs []uint64 `json:"term_taxonomy_ids"`
}

// RemoveObjectTermsRequest 移除对象词条请求
type RemoveObjectTermsRequest struct {
	ObjectID uint64    `json:"object_id" binding:"required"`
	Taxonomy string    `json:"taxonomy" binding:"required"`
	Terms    []TermRef `json:"terms"`
}

// RemoveObjectTermsResponse 移除对象词条响应
type RemoveObjectTermsResponse struct {
	Removed bool `json:"removed"`
}

// DeleteObjectTermsRequest 删除对象的所有关系请求，Taxonomies 为空时使用全部分类法
type DeleteObjectTermsRequest struct {
	ObjectID   uint64   `json:"object_id" binding:"required"`
	Taxonomies []string `json:"taxonomies"`
}

// DeleteObjectTermsResponse 删除对象的所有关系响应
type DeleteObjectTermsResponse struct {
	ObjectID uint64 `json:"object_id"`
}

// DescribeObjectTermsRequest 查询对象词条请求
type DescribeObjectTermsRequest struct {
	ObjectID uint64 `json:"object_id" binding:"required"`
	Taxonomy string `json:"taxonomy" binding:"required"`
}

// DescribeObjectTermsResponse 查询对象词条响应
type DescribeObjectTermsResponse struct {
	Terms []*Term `json:"terms"`
}

// DescribeObjectsInTermRequest 查询词条下的对象请求
type DescribeObjectsInTermRequest struct {
	TermIDs    []uint64 `json:"term_ids" binding:"required"`
	Taxonomies []string `json:"taxonomies" binding:"required"`
	Order      string   `json:"order"`
}

// DescribeObjectsInTermResponse 查询词条下的对象响应
type DescribeObjectsInTermResponse struct {
	ObjectIDs []uint64 `json:"object_ids"`
}
