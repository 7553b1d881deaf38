package entity

// Taxonomy 分类法
type Taxonomy struct {
	Name         string   `json:"name"`
	ObjectTypes  []string `json:"object_types"`
	Hierarchical bool     `json:"hierarchical"`
	Sort         bool     `json:"sort"`
	Builtin      bool     `json:"builtin"`
	Label        string   `json:"label,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// RegisterTaxonomyRequest 注册分类法请求
type RegisterTaxonomyRequest struct {
	Name         string   `json:"name" binding:"required"`
	ObjectTypes  []string `json:"object_types"`
	Hierarchical bool     `json:"hierarchical"`
	Sort         bool     `json:"sort"`
	Label        string   `json:"label"`
	Description  string   `json:"description"`
}

// RegisterTaxonomyResponse 注册分类法响应
type RegisterTaxonomyResponse struct {
	Taxonomy *Taxonomy `json:"taxonomy"`
}

// UnregisterTaxonomyRequest 注销分类法请求
type UnregisterTaxonomyRequest struct {
	Name string `json:"name" binding:"required"`
}

// UnregisterTaxonomyResponse 注销分类法响应
type UnregisterTaxonomyResponse struct {
	Name string `json:"name"`
}

// DescribeTaxonomiesRequest 查询分类法请求，ObjectType 为空时返回全部
type DescribeTaxonomiesRequest struct {
	ObjectType string `json:"object_type"`
}

// DescribeTaxonomiesResponse 查询分类法响应
type DescribeTaxonomiesResponse struct {
	Taxonomies []*Taxonomy `json:"taxonomies"`
}
