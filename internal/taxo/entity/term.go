package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Term 词条在某个分类法中的完整视图
type Term struct {
	TermID         uint64 `json:"term_id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	TermGroup      int64  `json:"term_group"`
	TermTaxonomyID uint64 `json:"term_taxonomy_id"`
	Taxonomy       string `json:"taxonomy"`
	Description    string `json:"description"`
	Parent         uint64 `json:"parent"`
	Count          int64  `json:"count"`
	ObjectID       uint64 `json:"object_id,omitempty"`  // 通过对象查询时填充
	TermOrder      int    `json:"term_order,omitempty"` // 通过对象查询时填充
}

// 旧字段名到字段的映射
var termFieldAliases = map[string]func(t *Term) any{
	"term_id":              func(t *Term) any { return t.TermID },
	"cat_ID":               func(t *Term) any { return t.TermID },
	"name":                 func(t *Term) any { return t.Name },
	"cat_name":             func(t *Term) any { return t.Name },
	"slug":                 func(t *Term) any { return t.Slug },
	"category_nicename":    func(t *Term) any { return t.Slug },
	"term_group":           func(t *Term) any { return t.TermGroup },
	"term_taxonomy_id":     func(t *Term) any { return t.TermTaxonomyID },
	"tt_id":                func(t *Term) any { return t.TermTaxonomyID },
	"taxonomy":             func(t *Term) any { return t.Taxonomy },
	"description":          func(t *Term) any { return t.Description },
	"category_description": func(t *Term) any { return t.Description },
	"parent":               func(t *Term) any { return t.Parent },
	"category_parent":      func(t *Term) any { return t.Parent },
	"count":                func(t *Term) any { return t.Count },
	"category_count":       func(t *Term) any { return t.Count },
	"object_id":            func(t *Term) any { return t.ObjectID },
	"term_order":           func(t *Term) any { return t.TermOrder },
}

// Field 按字段名或旧别名读取字段
func (t *Term) Field(name string) (any, bool) {
	get, ok := termFieldAliases[name]
	if !ok || t == nil {
		return nil, false
	}
	return get(t), true
}

// TermIDs 写操作返回的标识
type TermIDs struct {
	TermID         uint64 `json:"term_id"`
	TermTaxonomyID uint64 `json:"term_taxonomy_id"`
}

// TermRef 按 ID 或名称引用词条
// JSON 中数字表示 ID，字符串表示名称
type TermRef struct {
	ID   uint64
	Name string
}

// TermRefID 按 ID 引用
func TermRefID(id uint64) TermRef {
	return TermRef{ID: id}
}

// TermRefName 按名称引用
func TermRefName(name string) TermRef {
	return TermRef{Name: name}
}

// IsID 是否按 ID 引用
func (r TermRef) IsID() bool {
	return r.ID != 0
}

func (r TermRef) String() string {
	if r.IsID() {
		return strconv.FormatUint(r.ID, 10)
	}
	return r.Name
}

// MarshalJSON 实现 json.Marshaler
func (r TermRef) MarshalJSON() ([]byte, error) {
	if r.IsID() {
		return []byte(strconv.FormatUint(r.ID, 10)), nil
	}
	return json.Marshal(r.Name)
}

// UnmarshalJSON 实现 json.Unmarshaler
func (r *TermRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*r = TermRef{Name: name}
		return nil
	}
	id, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("term reference must be an id or a name: %s", data)
	}
	*r = TermRef{ID: id}
	return nil
}

// TermQuery 词条列表查询条件
type TermQuery struct {
	Taxonomies []string `json:"taxonomies"`
	Include    []uint64 `json:"include,omitempty"`
	Exclude    []uint64 `json:"exclude,omitempty"`
	Parent     *uint64  `json:"parent,omitempty"`
	ChildOf    uint64   `json:"child_of,omitempty"` // 所有后代，需要层级分类法
	Slugs      []string `json:"slugs,omitempty"`
	Names      []string `json:"names,omitempty"`
	Search     string   `json:"search,omitempty"`
	HideEmpty  bool     `json:"hide_empty,omitempty"`
	ObjectIDs  []uint64 `json:"object_ids,omitempty"`
	OrderBy    string   `json:"orderby,omitempty"` // name, slug, term_id, term_group, count, term_order, none
	Order      string   `json:"order,omitempty"`   // ASC, DESC
	Number     int      `json:"number,omitempty"`
	Offset     int      `json:"offset,omitempty"`
}

// CreateTermRequest 创建词条请求
type CreateTermRequest struct {
	Taxonomy    string `json:"taxonomy" binding:"required"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Parent      uint64 `json:"parent"`
	AliasOf     string `json:"alias_of"`
}

// CreateTermResponse 创建词条响应
type CreateTermResponse struct {
	TermIDs
}

// UpdateTermRequest 更新词条请求，未提供的字段保持不变
type UpdateTermRequest struct {
	TermID      uint64  `json:"term_id" binding:"required"`
	Taxonomy    string  `json:"taxonomy" binding:"required"`
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Parent      *uint64 `json:"parent"`
	AliasOf     *string `json:"alias_of"`
}

// UpdateTermResponse 更新词条响应
type UpdateTermResponse struct {
	TermIDs
}

// DeleteTermRequest 删除词条请求
type DeleteTermRequest struct {
	TermID       uint64 `json:"term_id" binding:"required"`
	Taxonomy     string `json:"taxonomy" binding:"required"`
	Default      uint64 `json:"default"`
	ForceDefault bool   `json:"force_default"`
}

// DeleteTermResponse 删除词条响应，Result 为 deleted、not_found 或 protected
type DeleteTermResponse struct {
	Result string `json:"result"`
}

// DescribeTermRequest 查询单个词条请求
// Field 为 id、slug、name、term_taxonomy_id，默认 id
type DescribeTermRequest struct {
	Taxonomy string `json:"taxonomy"`
	Field    string `json:"field"`
	Value    string `json:"value" binding:"required"`
}

// DescribeTermResponse 查询单个词条响应
type DescribeTermResponse struct {
	Term *Term `json:"term"`
}

// DescribeTermsRequest 查询词条列表请求
type DescribeTermsRequest struct {
	TermQuery
}

// DescribeTermsResponse 查询词条列表响应
type DescribeTermsResponse struct {
	Terms []*Term `json:"terms"`
}

// CountTermsRequest 统计词条请求
type CountTermsRequest struct {
	Taxonomy  string `json:"taxonomy" binding:"required"`
	HideEmpty bool   `json:"hide_empty"`
}

// CountTermsResponse 统计词条响应
type CountTermsResponse struct {
	Count int64 `json:"count"`
}

// DescribeTermTreeRequest 查询后代或祖先请求
type DescribeTermTreeRequest struct {
	TermID   uint64 `json:"term_id" binding:"required"`
	Taxonomy string `json:"taxonomy" binding:"required"`
}

// DescribeTermTreeResponse 查询后代或祖先响应
type DescribeTermTreeResponse struct {
	TermIDs []uint64 `json:"term_ids"`
}
