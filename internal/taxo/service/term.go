package service

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/jimyag/taxo/internal/taxo/entity"
	"github.com/jimyag/taxo/internal/taxo/event"
	"github.com/jimyag/taxo/internal/taxo/repository"
	"github.com/jimyag/taxo/internal/taxo/repository/model"
	"github.com/jimyag/taxo/pkg/apierror"
	"github.com/jimyag/taxo/pkg/slug"
	"github.com/rs/zerolog"
)

// InsertTermOptions 创建词条的可选参数
type InsertTermOptions struct {
	AliasOf     string // 别名目标的 slug，同一分类法内
	Description string
	Parent      uint64
	Slug        string
}

// UpdateTermFields 更新词条的字段，nil 表示保持不变
type UpdateTermFields struct {
	Name        *string
	Slug        *string
	Description *string
	Parent      *uint64
	AliasOf     *string
}

// DeleteTermOptions 删除词条的参数
type DeleteTermOptions struct {
	// Default 对象失去所有词条时使用的替代词条，0 表示使用分类法的默认词条
	Default uint64
	// ForceDefault 为 true 时所有相关对象都追加替代词条
	ForceDefault bool
}

// DeleteResult 删除结果
type DeleteResult int

const (
	// DeleteNotFound 词条不在该分类法中
	DeleteNotFound DeleteResult = iota
	// DeleteProtected 词条是分类法的默认词条，不能删除
	DeleteProtected
	// Deleted 删除成功
	Deleted
)

func (r DeleteResult) String() string {
	switch r {
	case DeleteProtected:
		return "protected"
	case Deleted:
		return "deleted"
	default:
		return "not_found"
	}
}

// InsertTerm 在分类法中创建词条
func (s *TermService) InsertTerm(ctx context.Context, name, taxonomy string, opts InsertTermOptions) (*entity.TermIDs, error) {
	logger := zerolog.Ctx(ctx).With().Str("taxonomy", taxonomy).Logger()

	tax, err := s.taxonomy(taxonomy)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	if opts.Parent > 0 {
		parent, err := s.termTaxonomy(ctx, opts.Parent, taxonomy)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrMissingParent
		}
	}

	slugProvided := strings.TrimSpace(opts.Slug) != ""
	candidate := slug.Sanitize(name)
	if slugProvided {
		candidate = slug.Sanitize(opts.Slug)
	}

	termGroup, err := s.resolveTermGroup(ctx, opts.AliasOf, taxonomy)
	if err != nil {
		return nil, err
	}

	// 同一分类法（层级分类法中为同一父级）下的重名检查
	nameFilter := model.TermFilter{
		Taxonomies: []string{taxonomy},
		Names:      []string{name},
		OrderBy:    "term_id",
	}
	if tax.Hierarchical {
		nameFilter.Parent = &opts.Parent
	}
	match, err := s.findRow(ctx, nameFilter)
	if err != nil {
		return nil, err
	}
	if match != nil {
		collides := false
		if slugProvided && candidate != match.Slug {
			other, err := s.findRow(ctx, model.TermFilter{
				Taxonomies: []string{taxonomy},
				Slugs:      []string{candidate},
				OrderBy:    "none",
			})
			if err != nil {
				return nil, err
			}
			collides = other != nil
		}
		if !slugProvided || candidate == match.Slug || collides {
			return nil, &TermExistsError{TermID: match.TermID}
		}
	}

	finalSlug := ""
	if candidate != "" {
		finalSlug, err = s.uniqueSlug(ctx, candidate, slugContext{
			Taxonomy:     taxonomy,
			Hierarchical: tax.Hierarchical,
			Parent:       opts.Parent,
		})
		if err != nil {
			return nil, err
		}
	}

	term := &model.Term{Name: name, Slug: finalSlug, TermGroup: termGroup}
	if err := s.store.Terms.Create(ctx, term); err != nil {
		logger.Error().Err(err).Str("name", name).Msg("Failed to insert term")
		return nil, dbError("Could not insert term into the database.", err)
	}

	// 名称无法生成 slug 时使用 term_id
	if term.Slug == "" {
		term.Slug, err = s.uniqueSlug(ctx, strconv.FormatUint(term.TermID, 10), slugContext{
			Taxonomy:     taxonomy,
			Hierarchical: tax.Hierarchical,
			Parent:       opts.Parent,
			TermID:       term.TermID,
		})
		if err != nil {
			return nil, err
		}
		if err := s.store.Terms.Update(ctx, term); err != nil {
			return nil, dbError("Could not update term slug.", err)
		}
	}

	tt := &model.TermTaxonomy{
		TermID:      term.TermID,
		Taxonomy:    taxonomy,
		Description: opts.Description,
		Parent:      opts.Parent,
	}
	if err := s.store.TermTaxonomies.Create(ctx, tt); err != nil {
		logger.Error().Err(err).Uint64("term_id", term.TermID).Msg("Failed to insert term taxonomy")
		_ = s.store.Terms.Delete(ctx, term.TermID)
		return nil, dbError("Could not insert term taxonomy into the database.", err)
	}

	// 并发插入了相同 (slug, parent, taxonomy) 且 term_id 更小的记录时，以先提交者为准
	dup, err := s.findRow(ctx, model.TermFilter{
		Taxonomies:             []string{taxonomy},
		Slugs:                  []string{term.Slug},
		Parent:                 &opts.Parent,
		BelowTermID:            term.TermID,
		ExcludeTermTaxonomyIDs: []uint64{tt.TermTaxonomyID},
		OrderBy:                "term_id",
	})
	if err != nil {
		return nil, err
	}
	if dup != nil {
		if err := s.store.TermTaxonomies.Delete(ctx, tt.TermTaxonomyID); err != nil {
			return nil, dbError("Could not remove duplicate term taxonomy.", err)
		}
		if err := s.store.Terms.Delete(ctx, term.TermID); err != nil {
			return nil, dbError("Could not remove duplicate term.", err)
		}
		logger.Info().
			Uint64("term_id", term.TermID).
			Uint64("existing_term_id", dup.TermID).
			Str("slug", term.Slug).
			Msg("Concurrent term insert detected, using existing term")
		return &entity.TermIDs{TermID: dup.TermID, TermTaxonomyID: dup.TermTaxonomyID}, nil
	}

	s.bump(ctx)

	e := event.New(event.TermCreated, taxonomy)
	e.TermID = term.TermID
	e.TermTaxonomyID = tt.TermTaxonomyID
	s.notify(ctx, e)

	logger.Info().
		Uint64("term_id", term.TermID).
		Uint64("term_taxonomy_id", tt.TermTaxonomyID).
		Str("slug", term.Slug).
		Msg("Term created successfully")

	return &entity.TermIDs{TermID: term.TermID, TermTaxonomyID: tt.TermTaxonomyID}, nil
}

// resolveTermGroup 根据别名目标确定 term_group，目标没有组时分配新组并回写
func (s *TermService) resolveTermGroup(ctx context.Context, aliasOf, taxonomy string) (int64, error) {
	aliasOf = strings.TrimSpace(aliasOf)
	if aliasOf == "" {
		return 0, nil
	}

	alias, err := s.findRow(ctx, model.TermFilter{
		Taxonomies: []string{taxonomy},
		Slugs:      []string{slug.Sanitize(aliasOf)},
		OrderBy:    "term_id",
	})
	if err != nil {
		return 0, err
	}
	if alias == nil {
		return 0, nil
	}
	if alias.TermGroup != 0 {
		return alias.TermGroup, nil
	}

	maxGroup, err := s.store.Terms.MaxTermGroup(ctx)
	if err != nil {
		return 0, dbError("Could not read term groups.", err)
	}
	group := maxGroup + 1
	if err := s.store.Terms.SetTermGroup(ctx, alias.TermID, group); err != nil {
		return 0, dbError("Could not assign term group.", err)
	}
	// 别名目标的分组已写入，即使调用方随后失败也要使缓存失效
	s.bump(ctx)
	return group, nil
}

// GetTerm 按 ID 获取词条，taxonomy 为空时返回该词条的第一个分类关联
// 不存在时返回 nil, nil
func (s *TermService) GetTerm(ctx context.Context, termID uint64, taxonomy string) (*entity.Term, error) {
	if termID == 0 {
		return nil, ErrInvalidTermID
	}
	if taxonomy != "" && !s.registry.Exists(taxonomy) {
		return nil, ErrInvalidTaxonomy
	}

	filter := model.TermFilter{TermIDs: []uint64{termID}, OrderBy: "none"}
	if taxonomy != "" {
		filter.Taxonomies = []string{taxonomy}
	}
	return s.getTermCached(ctx, "get_term", filter)
}

// GetTermBy 按字段获取词条，field 为 id、slug、name、term_taxonomy_id
// slug 和 name 为空时直接返回 nil
func (s *TermService) GetTermBy(ctx context.Context, field, value, taxonomy string) (*entity.Term, error) {
	if taxonomy != "" && !s.registry.Exists(taxonomy) {
		return nil, ErrInvalidTaxonomy
	}

	filter := model.TermFilter{OrderBy: "term_id"}
	if taxonomy != "" {
		filter.Taxonomies = []string{taxonomy}
	}

	switch field {
	case "id", "term_id", "ID":
		id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil || id == 0 {
			return nil, ErrInvalidTermID
		}
		return s.GetTerm(ctx, id, taxonomy)
	case "term_taxonomy_id", "tt_id":
		id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil || id == 0 {
			return nil, ErrInvalidTermID
		}
		filter.TermTaxonomyIDs = []uint64{id}
	case "slug":
		value = slug.Sanitize(value)
		if value == "" {
			return nil, nil
		}
		filter.Slugs = []string{value}
	case "name":
		if value == "" {
			return nil, nil
		}
		filter.Names = []string{value}
	default:
		return nil, apierror.WrapError(apierror.ErrInvalidParameter, "Unsupported term field: "+field, nil)
	}

	return s.getTermCached(ctx, "get_term_by", filter)
}

func (s *TermService) getTermCached(ctx context.Context, prefix string, filter model.TermFilter) (*entity.Term, error) {
	return cached(ctx, s, prefix, filter, func(ctx context.Context) (*entity.Term, error) {
		row, err := s.findRow(ctx, filter)
		if err != nil || row == nil {
			return nil, err
		}
		term, err := termRowToEntity(row)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to convert term", err)
		}
		return term, nil
	})
}

// TermExists 判断词条是否存在于分类法中
// ID 引用按 term_id 查找，名称引用先按 slug 再按名称查找；parent 非 0 时限定父级
func (s *TermService) TermExists(ctx context.Context, ref entity.TermRef, taxonomy string, parent uint64) (*entity.TermIDs, error) {
	filter := model.TermFilter{OrderBy: "term_id"}
	if taxonomy != "" {
		filter.Taxonomies = []string{taxonomy}
	}

	if ref.IsID() {
		filter.TermIDs = []uint64{ref.ID}
		return s.findIDs(ctx, filter)
	}

	name := strings.TrimSpace(ref.Name)
	if name == "" {
		return nil, nil
	}
	if parent != 0 {
		filter.Parent = &parent
	}

	if sl := slug.Sanitize(name); sl != "" {
		bySlug := filter
		bySlug.Slugs = []string{sl}
		ids, err := s.findIDs(ctx, bySlug)
		if err != nil || ids != nil {
			return ids, err
		}
	}

	filter.Names = []string{name}
	return s.findIDs(ctx, filter)
}

func (s *TermService) findIDs(ctx context.Context, filter model.TermFilter) (*entity.TermIDs, error) {
	row, err := s.findRow(ctx, filter)
	if err != nil || row == nil {
		return nil, err
	}
	return &entity.TermIDs{TermID: row.TermID, TermTaxonomyID: row.TermTaxonomyID}, nil
}

// UpdateTerm 更新词条，未提供的字段保持不变
func (s *TermService) UpdateTerm(ctx context.Context, termID uint64, taxonomy string, fields UpdateTermFields) (*entity.TermIDs, error) {
	logger := zerolog.Ctx(ctx).With().Str("taxonomy", taxonomy).Uint64("term_id", termID).Logger()

	tax, err := s.taxonomy(taxonomy)
	if err != nil {
		return nil, err
	}
	if termID == 0 {
		return nil, ErrInvalidTermID
	}

	current, err := s.findRow(ctx, model.TermFilter{
		TermIDs:    []uint64{termID},
		Taxonomies: []string{taxonomy},
		OrderBy:    "none",
	})
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrEmptyTerm
	}

	name := current.Name
	if fields.Name != nil {
		name = strings.TrimSpace(*fields.Name)
	}
	if name == "" {
		return nil, ErrEmptyName
	}

	description := current.Description
	if fields.Description != nil {
		description = *fields.Description
	}

	parent := current.Parent
	if fields.Parent != nil {
		parent = *fields.Parent
		if parent > 0 {
			p, err := s.termTaxonomy(ctx, parent, taxonomy)
			if err != nil {
				return nil, err
			}
			if p == nil {
				return nil, ErrMissingParent
			}
		}
		if tax.Hierarchical && parent != current.Parent {
			parent, err = s.breakHierarchyLoop(ctx, termID, current.Parent, parent, taxonomy)
			if err != nil {
				return nil, err
			}
		}
	}

	emptySlug := false
	candidate := current.Slug
	if fields.Slug != nil {
		candidate = slug.Sanitize(*fields.Slug)
		if candidate == "" {
			emptySlug = true
			candidate = slug.Sanitize(name)
		}
	}
	if candidate == "" {
		candidate = strconv.FormatUint(termID, 10)
	}

	termGroup := current.TermGroup
	if fields.AliasOf != nil && strings.TrimSpace(*fields.AliasOf) != "" {
		termGroup, err = s.resolveTermGroup(ctx, *fields.AliasOf, taxonomy)
		if err != nil {
			return nil, err
		}
	}

	used, err := s.slugInUse(ctx, candidate, taxonomy, termID)
	if err != nil {
		return nil, err
	}
	if used {
		if emptySlug || parent != current.Parent {
			candidate, err = s.uniqueSlug(ctx, candidate, slugContext{
				Taxonomy:     taxonomy,
				Hierarchical: tax.Hierarchical,
				Parent:       parent,
				TermID:       termID,
			})
			if err != nil {
				return nil, err
			}
		} else {
			owner, err := s.slugOwner(ctx, candidate, taxonomy, termID)
			if err != nil {
				return nil, err
			}
			return nil, &TermExistsError{TermID: owner}
		}
	}

	if err := s.store.Terms.Update(ctx, &model.Term{
		TermID:    termID,
		Name:      name,
		Slug:      candidate,
		TermGroup: termGroup,
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to update term")
		return nil, dbError("Could not update term in the database.", err)
	}

	if err := s.store.TermTaxonomies.Update(ctx, &model.TermTaxonomy{
		TermTaxonomyID: current.TermTaxonomyID,
		TermID:         termID,
		Taxonomy:       taxonomy,
		Description:    description,
		Parent:         parent,
		Count:          current.Count,
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to update term taxonomy")
		return nil, dbError("Could not update term taxonomy in the database.", err)
	}

	s.bump(ctx)

	e := event.New(event.TermUpdated, taxonomy)
	e.TermID = termID
	e.TermTaxonomyID = current.TermTaxonomyID
	s.notify(ctx, e)

	logger.Info().Str("slug", candidate).Uint64("parent", parent).Msg("Term updated successfully")

	return &entity.TermIDs{TermID: termID, TermTaxonomyID: current.TermTaxonomyID}, nil
}

// breakHierarchyLoop 处理把词条挂到自己后代下的情况
// 指向自身时改为根；指向后代时把路径上的直接子词条移到词条原来的父级
func (s *TermService) breakHierarchyLoop(ctx context.Context, termID, oldParent, newParent uint64, taxonomy string) (uint64, error) {
	if newParent == termID {
		return 0, nil
	}

	ancestors, err := s.Ancestors(ctx, newParent, taxonomy)
	if err != nil {
		return 0, err
	}
	idx := slices.Index(ancestors, termID)
	if idx < 0 {
		return newParent, nil
	}

	// ancestors 由近到远，termID 前一个是 termID 的直接子词条
	child := newParent
	if idx > 0 {
		child = ancestors[idx-1]
	}
	tt, err := s.termTaxonomy(ctx, child, taxonomy)
	if err != nil {
		return 0, err
	}
	if tt == nil {
		return newParent, nil
	}
	if err := s.store.TermTaxonomies.SetParent(ctx, tt.TermTaxonomyID, oldParent); err != nil {
		return 0, dbError("Could not break term hierarchy loop.", err)
	}
	zerolog.Ctx(ctx).Info().
		Uint64("term_id", child).
		Uint64("parent", oldParent).
		Str("taxonomy", taxonomy).
		Msg("Moved term up to break hierarchy loop")
	return newParent, nil
}

// DeleteTerm 从分类法中删除词条
func (s *TermService) DeleteTerm(ctx context.Context, termID uint64, taxonomy string, opts DeleteTermOptions) (DeleteResult, error) {
	logger := zerolog.Ctx(ctx).With().Str("taxonomy", taxonomy).Uint64("term_id", termID).Logger()

	tax, err := s.taxonomy(taxonomy)
	if err != nil {
		return DeleteNotFound, err
	}
	if termID == 0 {
		return DeleteNotFound, ErrInvalidTermID
	}

	tt, err := s.termTaxonomy(ctx, termID, taxonomy)
	if err != nil {
		return DeleteNotFound, err
	}
	if tt == nil {
		return DeleteNotFound, nil
	}

	replacement := opts.Default
	if configured := s.DefaultTerm(taxonomy); configured != 0 {
		if configured == termID {
			logger.Info().Msg("Refusing to delete default term")
			return DeleteProtected, nil
		}
		if replacement == 0 {
			replacement = configured
		}
	}
	if replacement == termID {
		replacement = 0
	}
	if replacement != 0 {
		r, err := s.termTaxonomy(ctx, replacement, taxonomy)
		if err != nil {
			return DeleteNotFound, err
		}
		if r == nil {
			replacement = 0
		}
	}

	if tax.Hierarchical {
		n, err := s.store.TermTaxonomies.ReparentChildren(ctx, taxonomy, termID, tt.Parent)
		if err != nil {
			return DeleteNotFound, dbError("Could not reassign child terms.", err)
		}
		if n > 0 {
			logger.Info().Int64("children", n).Uint64("parent", tt.Parent).Msg("Child terms reassigned")
		}
	}

	objects, err := s.store.Relationships.ObjectIDs(ctx, []uint64{tt.TermTaxonomyID})
	if err != nil {
		return DeleteNotFound, dbError("Could not read term relationships.", err)
	}
	for _, objectID := range objects {
		ttIDs, err := s.store.Relationships.TermTaxonomyIDs(ctx, objectID, []string{taxonomy})
		if err != nil {
			return DeleteNotFound, dbError("Could not read object terms.", err)
		}
		remaining, err := s.termIDsForTermTaxonomyIDs(ctx, ttIDs)
		if err != nil {
			return DeleteNotFound, err
		}

		var next []uint64
		if len(remaining) == 1 && replacement != 0 {
			next = []uint64{replacement}
		} else {
			next = slices.DeleteFunc(remaining, func(id uint64) bool { return id == termID })
			if replacement != 0 && opts.ForceDefault && !slices.Contains(next, replacement) {
				next = append(next, replacement)
			}
		}

		refs := make([]entity.TermRef, 0, len(next))
		for _, id := range next {
			refs = append(refs, entity.TermRefID(id))
		}
		if _, err := s.SetObjectTerms(ctx, objectID, refs, taxonomy, false); err != nil {
			return DeleteNotFound, err
		}
	}

	if err := s.store.Relationships.DeleteByTermTaxonomyID(ctx, tt.TermTaxonomyID); err != nil {
		return DeleteNotFound, dbError("Could not delete term relationships.", err)
	}
	if err := s.store.TermMeta.DeleteByTermID(ctx, termID); err != nil {
		return DeleteNotFound, dbError("Could not delete term meta.", err)
	}
	s.dropMetaCache(ctx, termID)

	if err := s.store.TermTaxonomies.Delete(ctx, tt.TermTaxonomyID); err != nil {
		return DeleteNotFound, dbError("Could not delete term taxonomy.", err)
	}

	others, err := s.store.TermTaxonomies.ListByTermID(ctx, termID)
	if err != nil {
		return DeleteNotFound, dbError("Could not read term taxonomies.", err)
	}
	if len(others) == 0 {
		if err := s.store.Terms.Delete(ctx, termID); err != nil {
			return DeleteNotFound, dbError("Could not delete term.", err)
		}
	}

	s.bump(ctx)

	e := event.New(event.TermDeleted, taxonomy)
	e.TermID = termID
	e.TermTaxonomyID = tt.TermTaxonomyID
	s.notify(ctx, e)

	logger.Info().Int("objects", len(objects)).Msg("Term deleted successfully")
	return Deleted, nil
}

// EnsureDefaultTerm 确保分类法有默认词条，不存在时按名称创建
func (s *TermService) EnsureDefaultTerm(ctx context.Context, taxonomy, name string) (*entity.TermIDs, error) {
	if _, err := s.taxonomy(taxonomy); err != nil {
		return nil, err
	}

	if current := s.DefaultTerm(taxonomy); current != 0 {
		ids, err := s.TermExists(ctx, entity.TermRefID(current), taxonomy, 0)
		if err != nil {
			return nil, err
		}
		if ids != nil {
			return ids, nil
		}
	}

	ids, err := s.TermExists(ctx, entity.TermRefName(name), taxonomy, 0)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids, err = s.InsertTerm(ctx, name, taxonomy, InsertTermOptions{})
		if existing, ok := ExistingTermID(err); ok {
			ids, err = s.TermExists(ctx, entity.TermRefID(existing), taxonomy, 0)
		}
		if err != nil {
			return nil, err
		}
	}

	s.SetDefaultTerm(taxonomy, ids.TermID)
	zerolog.Ctx(ctx).Info().
		Str("taxonomy", taxonomy).
		Uint64("term_id", ids.TermID).
		Msg("Default term configured")
	return ids, nil
}

// GetTerms 按条件查询词条列表
func (s *TermService) GetTerms(ctx context.Context, q *entity.TermQuery) ([]*entity.Term, error) {
	if q == nil {
		q = &entity.TermQuery{}
	}
	for _, name := range q.Taxonomies {
		if !s.registry.Exists(name) {
			return nil, ErrInvalidTaxonomy
		}
	}

	return cached(ctx, s, "get_terms", q, func(ctx context.Context) ([]*entity.Term, error) {
		slugs := sanitizeSlugs(q.Slugs)
		if len(q.Slugs) > 0 && len(slugs) == 0 {
			return []*entity.Term{}, nil
		}
		filter := model.TermFilter{
			Taxonomies:     q.Taxonomies,
			TermIDs:        q.Include,
			ExcludeTermIDs: q.Exclude,
			Parent:         q.Parent,
			Slugs:          slugs,
			Names:          q.Names,
			Search:         strings.TrimSpace(q.Search),
			HideEmpty:      q.HideEmpty,
			ObjectIDs:      q.ObjectIDs,
			OrderBy:        q.OrderBy,
			Order:          q.Order,
			Limit:          q.Number,
			Offset:         q.Offset,
		}

		if q.ChildOf != 0 {
			descendants, err := s.descendantsIn(ctx, q.ChildOf, q.Taxonomies)
			if err != nil {
				return nil, err
			}
			if len(q.Include) > 0 {
				descendants = slices.DeleteFunc(descendants, func(id uint64) bool {
					return !slices.Contains(q.Include, id)
				})
			}
			if len(descendants) == 0 {
				return []*entity.Term{}, nil
			}
			filter.TermIDs = descendants
		}

		rows, err := s.store.Queries.Find(ctx, filter)
		if err != nil {
			return nil, dbError("Could not query terms.", err)
		}
		terms, err := termRowsToEntities(rows)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to convert terms", err)
		}
		return terms, nil
	})
}

// descendantsIn 汇总词条在给定层级分类法中的所有后代
func (s *TermService) descendantsIn(ctx context.Context, termID uint64, taxonomies []string) ([]uint64, error) {
	if len(taxonomies) == 0 {
		for _, t := range s.registry.List() {
			taxonomies = append(taxonomies, t.Name)
		}
	}
	var out []uint64
	for _, name := range taxonomies {
		if !s.registry.IsHierarchical(name) {
			continue
		}
		children, err := s.Children(ctx, termID, name)
		if err != nil {
			return nil, err
		}
		out = append(out, children...)
	}
	return out, nil
}

// CountTerms 统计分类法中的词条数
func (s *TermService) CountTerms(ctx context.Context, taxonomy string, hideEmpty bool) (int64, error) {
	if _, err := s.taxonomy(taxonomy); err != nil {
		return 0, err
	}

	filter := model.TermFilter{Taxonomies: []string{taxonomy}, HideEmpty: hideEmpty}
	return cached(ctx, s, "count_terms", filter, func(ctx context.Context) (int64, error) {
		count, err := s.store.Queries.Count(ctx, filter)
		if err != nil {
			return 0, dbError("Could not count terms.", err)
		}
		return count, nil
	})
}

// termTaxonomy 返回词条在分类法中的关联记录，不存在时返回 nil, nil
func (s *TermService) termTaxonomy(ctx context.Context, termID uint64, taxonomy string) (*model.TermTaxonomy, error) {
	tt, err := s.store.TermTaxonomies.GetByTermAndTaxonomy(ctx, termID, taxonomy)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, dbError("Could not read term taxonomy.", err)
	}
	return tt, nil
}

// findRow 返回第一条匹配记录，不存在时返回 nil, nil
func (s *TermService) findRow(ctx context.Context, filter model.TermFilter) (*model.TermRow, error) {
	filter.Limit = 1
	rows, err := s.store.Queries.Find(ctx, filter)
	if err != nil {
		return nil, dbError("Could not query terms.", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (s *TermService) termIDsForTermTaxonomyIDs(ctx context.Context, ttIDs []uint64) ([]uint64, error) {
	if len(ttIDs) == 0 {
		return nil, nil
	}
	rows, err := s.store.Queries.Find(ctx, model.TermFilter{TermTaxonomyIDs: ttIDs, OrderBy: "none"})
	if err != nil {
		return nil, dbError("Could not query terms.", err)
	}
	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.TermID)
	}
	return ids, nil
}

func sanitizeSlugs(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if sl := slug.Sanitize(v); sl != "" {
			out = append(out, sl)
		}
	}
	return out
}
