package service

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/jimyag/taxo/internal/taxo/cache"
	"github.com/jimyag/taxo/internal/taxo/entity"
	"github.com/jimyag/taxo/internal/taxo/event"
	"github.com/jimyag/taxo/internal/taxo/repository/model"
	"github.com/jimyag/taxo/pkg/apierror"
	"github.com/rs/zerolog"
)

// SetObjectTerms 设置对象在分类法中的词条
//
// 名称引用的词条不存在时会被创建，ID 引用的词条不存在时跳过。
// appendMode 为 false 时移除不在 refs 中的关系。
// 中途失败时已经写入的关系不会回滚。
func (s *TermService) SetObjectTerms(ctx context.Context, objectID uint64, refs []entity.TermRef, taxonomy string, appendMode bool) ([]uint64, error) {
	logger := zerolog.Ctx(ctx).With().Str("taxonomy", taxonomy).Uint64("object_id", objectID).Logger()

	tax, err := s.taxonomy(taxonomy)
	if err != nil {
		return nil, err
	}

	oldIDs, err := s.store.Relationships.TermTaxonomyIDs(ctx, objectID, []string{taxonomy})
	if err != nil {
		return nil, dbError("Could not read object terms.", err)
	}

	ttIDs := make([]uint64, 0, len(refs))
	var added []uint64
	for _, ref := range refs {
		if !ref.IsID() && strings.TrimSpace(ref.Name) == "" {
			continue
		}

		ids, err := s.TermExists(ctx, ref, taxonomy, 0)
		if err != nil {
			return nil, err
		}
		if ids == nil {
			if ref.IsID() {
				continue
			}
			ids, err = s.InsertTerm(ctx, ref.Name, taxonomy, InsertTermOptions{})
			if err != nil {
				logger.Error().Err(err).Str("term", ref.Name).Msg("Failed to insert term for object")
				return nil, err
			}
		}

		if slices.Contains(ttIDs, ids.TermTaxonomyID) {
			continue
		}
		ttIDs = append(ttIDs, ids.TermTaxonomyID)

		created, err := s.store.Relationships.Create(ctx, &model.TermRelationship{
			ObjectID:       objectID,
			TermTaxonomyID: ids.TermTaxonomyID,
		})
		if err != nil {
			return nil, dbError("Could not insert term relationship into the database.", err)
		}
		if created {
			added = append(added, ids.TermTaxonomyID)
		}
	}

	if err := s.updateCounts(ctx, added); err != nil {
		return nil, err
	}

	if !appendMode {
		stale := slices.DeleteFunc(slices.Clone(oldIDs), func(id uint64) bool {
			return slices.Contains(ttIDs, id)
		})
		if _, err := s.removeRelationships(ctx, objectID, taxonomy, stale); err != nil {
			return nil, err
		}

		if tax.Sort {
			for i, id := range ttIDs {
				if err := s.store.Relationships.SetOrder(ctx, objectID, id, i+1); err != nil {
					return nil, dbError("Could not update term order.", err)
				}
			}
		}
	}

	s.dropObjectCache(ctx, objectID, taxonomy)
	s.bump(ctx)

	e := event.New(event.ObjectTermsChanged, taxonomy)
	e.ObjectID = objectID
	e.TermTaxonomyIDs = ttIDs
	e.OldTermTaxonomyIDs = oldIDs
	s.notify(ctx, e)

	logger.Debug().
		Int("terms", len(ttIDs)).
		Int("added", len(added)).
		Bool("append", appendMode).
		Msg("Object terms set")

	return ttIDs, nil
}

// AddObjectTerms 为对象追加词条，不移除已有关系
func (s *TermService) AddObjectTerms(ctx context.Context, objectID uint64, refs []entity.TermRef, taxonomy string) ([]uint64, error) {
	return s.SetObjectTerms(ctx, objectID, refs, taxonomy, true)
}

// RemoveObjectTerms 移除对象与指定词条的关系，返回是否有关系被删除
func (s *TermService) RemoveObjectTerms(ctx context.Context, objectID uint64, refs []entity.TermRef, taxonomy string) (bool, error) {
	if _, err := s.taxonomy(taxonomy); err != nil {
		return false, err
	}

	var ttIDs []uint64
	for _, ref := range refs {
		ids, err := s.TermExists(ctx, ref, taxonomy, 0)
		if err != nil {
			return false, err
		}
		if ids != nil && !slices.Contains(ttIDs, ids.TermTaxonomyID) {
			ttIDs = append(ttIDs, ids.TermTaxonomyID)
		}
	}
	if len(ttIDs) == 0 {
		return false, nil
	}

	oldIDs, err := s.store.Relationships.TermTaxonomyIDs(ctx, objectID, []string{taxonomy})
	if err != nil {
		return false, dbError("Could not read object terms.", err)
	}

	n, err := s.removeRelationships(ctx, objectID, taxonomy, ttIDs)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	s.bump(ctx)

	e := event.New(event.ObjectTermsChanged, taxonomy)
	e.ObjectID = objectID
	e.TermTaxonomyIDs = slices.DeleteFunc(slices.Clone(oldIDs), func(id uint64) bool {
		return slices.Contains(ttIDs, id)
	})
	e.OldTermTaxonomyIDs = oldIDs
	s.notify(ctx, e)

	return true, nil
}

// DeleteObjectTermRelationships 删除对象在给定分类法中的所有关系，taxonomies 为空时处理所有已注册分类法
func (s *TermService) DeleteObjectTermRelationships(ctx context.Context, objectID uint64, taxonomies []string) error {
	if len(taxonomies) == 0 {
		for _, t := range s.registry.List() {
			taxonomies = append(taxonomies, t.Name)
		}
	}

	changed := false
	for _, name := range taxonomies {
		if _, err := s.taxonomy(name); err != nil {
			return err
		}
		ttIDs, err := s.store.Relationships.TermTaxonomyIDs(ctx, objectID, []string{name})
		if err != nil {
			return dbError("Could not read object terms.", err)
		}
		n, err := s.removeRelationships(ctx, objectID, name, ttIDs)
		if err != nil {
			return err
		}
		if n > 0 {
			changed = true
			e := event.New(event.ObjectTermsChanged, name)
			e.ObjectID = objectID
			e.OldTermTaxonomyIDs = ttIDs
			s.notify(ctx, e)
		}
	}

	if changed {
		s.bump(ctx)
	}
	return nil
}

// removeRelationships 删除关系并重算计数
func (s *TermService) removeRelationships(ctx context.Context, objectID uint64, taxonomy string, ttIDs []uint64) (int64, error) {
	if len(ttIDs) == 0 {
		return 0, nil
	}
	n, err := s.store.Relationships.Delete(ctx, objectID, ttIDs)
	if err != nil {
		return 0, dbError("Could not delete term relationships.", err)
	}
	if n > 0 {
		if err := s.updateCounts(ctx, ttIDs); err != nil {
			return n, err
		}
	}
	s.dropObjectCache(ctx, objectID, taxonomy)
	return n, nil
}

// GetObjectTerms 返回对象在分类法中的词条
// sort 分类法按 term_order 排序，其他按名称排序
func (s *TermService) GetObjectTerms(ctx context.Context, objectID uint64, taxonomy string) ([]*entity.Term, error) {
	tax, err := s.taxonomy(taxonomy)
	if err != nil {
		return nil, err
	}

	// 对象的关系按稳定身份缓存，写入时显式删除
	load := func(ctx context.Context) ([]uint64, error) {
		ids, err := s.store.Relationships.TermTaxonomyIDs(ctx, objectID, []string{taxonomy})
		if err != nil {
			return nil, dbError("Could not read object terms.", err)
		}
		return ids, nil
	}
	var ttIDs []uint64
	if s.cache != nil {
		ttIDs, err = cache.Remember(ctx, s.cache, objectKey(objectID), cache.RelationshipsNamespace(taxonomy), load)
	} else {
		ttIDs, err = load(ctx)
	}
	if err != nil {
		return nil, err
	}
	if len(ttIDs) == 0 {
		return []*entity.Term{}, nil
	}

	query := &entity.TermQuery{Taxonomies: []string{taxonomy}}
	terms, err := s.termsByTermTaxonomyIDs(ctx, query, ttIDs)
	if err != nil {
		return nil, err
	}

	if tax.Sort {
		pos := make(map[uint64]int, len(ttIDs))
		for i, id := range ttIDs {
			pos[id] = i
		}
		slices.SortStableFunc(terms, func(a, b *entity.Term) int {
			return pos[a.TermTaxonomyID] - pos[b.TermTaxonomyID]
		})
		for i, t := range terms {
			t.TermOrder = i + 1
		}
	}
	for _, t := range terms {
		t.ObjectID = objectID
	}
	return terms, nil
}

func (s *TermService) termsByTermTaxonomyIDs(ctx context.Context, q *entity.TermQuery, ttIDs []uint64) ([]*entity.Term, error) {
	params := struct {
		Query *entity.TermQuery `json:"query"`
		IDs   []uint64          `json:"tt_ids"`
	}{q, ttIDs}
	return cached(ctx, s, "terms_by_tt_ids", params, func(ctx context.Context) ([]*entity.Term, error) {
		rows, err := s.store.Queries.Find(ctx, model.TermFilter{
			Taxonomies:      q.Taxonomies,
			TermTaxonomyIDs: ttIDs,
			OrderBy:         "name",
		})
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

// GetObjectsInTerm 返回关联到任一词条的对象 ID，order 为 ASC 或 DESC
func (s *TermService) GetObjectsInTerm(ctx context.Context, termIDs []uint64, taxonomies []string, order string) ([]uint64, error) {
	if len(taxonomies) == 0 {
		return nil, ErrInvalidTaxonomy
	}
	for _, name := range taxonomies {
		if !s.registry.Exists(name) {
			return nil, ErrInvalidTaxonomy
		}
	}
	desc := strings.EqualFold(order, "DESC")

	params := struct {
		TermIDs    []uint64 `json:"term_ids"`
		Taxonomies []string `json:"taxonomies"`
		Desc       bool     `json:"desc"`
	}{termIDs, taxonomies, desc}
	return cached(ctx, s, "objects_in_term", params, func(ctx context.Context) ([]uint64, error) {
		if len(termIDs) == 0 {
			return []uint64{}, nil
		}
		rows, err := s.store.Queries.Find(ctx, model.TermFilter{
			TermIDs:    termIDs,
			Taxonomies: taxonomies,
			OrderBy:    "none",
		})
		if err != nil {
			return nil, dbError("Could not query terms.", err)
		}
		ttIDs := make([]uint64, 0, len(rows))
		for _, row := range rows {
			ttIDs = append(ttIDs, row.TermTaxonomyID)
		}

		objects, err := s.store.Relationships.ObjectIDs(ctx, ttIDs)
		if err != nil {
			return nil, dbError("Could not query objects in term.", err)
		}
		if objects == nil {
			objects = []uint64{}
		}
		if desc {
			slices.Reverse(objects)
		}
		return objects, nil
	})
}

func (s *TermService) dropObjectCache(ctx context.Context, objectID uint64, taxonomy string) {
	if s.cache != nil {
		s.cache.Delete(ctx, objectKey(objectID), cache.RelationshipsNamespace(taxonomy))
	}
}

func objectKey(objectID uint64) string {
	return strconv.FormatUint(objectID, 10)
}
