package service

import (
	"context"
	"strconv"

	"github.com/jimyag/taxo/internal/taxo/cache"
	"github.com/jimyag/taxo/internal/taxo/repository/model"
	"github.com/rs/zerolog"
)

// AddTermMeta 添加词条元数据，unique 为 true 且 key 已存在时不写入并返回 0
func (s *TermService) AddTermMeta(ctx context.Context, termID uint64, key, value string, unique bool) (uint64, error) {
	if err := s.checkMetaTarget(ctx, termID); err != nil {
		return 0, err
	}

	if unique {
		count, err := s.store.TermMeta.CountByKey(ctx, termID, key)
		if err != nil {
			return 0, dbError("Could not read term meta.", err)
		}
		if count > 0 {
			return 0, nil
		}
	}

	meta := &model.TermMeta{TermID: termID, MetaKey: key, MetaValue: value}
	if err := s.store.TermMeta.Create(ctx, meta); err != nil {
		return 0, dbError("Could not insert term meta.", err)
	}
	s.dropMetaCache(ctx, termID)

	zerolog.Ctx(ctx).Debug().Uint64("term_id", termID).Str("key", key).Msg("Term meta added")
	return meta.MetaID, nil
}

// UpdateTermMeta 更新词条元数据，key 不存在时添加
func (s *TermService) UpdateTermMeta(ctx context.Context, termID uint64, key, value, prevValue string) (bool, error) {
	if err := s.checkMetaTarget(ctx, termID); err != nil {
		return false, err
	}

	n, err := s.store.TermMeta.UpdateValue(ctx, termID, key, value, prevValue)
	if err != nil {
		return false, dbError("Could not update term meta.", err)
	}
	if n == 0 {
		count, err := s.store.TermMeta.CountByKey(ctx, termID, key)
		if err != nil {
			return false, dbError("Could not read term meta.", err)
		}
		if count > 0 {
			return false, nil
		}
		if err := s.store.TermMeta.Create(ctx, &model.TermMeta{TermID: termID, MetaKey: key, MetaValue: value}); err != nil {
			return false, dbError("Could not insert term meta.", err)
		}
	}
	s.dropMetaCache(ctx, termID)
	return true, nil
}

// DeleteTermMeta 删除词条元数据，value 非空时只删除匹配的值
func (s *TermService) DeleteTermMeta(ctx context.Context, termID uint64, key, value string) (bool, error) {
	if err := s.checkMetaTarget(ctx, termID); err != nil {
		return false, err
	}

	n, err := s.store.TermMeta.Delete(ctx, termID, key, value)
	if err != nil {
		return false, dbError("Could not delete term meta.", err)
	}
	s.dropMetaCache(ctx, termID)
	return n > 0, nil
}

// GetTermMeta 返回词条元数据，key 为空时返回全部
func (s *TermService) GetTermMeta(ctx context.Context, termID uint64, key string) (map[string][]string, error) {
	if termID == 0 {
		return nil, ErrInvalidTermID
	}

	load := func(ctx context.Context) (map[string][]string, error) {
		list, err := s.store.TermMeta.ListByTermID(ctx, termID)
		if err != nil {
			return nil, dbError("Could not read term meta.", err)
		}
		meta := make(map[string][]string)
		for _, m := range list {
			meta[m.MetaKey] = append(meta[m.MetaKey], m.MetaValue)
		}
		return meta, nil
	}

	var (
		meta map[string][]string
		err  error
	)
	if s.cache != nil {
		meta, err = cache.Remember(ctx, s.cache, metaKey(termID), cache.NamespaceTermMeta, load)
	} else {
		meta, err = load(ctx)
	}
	if err != nil {
		return nil, err
	}

	if key == "" {
		return meta, nil
	}
	out := make(map[string][]string, 1)
	if values, ok := meta[key]; ok {
		out[key] = values
	}
	return out, nil
}

// checkMetaTarget 元数据只能写入存在的词条
// 元数据按 term_id 存储，被多个分类法共享的词条无法确定归属
func (s *TermService) checkMetaTarget(ctx context.Context, termID uint64) error {
	if termID == 0 {
		return ErrInvalidTermID
	}
	list, err := s.store.TermTaxonomies.ListByTermID(ctx, termID)
	if err != nil {
		return dbError("Could not read term taxonomies.", err)
	}
	switch {
	case len(list) == 0:
		return ErrEmptyTerm
	case len(list) > 1:
		return ErrAmbiguousTermID
	}
	return nil
}

func (s *TermService) dropMetaCache(ctx context.Context, termID uint64) {
	if s.cache != nil {
		s.cache.Delete(ctx, metaKey(termID), cache.NamespaceTermMeta)
	}
}

func metaKey(termID uint64) string {
	return strconv.FormatUint(termID, 10)
}
