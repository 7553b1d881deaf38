package service

import (
	"context"
	"slices"

	"github.com/rs/zerolog"
)

// UpdateTermCount 按关系表重新计算 term_taxonomy 的 count
func (s *TermService) UpdateTermCount(ctx context.Context, ttIDs []uint64) error {
	if err := s.updateCounts(ctx, ttIDs); err != nil {
		return err
	}
	if len(ttIDs) > 0 {
		s.bump(ctx)
	}
	return nil
}

// updateCounts 计数始终从关系表推导，Countable 为 nil 时统计所有对象
func (s *TermService) updateCounts(ctx context.Context, ttIDs []uint64) error {
	ids := slices.Clone(ttIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	for _, id := range ids {
		count, err := s.countObjects(ctx, id)
		if err != nil {
			return err
		}
		if err := s.store.TermTaxonomies.SetCount(ctx, id, count); err != nil {
			return dbError("Could not update term count.", err)
		}
		zerolog.Ctx(ctx).Debug().
			Uint64("term_taxonomy_id", id).
			Int64("count", count).
			Msg("Term count updated")
	}
	return nil
}

func (s *TermService) countObjects(ctx context.Context, ttID uint64) (int64, error) {
	if s.opts.Countable == nil {
		count, err := s.store.Relationships.CountObjects(ctx, ttID)
		if err != nil {
			return 0, dbError("Could not count term relationships.", err)
		}
		return count, nil
	}

	objects, err := s.store.Relationships.ObjectIDs(ctx, []uint64{ttID})
	if err != nil {
		return 0, dbError("Could not read term relationships.", err)
	}
	var count int64
	for _, objectID := range objects {
		if s.opts.Countable(ctx, objectID) {
			count++
		}
	}
	return count, nil
}
