package service

import (
	"github.com/jimyag/taxo/internal/taxo/entity"
	"github.com/jimyag/taxo/internal/taxo/registry"
	"github.com/jimyag/taxo/internal/taxo/repository/model"
	"github.com/jinzhu/copier"
)

// termRowToEntity 将 model.TermRow 转换为 entity.Term
func termRowToEntity(row *model.TermRow) (*entity.Term, error) {
	e := &entity.Term{}
	if err := copier.Copy(e, row); err != nil {
		return nil, err
	}
	return e, nil
}

// termRowsToEntities 批量转换
func termRowsToEntities(rows []*model.TermRow) ([]*entity.Term, error) {
	terms := make([]*entity.Term, 0, len(rows))
	for _, row := range rows {
		e, err := termRowToEntity(row)
		if err != nil {
			return nil, err
		}
		terms = append(terms, e)
	}
	return terms, nil
}

// taxonomyToEntity 将 registry.Taxonomy 转换为 entity.Taxonomy
func taxonomyToEntity(t *registry.Taxonomy) (*entity.Taxonomy, error) {
	e := &entity.Taxonomy{}
	if err := copier.Copy(e, t); err != nil {
		return nil, err
	}
	if e.ObjectTypes == nil {
		e.ObjectTypes = []string{}
	}
	return e, nil
}
