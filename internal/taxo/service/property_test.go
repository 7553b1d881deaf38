package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jimyag/taxo/internal/taxo/repository/model"
	"pgregory.net/rapid"
)

var propertyNames = []string{"Apple", "apple", "Pear", "Green Apple", "Café", "café", "Plum!", "plum", "!!!", "Kiwi"}

// TestSlugUniqueness 任意插入序列之后 slug 全局唯一
func TestSlugUniqueness(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		env := newTestEnv(t, Options{})
		svc := env.Service
		ctx := context.Background()

		var categories []uint64
		steps := rapid.IntRange(1, 25).Draw(r, "steps")
		for i := 0; i < steps; i++ {
			name := rapid.SampledFrom(propertyNames).Draw(r, "name")
			taxonomy := rapid.SampledFrom([]string{"category", "post_tag", "color"}).Draw(r, "taxonomy")

			opts := InsertTermOptions{}
			if taxonomy == "category" && len(categories) > 0 && rapid.Bool().Draw(r, "nested") {
				opts.Parent = rapid.SampledFrom(categories).Draw(r, "parent")
			}
			if rapid.Bool().Draw(r, "explicitSlug") {
				opts.Slug = rapid.SampledFrom(propertyNames).Draw(r, "slug")
			}

			ids, err := svc.InsertTerm(ctx, name, taxonomy, opts)
			if err != nil {
				if errors.Is(err, ErrTermExists) {
					continue
				}
				r.Fatalf("InsertTerm(%q, %q): %v", name, taxonomy, err)
			}
			if taxonomy == "category" {
				categories = append(categories, ids.TermID)
			}
		}

		rows, err := env.Store.Queries.Find(ctx, model.TermFilter{OrderBy: "term_id"})
		if err != nil {
			r.Fatalf("Find: %v", err)
		}
		seen := make(map[string]uint64, len(rows))
		for _, row := range rows {
			if row.Slug == "" {
				r.Fatalf("term %d has empty slug", row.TermID)
			}
			if owner, ok := seen[row.Slug]; ok && owner != row.TermID {
				r.Fatalf("slug %q shared by terms %d and %d", row.Slug, owner, row.TermID)
			}
			seen[row.Slug] = row.TermID
		}
	})
}

// TestCountMatchesRelationships 任意关系变更之后 count 等于关系数
func TestCountMatchesRelationships(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		env := newTestEnv(t, Options{})
		svc := env.Service
		ctx := context.Background()

		pool := []string{"a", "b", "c", "d"}
		steps := rapid.IntRange(1, 20).Draw(r, "steps")
		for i := 0; i < steps; i++ {
			objectID := rapid.Uint64Range(1, 5).Draw(r, "object")
			names := rapid.SliceOfN(rapid.SampledFrom(pool), 0, 4).Draw(r, "terms")

			var err error
			switch rapid.IntRange(0, 3).Draw(r, "op") {
			case 0:
				_, err = svc.SetObjectTerms(ctx, objectID, refNames(names...), "post_tag", false)
			case 1:
				_, err = svc.AddObjectTerms(ctx, objectID, refNames(names...), "post_tag")
			case 2:
				_, err = svc.RemoveObjectTerms(ctx, objectID, refNames(names...), "post_tag")
			case 3:
				err = svc.DeleteObjectTermRelationships(ctx, objectID, []string{"post_tag"})
			}
			if err != nil {
				r.Fatalf("step %d: %v", i, err)
			}
		}

		list, err := env.Store.TermTaxonomies.ListByTaxonomy(ctx, "post_tag")
		if err != nil {
			r.Fatalf("ListByTaxonomy: %v", err)
		}
		for _, tt := range list {
			want, err := env.Store.Relationships.CountObjects(ctx, tt.TermTaxonomyID)
			if err != nil {
				r.Fatalf("CountObjects: %v", err)
			}
			if tt.Count != want {
				r.Fatalf("term_taxonomy %d: count %d, relationships %d", tt.TermTaxonomyID, tt.Count, want)
			}
		}
	})
}

// TestHierarchyStaysAcyclic 任意插入和改父级之后层级中没有环
func TestHierarchyStaysAcyclic(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		env := newTestEnv(t, Options{})
		svc := env.Service
		ctx := context.Background()

		var terms []uint64
		count := rapid.IntRange(2, 8).Draw(r, "terms")
		for i := 0; i < count; i++ {
			opts := InsertTermOptions{}
			if len(terms) > 0 && rapid.Bool().Draw(r, "nested") {
				opts.Parent = rapid.SampledFrom(terms).Draw(r, "parent")
			}
			ids, err := svc.InsertTerm(ctx, "Node "+string(rune('A'+i)), "category", opts)
			if err != nil {
				r.Fatalf("InsertTerm: %v", err)
			}
			terms = append(terms, ids.TermID)
		}

		moves := rapid.IntRange(1, 15).Draw(r, "moves")
		for i := 0; i < moves; i++ {
			termID := rapid.SampledFrom(terms).Draw(r, "term")
			parent := uint64(0)
			if rapid.IntRange(0, 4).Draw(r, "root") > 0 {
				parent = rapid.SampledFrom(terms).Draw(r, "newParent")
			}
			if _, err := svc.UpdateTerm(ctx, termID, "category", UpdateTermFields{Parent: &parent}); err != nil {
				r.Fatalf("UpdateTerm(%d, parent=%d): %v", termID, parent, err)
			}
		}

		list, err := env.Store.TermTaxonomies.ListByTaxonomy(ctx, "category")
		if err != nil {
			r.Fatalf("ListByTaxonomy: %v", err)
		}
		parents := make(map[uint64]uint64, len(list))
		for _, tt := range list {
			parents[tt.TermID] = tt.Parent
		}
		for termID := range parents {
			current := termID
			for step := 0; parents[current] != 0; step++ {
				if step > len(parents) {
					r.Fatalf("term %d is part of a cycle", termID)
				}
				next := parents[current]
				if _, ok := parents[next]; !ok {
					r.Fatalf("term %d has missing parent %d", current, next)
				}
				current = next
			}
		}
	})
}
