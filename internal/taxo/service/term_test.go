package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jimyag/taxo/internal/taxo/entity"
	"github.com/jimyag/taxo/internal/taxo/event"
	"github.com/jimyag/taxo/internal/taxo/repository"
	"github.com/jimyag/taxo/internal/taxo/repository/model"
	"github.com/jimyag/taxo/pkg/apierror"
	"github.com/jimyag/taxo/pkg/slug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func uintPtr(v uint64) *uint64 { return &v }

func TestInsertTerm_ColorScenario(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	svc := env.Service
	ctx := context.Background()

	red := mustInsert(t, svc, "Red", "color", InsertTermOptions{})
	term := mustGetTerm(t, svc, red.TermID, "color")
	assert.Equal(t, "red", term.Slug)
	assert.Equal(t, "Red", term.Name)

	testcases := []struct {
		name  string
		input string
	}{
		{name: "SameName", input: "Red"},
		{name: "TrailingSpaceLowerCase", input: "red "},
		{name: "UpperCase", input: "RED"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.InsertTerm(ctx, tc.input, "color", InsertTermOptions{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTermExists))
			existing, ok := ExistingTermID(err)
			require.True(t, ok)
			assert.Equal(t, red.TermID, existing)
		})
	}

	count, err := svc.CountTerms(ctx, "color", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	created := env.Events.last(event.TermCreated)
	require.NotNil(t, created)
	assert.Equal(t, red.TermID, created.TermID)
}

func TestInsertTerm_UnicodeNames(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	svc := env.Service
	ctx := context.Background()

	eclair := mustInsert(t, svc, "Éclair", "color", InsertTermOptions{})
	moscow := mustInsert(t, svc, "Москва", "color", InsertTermOptions{})

	testcases := []struct {
		name  string
		input string
		want  uint64
	}{
		{name: "LowerAccent", input: "éclair", want: eclair.TermID},
		{name: "UpperAccent", input: "ÉCLAIR", want: eclair.TermID},
		{name: "PaddedLower", input: " éclair ", want: eclair.TermID},
		{name: "CyrillicUpper", input: "МОСКВА", want: moscow.TermID},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.InsertTerm(ctx, tc.input, "color", InsertTermOptions{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTermExists))
			existing, ok := ExistingTermID(err)
			require.True(t, ok)
			assert.Equal(t, tc.want, existing)

			ids, err := svc.TermExists(ctx, entity.TermRefName(tc.input), "color", 0)
			require.NoError(t, err)
			require.NotNil(t, ids)
			assert.Equal(t, tc.want, ids.TermID)

			term, err := svc.GetTermBy(ctx, "name", tc.input, "color")
			require.NoError(t, err)
			require.NotNil(t, term)
			assert.Equal(t, tc.want, term.TermID)
		})
	}

	count, err := svc.CountTerms(ctx, "color", false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestInsertTerm_LongSlugCollision(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	svc := env.Service

	// 两个名称不同，但生成的 slug 相同且已达到最大长度
	first := strings.Repeat("a", slug.MaxLength)
	second := strings.Repeat("a", slug.MaxLength-1) + "á"
	third := strings.Repeat("a", slug.MaxLength-1) + "à"

	seen := make(map[string]struct{})
	for _, name := range []string{first, second, third} {
		ids := mustInsert(t, svc, name, "post_tag", InsertTermOptions{})
		got := mustGetTerm(t, svc, ids.TermID, "post_tag").Slug
		assert.LessOrEqual(t, len(got), slug.MaxLength)
		assert.NotContains(t, seen, got)
		seen[got] = struct{}{}
	}
	assert.Contains(t, seen, strings.Repeat("a", slug.MaxLength))
	assert.Contains(t, seen, strings.Repeat("a", slug.MaxLength-2)+"-2")
	assert.Contains(t, seen, strings.Repeat("a", slug.MaxLength-2)+"-3")

	t.Run("ParentSuffix", func(t *testing.T) {
		fruit := mustInsert(t, svc, "Fruit", "category", InsertTermOptions{})
		mustInsert(t, svc, first, "category", InsertTermOptions{})
		child := mustInsert(t, svc, second, "category", InsertTermOptions{Parent: fruit.TermID})

		got := mustGetTerm(t, svc, child.TermID, "category").Slug
		assert.Len(t, got, slug.MaxLength)
		assert.True(t, strings.HasSuffix(got, "-fruit"))
	})
}

func TestInsertTerm_Validation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	ctx := context.Background()

	testcases := []struct {
		name     string
		term     string
		taxonomy string
		opts     InsertTermOptions
		wantErr  error
	}{
		{name: "UnknownTaxonomy", term: "Red", taxonomy: "shape", wantErr: ErrInvalidTaxonomy},
		{name: "EmptyName", term: "   ", taxonomy: "color", wantErr: ErrEmptyName},
		{name: "MissingParent", term: "Apple", taxonomy: "category", opts: InsertTermOptions{Parent: 999}, wantErr: ErrMissingParent},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			ids, err := env.Service.InsertTerm(ctx, tc.term, tc.taxonomy, tc.opts)
			assert.Nil(t, ids)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestInsertTerm_SlugResolution(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	svc := env.Service
	ctx := context.Background()

	slugOf := func(ids *entity.TermIDs, taxonomy string) string {
		return mustGetTerm(t, svc, ids.TermID, taxonomy).Slug
	}

	fruit := mustInsert(t, svc, "Fruit", "category", InsertTermOptions{})
	apple := mustInsert(t, svc, "Apple", "category", InsertTermOptions{Parent: fruit.TermID})
	veg := mustInsert(t, svc, "Vegetable", "category", InsertTermOptions{})
	assert.Equal(t, "apple", slugOf(apple, "category"))

	t.Run("ParentSuffix", func(t *testing.T) {
		vegApple := mustInsert(t, svc, "Apple", "category", InsertTermOptions{Parent: veg.TermID})
		assert.Equal(t, "apple-vegetable", slugOf(vegApple, "category"))

		nested := mustInsert(t, svc, "Apple", "category", InsertTermOptions{Parent: apple.TermID})
		assert.Equal(t, "apple-apple", slugOf(nested, "category"))
	})

	t.Run("AncestorChainIsCumulative", func(t *testing.T) {
		green := mustInsert(t, svc, "Green", "category", InsertTermOptions{Parent: fruit.TermID})
		assert.Equal(t, "green", slugOf(green, "category"))

		mustInsert(t, svc, "Green Fruit Tag", "post_tag", InsertTermOptions{Slug: "green-apple"})
		deep := mustInsert(t, svc, "Green", "category", InsertTermOptions{Parent: apple.TermID})
		assert.Equal(t, "green-apple-fruit", slugOf(deep, "category"))
	})

	t.Run("NumericSuffixAcrossTaxonomies", func(t *testing.T) {
		tag := mustInsert(t, svc, "Apple", "post_tag", InsertTermOptions{})
		assert.Equal(t, "apple-2", slugOf(tag, "post_tag"))

		link := mustInsert(t, svc, "Apple", "link_category", InsertTermOptions{})
		assert.Equal(t, "apple-3", slugOf(link, "link_category"))
	})

	t.Run("ExplicitSlug", func(t *testing.T) {
		red := mustInsert(t, svc, "Red", "color", InsertTermOptions{})

		crimson := mustInsert(t, svc, "Red", "color", InsertTermOptions{Slug: "Crimson"})
		assert.Equal(t, "crimson", slugOf(crimson, "color"))

		_, err := svc.InsertTerm(ctx, "Red", "color", InsertTermOptions{Slug: "red"})
		existing, ok := ExistingTermID(err)
		require.True(t, ok)
		assert.Equal(t, red.TermID, existing)

		_, err = svc.InsertTerm(ctx, "Red", "color", InsertTermOptions{Slug: "crimson"})
		assert.True(t, errors.Is(err, ErrTermExists))
	})

	t.Run("UnsluggableName", func(t *testing.T) {
		ids := mustInsert(t, svc, "!!!", "post_tag", InsertTermOptions{})
		assert.NotEmpty(t, slugOf(ids, "post_tag"))
	})
}

func TestInsertTerm_TaxonomySlugPolicy(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{SlugPolicy: SlugPolicyTaxonomy})
	svc := env.Service

	cat := mustInsert(t, svc, "Apple", "category", InsertTermOptions{})
	tag := mustInsert(t, svc, "Apple", "post_tag", InsertTermOptions{})
	assert.Equal(t, "apple", mustGetTerm(t, svc, cat.TermID, "category").Slug)
	assert.Equal(t, "apple", mustGetTerm(t, svc, tag.TermID, "post_tag").Slug)

	again := mustInsert(t, svc, "Apple", "post_tag", InsertTermOptions{Slug: "apple-tag"})
	assert.Equal(t, "apple-tag", mustGetTerm(t, svc, again.TermID, "post_tag").Slug)
}

func TestInsertTerm_AliasGroup(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	svc := env.Service

	red := mustInsert(t, svc, "Red", "color", InsertTermOptions{})
	assert.Zero(t, mustGetTerm(t, svc, red.TermID, "color").TermGroup)

	scarlet := mustInsert(t, svc, "Scarlet", "color", InsertTermOptions{AliasOf: "red"})
	group := mustGetTerm(t, svc, red.TermID, "color").TermGroup
	assert.NotZero(t, group)
	assert.Equal(t, group, mustGetTerm(t, svc, scarlet.TermID, "color").TermGroup)

	vermilion := mustInsert(t, svc, "Vermilion", "color", InsertTermOptions{AliasOf: "scarlet"})
	assert.Equal(t, group, mustGetTerm(t, svc, vermilion.TermID, "color").TermGroup)

	other := mustInsert(t, svc, "Blue", "color", InsertTermOptions{AliasOf: "no-such-term"})
	assert.Zero(t, mustGetTerm(t, svc, other.TermID, "color").TermGroup)
}

func TestInsertTerm_AliasGroupVisibleOnFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	svc := env.Service
	ctx := context.Background()

	red := mustInsert(t, svc, "Red", "color", InsertTermOptions{})
	assert.Zero(t, mustGetTerm(t, svc, red.TermID, "color").TermGroup)

	// 别名目标会先被分配分组，随后插入因重名失败
	_, err := svc.InsertTerm(ctx, "Red", "color", InsertTermOptions{AliasOf: "red"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTermExists))

	stored, err := env.Store.Terms.GetByID(ctx, red.TermID)
	require.NoError(t, err)
	require.NotZero(t, stored.TermGroup)
	assert.Equal(t, stored.TermGroup, mustGetTerm(t, svc, red.TermID, "color").TermGroup)
}

// staleTerms 模拟另一个进程尚未看到并发插入的 slug
type staleTerms struct {
	repository.TermRepository
}

func (staleTerms) SlugExists(context.Context, string, uint64) (bool, error) {
	return false, nil
}

// staleQueries 模拟重名检查读到旧数据
type staleQueries struct {
	repository.TermQueryRepository
}

func (q staleQueries) Find(ctx context.Context, filter model.TermFilter) ([]*model.TermRow, error) {
	if len(filter.Names) > 0 {
		return nil, nil
	}
	return q.TermQueryRepository.Find(ctx, filter)
}

func TestInsertTerm_RaceReconciliation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	ctx := context.Background()

	first := mustInsert(t, env.Service, "Red", "color", InsertTermOptions{})

	stale := *env.Store
	stale.Terms = staleTerms{env.Store.Terms}
	stale.Queries = staleQueries{env.Store.Queries}
	racer := NewTermService(&stale, env.Registry, nil, nil, Options{})

	got, err := racer.InsertTerm(ctx, "Red", "color", InsertTermOptions{})
	require.NoError(t, err)
	assert.Equal(t, first, got)

	// 只剩下先提交的记录
	used, err := env.Store.Terms.SlugExists(ctx, "red", first.TermID)
	require.NoError(t, err)
	assert.False(t, used)

	count, err := env.Store.Queries.Count(ctx, model.TermFilter{Taxonomies: []string{"color"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGetTerm(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	svc := env.Service
	ctx := context.Background()

	apple := mustInsert(t, svc, "Red Apple", "category", InsertTermOptions{Description: "crisp"})

	t.Run("ByID", func(t *testing.T) {
		term := mustGetTerm(t, svc, apple.TermID, "category")
		assert.Equal(t, apple.TermTaxonomyID, term.TermTaxonomyID)
		assert.Equal(t, "crisp", term.Description)

		first := mustGetTerm(t, svc, apple.TermID, "")
		assert.Equal(t, "category", first.Taxonomy)
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := svc.GetTerm(ctx, 0, "category")
		assert.True(t, errors.Is(err, ErrInvalidTermID))

		_, err = svc.GetTerm(ctx, apple.TermID, "shape")
		assert.True(t, errors.Is(err, ErrInvalidTaxonomy))

		term, err := svc.GetTerm(ctx, 9999, "category")
		assert.NoError(t, err)
		assert.Nil(t, term)

		term, err = svc.GetTerm(ctx, apple.TermID, "post_tag")
		assert.NoError(t, err)
		assert.Nil(t, term)
	})

	testcases := []struct {
		name  string
		field string
		value string
		found bool
	}{
		{name: "SlugSanitized", field: "slug", value: "Red Apple", found: true},
		{name: "NameCaseInsensitive", field: "name", value: "RED APPLE", found: true},
		{name: "EmptySlug", field: "slug", value: "", found: false},
		{name: "EmptyName", field: "name", value: "", found: false},
		{name: "UnknownSlug", field: "slug", value: "pear", found: false},
		{name: "ID", field: "id", value: "1", found: true},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			term, err := svc.GetTermBy(ctx, tc.field, tc.value, "category")
			require.NoError(t, err)
			if tc.found {
				require.NotNil(t, term)
				assert.Equal(t, apple.TermID, term.TermID)
			} else {
				assert.Nil(t, term)
			}
		})
	}

	t.Run("ByTermTaxonomyID", func(t *testing.T) {
		term, err := svc.GetTermBy(ctx, "term_taxonomy_id", "2", "")
		require.NoError(t, err)
		assert.Nil(t, term)

		term, err = svc.GetTermBy(ctx, "tt_id", "1", "")
		require.NoError(t, err)
		require.NotNil(t, term)
		assert.Equal(t, apple.TermTaxonomyID, term.TermTaxonomyID)
	})

	t.Run("UnsupportedField", func(t *testing.T) {
		_, err := svc.GetTermBy(ctx, "color", "red", "category")
		assert.True(t, errors.Is(err, apierror.ErrInvalidParameter))
	})
}

func TestTermExists(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	svc := env.Service
	ctx := context.Background()

	fruit := mustInsert(t, svc, "Fruit", "category", InsertTermOptions{})
	apple := mustInsert(t, svc, "Apple Pie", "category", InsertTermOptions{Parent: fruit.TermID, Slug: "pie"})

	testcases := []struct {
		name   string
		ref    entity.TermRef
		parent uint64
		want   *entity.TermIDs
	}{
		{name: "ByID", ref: entity.TermRefID(fruit.TermID), want: fruit},
		{name: "BySlug", ref: entity.TermRefName("pie"), want: apple},
		{name: "ByName", ref: entity.TermRefName("apple pie"), want: apple},
		{name: "ByNameWithParent", ref: entity.TermRefName("Apple Pie"), parent: fruit.TermID, want: apple},
		{name: "WrongParent", ref: entity.TermRefName("Apple Pie"), parent: 999, want: nil},
		{name: "Blank", ref: entity.TermRefName("  "), want: nil},
		{name: "UnknownID", ref: entity.TermRefID(999), want: nil},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.TermExists(ctx, tc.ref, "category", tc.parent)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUpdateTerm(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	svc := env.Service
	ctx := context.Background()

	red := mustInsert(t, svc, "Red", "color", InsertTermOptions{})
	blue := mustInsert(t, svc, "Blue", "color", InsertTermOptions{})

	t.Run("RenameKeepsSlug", func(t *testing.T) {
		_, err := svc.UpdateTerm(ctx, red.TermID, "color", UpdateTermFields{Name: strPtr("Ruby")})
		require.NoError(t, err)
		term := mustGetTerm(t, svc, red.TermID, "color")
		assert.Equal(t, "Ruby", term.Name)
		assert.Equal(t, "red", term.Slug)
		assert.NotNil(t, env.Events.last(event.TermUpdated))
	})

	t.Run("ExplicitSlugCollision", func(t *testing.T) {
		_, err := svc.UpdateTerm(ctx, blue.TermID, "color", UpdateTermFields{Slug: strPtr("red")})
		existing, ok := ExistingTermID(err)
		require.True(t, ok)
		assert.Equal(t, red.TermID, existing)
	})

	t.Run("EmptySlugRegeneratesFromName", func(t *testing.T) {
		_, err := svc.UpdateTerm(ctx, blue.TermID, "color", UpdateTermFields{Name: strPtr("Navy"), Slug: strPtr("")})
		require.NoError(t, err)
		assert.Equal(t, "navy", mustGetTerm(t, svc, blue.TermID, "color").Slug)
	})

	t.Run("EmptySlugCollisionGetsSuffix", func(t *testing.T) {
		_, err := svc.UpdateTerm(ctx, blue.TermID, "color", UpdateTermFields{Name: strPtr("Red"), Slug: strPtr("")})
		require.NoError(t, err)
		assert.Equal(t, "red-2", mustGetTerm(t, svc, blue.TermID, "color").Slug)
	})

	t.Run("DescriptionOnly", func(t *testing.T) {
		_, err := svc.UpdateTerm(ctx, red.TermID, "color", UpdateTermFields{Description: strPtr("warm")})
		require.NoError(t, err)
		term := mustGetTerm(t, svc, red.TermID, "color")
		assert.Equal(t, "warm", term.Description)
		assert.Equal(t, "Ruby", term.Name)
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := svc.UpdateTerm(ctx, red.TermID, "color", UpdateTermFields{Name: strPtr("  ")})
		assert.True(t, errors.Is(err, ErrEmptyName))

		_, err = svc.UpdateTerm(ctx, 9999, "color", UpdateTermFields{})
		assert.True(t, errors.Is(err, ErrEmptyTerm))

		_, err = svc.UpdateTerm(ctx, 0, "color", UpdateTermFields{})
		assert.True(t, errors.Is(err, ErrInvalidTermID))

		_, err = svc.UpdateTerm(ctx, red.TermID, "shape", UpdateTermFields{})
		assert.True(t, errors.Is(err, ErrInvalidTaxonomy))

		_, err = svc.UpdateTerm(ctx, red.TermID, "color", UpdateTermFields{Parent: uintPtr(9999)})
		assert.True(t, errors.Is(err, ErrMissingParent))
	})
}

func TestUpdateTerm_HierarchyLoops(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	svc := env.Service
	ctx := context.Background()

	a := mustInsert(t, svc, "A", "category", InsertTermOptions{})
	b := mustInsert(t, svc, "B", "category", InsertTermOptions{Parent: a.TermID})
	c := mustInsert(t, svc, "C", "category", InsertTermOptions{Parent: b.TermID})

	t.Run("SelfParentBecomesRoot", func(t *testing.T) {
		_, err := svc.UpdateTerm(ctx, c.TermID, "category", UpdateTermFields{Parent: uintPtr(c.TermID)})
		require.NoError(t, err)
		assert.Zero(t, mustGetTerm(t, svc, c.TermID, "category").Parent)

		_, err = svc.UpdateTerm(ctx, c.TermID, "category", UpdateTermFields{Parent: uintPtr(b.TermID)})
		require.NoError(t, err)
	})

	t.Run("ParentUnderOwnDescendant", func(t *testing.T) {
		_, err := svc.UpdateTerm(ctx, a.TermID, "category", UpdateTermFields{Parent: uintPtr(c.TermID)})
		require.NoError(t, err)

		assert.Equal(t, c.TermID, mustGetTerm(t, svc, a.TermID, "category").Parent)
		assert.Zero(t, mustGetTerm(t, svc, b.TermID, "category").Parent)
		assert.Equal(t, b.TermID, mustGetTerm(t, svc, c.TermID, "category").Parent)

		ancestors, err := svc.Ancestors(ctx, a.TermID, "category")
		require.NoError(t, err)
		assert.Equal(t, []uint64{c.TermID, b.TermID}, ancestors)
	})
}

func TestDeleteTerm_CategoryScenario(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	svc := env.Service
	ctx := context.Background()

	uncategorized, err := svc.EnsureDefaultTerm(ctx, "category", "Uncategorized")
	require.NoError(t, err)
	assert.Equal(t, uncategorized.TermID, svc.DefaultTerm("category"))

	fruit := mustInsert(t, svc, "Fruit", "category", InsertTermOptions{})
	apple := mustInsert(t, svc, "Apple", "category", InsertTermOptions{Parent: fruit.TermID})
	_, err = svc.AddTermMeta(ctx, fruit.TermID, "icon", "basket", false)
	require.NoError(t, err)

	_, err = svc.SetObjectTerms(ctx, 1, refIDs(fruit.TermID), "category", false)
	require.NoError(t, err)
	_, err = svc.SetObjectTerms(ctx, 2, refIDs(fruit.TermID, apple.TermID), "category", false)
	require.NoError(t, err)

	result, err := svc.DeleteTerm(ctx, fruit.TermID, "category", DeleteTermOptions{})
	require.NoError(t, err)
	assert.Equal(t, Deleted, result)

	assert.Zero(t, mustGetTerm(t, svc, apple.TermID, "category").Parent)

	gone, err := svc.GetTerm(ctx, fruit.TermID, "category")
	require.NoError(t, err)
	assert.Nil(t, gone)

	obj1, err := svc.GetObjectTerms(ctx, 1, "category")
	require.NoError(t, err)
	assert.Equal(t, []string{"Uncategorized"}, termNames(obj1))

	obj2, err := svc.GetObjectTerms(ctx, 2, "category")
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple"}, termNames(obj2))

	assert.Equal(t, int64(1), mustGetTerm(t, svc, uncategorized.TermID, "category").Count)
	assert.Equal(t, int64(1), mustGetTerm(t, svc, apple.TermID, "category").Count)

	meta, err := env.Store.TermMeta.ListByTermID(ctx, fruit.TermID)
	require.NoError(t, err)
	assert.Empty(t, meta)

	deleted := env.Events.last(event.TermDeleted)
	require.NotNil(t, deleted)
	assert.Equal(t, fruit.TermID, deleted.TermID)

	t.Run("DefaultIsProtected", func(t *testing.T) {
		result, err := svc.DeleteTerm(ctx, uncategorized.TermID, "category", DeleteTermOptions{})
		require.NoError(t, err)
		assert.Equal(t, DeleteProtected, result)
		assert.NotEqual(t, DeleteNotFound, result)
		mustGetTerm(t, svc, uncategorized.TermID, "category")
	})

	t.Run("NotFound", func(t *testing.T) {
		result, err := svc.DeleteTerm(ctx, 9999, "category", DeleteTermOptions{})
		require.NoError(t, err)
		assert.Equal(t, DeleteNotFound, result)

		_, err = svc.DeleteTerm(ctx, 0, "category", DeleteTermOptions{})
		assert.True(t, errors.Is(err, ErrInvalidTermID))

		_, err = svc.DeleteTerm(ctx, apple.TermID, "shape", DeleteTermOptions{})
		assert.True(t, errors.Is(err, ErrInvalidTaxonomy))
	})
}

func TestDeleteTerm_DefaultOptions(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	svc := env.Service
	ctx := context.Background()

	banana := mustInsert(t, svc, "Banana", "post_tag", InsertTermOptions{})
	cherry := mustInsert(t, svc, "Cherry", "post_tag", InsertTermOptions{})
	misc := mustInsert(t, svc, "Misc", "post_tag", InsertTermOptions{})

	_, err := svc.SetObjectTerms(ctx, 3, refIDs(banana.TermID, cherry.TermID), "post_tag", false)
	require.NoError(t, err)
	_, err = svc.SetObjectTerms(ctx, 4, refIDs(banana.TermID), "post_tag", false)
	require.NoError(t, err)

	result, err := svc.DeleteTerm(ctx, banana.TermID, "post_tag", DeleteTermOptions{Default: misc.TermID, ForceDefault: true})
	require.NoError(t, err)
	assert.Equal(t, Deleted, result)

	obj3, err := svc.GetObjectTerms(ctx, 3, "post_tag")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cherry", "Misc"}, termNames(obj3))

	obj4, err := svc.GetObjectTerms(ctx, 4, "post_tag")
	require.NoError(t, err)
	assert.Equal(t, []string{"Misc"}, termNames(obj4))

	t.Run("NoDefaultLeavesObjectEmpty", func(t *testing.T) {
		_, err := svc.SetObjectTerms(ctx, 5, refIDs(cherry.TermID), "post_tag", false)
		require.NoError(t, err)

		result, err := svc.DeleteTerm(ctx, cherry.TermID, "post_tag", DeleteTermOptions{Default: 9999})
		require.NoError(t, err)
		assert.Equal(t, Deleted, result)

		obj5, err := svc.GetObjectTerms(ctx, 5, "post_tag")
		require.NoError(t, err)
		assert.Empty(t, obj5)
	})
}

func TestDeleteTerm_SharedTerm(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	svc := env.Service
	ctx := context.Background()

	shared := mustInsert(t, svc, "Shared", "category", InsertTermOptions{})
	require.NoError(t, env.Store.TermTaxonomies.Create(ctx, &model.TermTaxonomy{TermID: shared.TermID, Taxonomy: "post_tag"}))

	result, err := svc.DeleteTerm(ctx, shared.TermID, "category", DeleteTermOptions{})
	require.NoError(t, err)
	assert.Equal(t, Deleted, result)

	_, err = env.Store.Terms.GetByID(ctx, shared.TermID)
	assert.NoError(t, err)
	mustGetTerm(t, svc, shared.TermID, "post_tag")

	result, err = svc.DeleteTerm(ctx, shared.TermID, "post_tag", DeleteTermOptions{})
	require.NoError(t, err)
	assert.Equal(t, Deleted, result)

	_, err = env.Store.Terms.GetByID(ctx, shared.TermID)
	assert.True(t, repository.IsNotFound(err))
}

func TestEnsureDefaultTerm(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	svc := env.Service
	ctx := context.Background()

	existing := mustInsert(t, svc, "General", "link_category", InsertTermOptions{})

	got, err := svc.EnsureDefaultTerm(ctx, "link_category", "General")
	require.NoError(t, err)
	assert.Equal(t, existing.TermID, got.TermID)

	again, err := svc.EnsureDefaultTerm(ctx, "link_category", "Other")
	require.NoError(t, err)
	assert.Equal(t, existing.TermID, again.TermID)

	_, err = svc.EnsureDefaultTerm(ctx, "shape", "General")
	assert.True(t, errors.Is(err, ErrInvalidTaxonomy))
}

func TestGetTerms(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	svc := env.Service
	ctx := context.Background()

	fruit := mustInsert(t, svc, "Fruit", "category", InsertTermOptions{})
	apple := mustInsert(t, svc, "Apple", "category", InsertTermOptions{Parent: fruit.TermID})
	banana := mustInsert(t, svc, "Banana", "category", InsertTermOptions{Parent: fruit.TermID})
	mustInsert(t, svc, "Vegetable", "category", InsertTermOptions{})
	mustInsert(t, svc, "Red", "color", InsertTermOptions{})

	_, err := svc.SetObjectTerms(ctx, 1, refIDs(apple.TermID, banana.TermID), "category", false)
	require.NoError(t, err)
	_, err = svc.SetObjectTerms(ctx, 2, refIDs(banana.TermID), "category", false)
	require.NoError(t, err)

	root := uint64(0)
	testcases := []struct {
		name  string
		query entity.TermQuery
		want  []string
	}{
		{name: "AllInTaxonomy", query: entity.TermQuery{Taxonomies: []string{"category"}}, want: []string{"Apple", "Banana", "Fruit", "Vegetable"}},
		{name: "MultipleTaxonomies", query: entity.TermQuery{Taxonomies: []string{"category", "color"}, Search: "r"}, want: []string{"Fruit", "Red"}},
		{name: "ChildOf", query: entity.TermQuery{Taxonomies: []string{"category"}, ChildOf: fruit.TermID}, want: []string{"Apple", "Banana"}},
		{name: "ChildOfWithInclude", query: entity.TermQuery{Taxonomies: []string{"category"}, ChildOf: fruit.TermID, Include: []uint64{banana.TermID}}, want: []string{"Banana"}},
		{name: "RootsOnly", query: entity.TermQuery{Taxonomies: []string{"category"}, Parent: &root}, want: []string{"Fruit", "Vegetable"}},
		{name: "HideEmpty", query: entity.TermQuery{Taxonomies: []string{"category"}, HideEmpty: true}, want: []string{"Apple", "Banana"}},
		{name: "OrderByCountDesc", query: entity.TermQuery{Taxonomies: []string{"category"}, HideEmpty: true, OrderBy: "count", Order: "DESC"}, want: []string{"Banana", "Apple"}},
		{name: "Paged", query: entity.TermQuery{Taxonomies: []string{"category"}, Number: 2, Offset: 1}, want: []string{"Banana", "Fruit"}},
		{name: "Exclude", query: entity.TermQuery{Taxonomies: []string{"category"}, Exclude: []uint64{fruit.TermID, apple.TermID}}, want: []string{"Banana", "Vegetable"}},
		{name: "SlugsSanitized", query: entity.TermQuery{Slugs: []string{"FRUIT"}}, want: []string{"Fruit"}},
		{name: "UnsluggableSlugs", query: entity.TermQuery{Slugs: []string{"!!!"}}, want: []string{}},
		{name: "Names", query: entity.TermQuery{Names: []string{"vegetable", "red"}}, want: []string{"Red", "Vegetable"}},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			terms, err := svc.GetTerms(ctx, &tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, termNames(terms))
		})
	}

	t.Run("ObjectIDsCarryObject", func(t *testing.T) {
		terms, err := svc.GetTerms(ctx, &entity.TermQuery{ObjectIDs: []uint64{2}})
		require.NoError(t, err)
		require.Len(t, terms, 1)
		assert.Equal(t, uint64(2), terms[0].ObjectID)
	})

	t.Run("InvalidTaxonomy", func(t *testing.T) {
		_, err := svc.GetTerms(ctx, &entity.TermQuery{Taxonomies: []string{"shape"}})
		assert.True(t, errors.Is(err, ErrInvalidTaxonomy))
	})

	t.Run("CountTerms", func(t *testing.T) {
		count, err := svc.CountTerms(ctx, "category", false)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)

		count, err = svc.CountTerms(ctx, "category", true)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		_, err = svc.CountTerms(ctx, "shape", false)
		assert.True(t, errors.Is(err, ErrInvalidTaxonomy))
	})
}

func TestCacheCoherence(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, Options{})
	svc := env.Service
	ctx := context.Background()

	query := &entity.TermQuery{Taxonomies: []string{"color"}}
	red := mustInsert(t, svc, "Red", "color", InsertTermOptions{})

	terms, err := svc.GetTerms(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, []string{"Red"}, termNames(terms))

	t.Run("ServiceWriteInvalidates", func(t *testing.T) {
		mustInsert(t, svc, "Blue", "color", InsertTermOptions{})
		terms, err := svc.GetTerms(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, []string{"Blue", "Red"}, termNames(terms))
	})

	t.Run("GenerationBumpInvalidates", func(t *testing.T) {
		require.NoError(t, env.Store.Terms.Update(ctx, &model.Term{TermID: red.TermID, Name: "Crimson", Slug: "red"}))

		// 存储写入与令牌更新之间允许读到旧值
		stale, err := svc.GetTerms(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, []string{"Blue", "Red"}, termNames(stale))

		env.Cache.BumpGeneration(ctx)
		fresh, err := svc.GetTerms(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, []string{"Blue", "Crimson"}, termNames(fresh))
	})

	t.Run("GetTermSeesUpdate", func(t *testing.T) {
		mustGetTerm(t, svc, red.TermID, "color")
		_, err := svc.UpdateTerm(ctx, red.TermID, "color", UpdateTermFields{Name: strPtr("Scarlet")})
		require.NoError(t, err)
		assert.Equal(t, "Scarlet", mustGetTerm(t, svc, red.TermID, "color").Name)
	})

	stats := env.Cache.Stats()
	assert.NotZero(t, stats.Hits)
	assert.NotZero(t, stats.Misses)
}
