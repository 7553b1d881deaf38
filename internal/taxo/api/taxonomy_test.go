package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/jimyag/taxo/internal/taxo/entity"
	"github.com/jimyag/taxo/internal/taxo/service"
	"github.com/jimyag/taxo/pkg/ginx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaxonomyService 是 TaxonomyServiceInterface 的 mock 实现
type MockTaxonomyService struct {
	mock.Mock
}

func (m *MockTaxonomyService) RegisterTaxonomy(ctx context.Context, req *entity.RegisterTaxonomyRequest) (*entity.RegisterTaxonomyResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.RegisterTaxonomyResponse), args.Error(1)
}

func (m *MockTaxonomyService) UnregisterTaxonomy(ctx context.Context, req *entity.UnregisterTaxonomyRequest) (*entity.UnregisterTaxonomyResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UnregisterTaxonomyResponse), args.Error(1)
}

func (m *MockTaxonomyService) DescribeTaxonomies(ctx context.Context, req *entity.DescribeTaxonomiesRequest) (*entity.DescribeTaxonomiesResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DescribeTaxonomiesResponse), args.Error(1)
}

func TestTaxonomy_RegisterTaxonomy(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		name         string
		req          any
		mockSetup    func(*MockTaxonomyService)
		expectStatus int
	}{
		{
			name: "successful register",
			req: entity.RegisterTaxonomyRequest{
				Name:         "color",
				ObjectTypes:  []string{"product"},
				Hierarchical: true,
			},
			mockSetup: func(m *MockTaxonomyService) {
				m.On("RegisterTaxonomy", mock.Anything, mock.MatchedBy(func(req *entity.RegisterTaxonomyRequest) bool {
					return req.Name == "color" && req.Hierarchical
				})).Return(&entity.RegisterTaxonomyResponse{
					Taxonomy: &entity.Taxonomy{Name: "color", ObjectTypes: []string{"product"}, Hierarchical: true},
				}, nil)
			},
			expectStatus: http.StatusOK,
		},
		{
			name: "name too long",
			req:  entity.RegisterTaxonomyRequest{Name: "a_name_that_is_longer_than_thirty_two_chars"},
			mockSetup: func(m *MockTaxonomyService) {
				m.On("RegisterTaxonomy", mock.Anything, mock.AnythingOfType("*entity.RegisterTaxonomyRequest")).
					Return(nil, service.ErrInvalidLength)
			},
			expectStatus: http.StatusBadRequest,
		},
		{
			name: "builtin protected",
			req:  entity.RegisterTaxonomyRequest{Name: "category"},
			mockSetup: func(m *MockTaxonomyService) {
				m.On("RegisterTaxonomy", mock.Anything, mock.AnythingOfType("*entity.RegisterTaxonomyRequest")).
					Return(nil, service.ErrBuiltinProtected)
			},
			expectStatus: http.StatusForbidden,
		},
		{
			name:         "missing name",
			req:          map[string]any{"hierarchical": true},
			mockSetup:    func(m *MockTaxonomyService) {},
			expectStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockService := new(MockTaxonomyService)
			tc.mockSetup(mockService)
			taxonomyAPI := &Taxonomy{taxonomyService: mockService}

			router := newTestRouter()
			router.POST("/api/register-taxonomy", ginx.Adapt5(taxonomyAPI.RegisterTaxonomy))
			w := postJSON(t, router, "/api/register-taxonomy", tc.req)

			assert.Equal(t, tc.expectStatus, w.Code, w.Body.String())
			if tc.expectStatus == http.StatusOK {
				resp := decode[entity.RegisterTaxonomyResponse](t, w)
				require.NotNil(t, resp.Taxonomy)
				assert.Equal(t, "color", resp.Taxonomy.Name)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestTaxonomy_UnregisterAndDescribe(t *testing.T) {
	t.Parallel()

	mockService := new(MockTaxonomyService)
	mockService.On("UnregisterTaxonomy", mock.Anything, &entity.UnregisterTaxonomyRequest{Name: "color"}).
		Return(&entity.UnregisterTaxonomyResponse{Name: "color"}, nil)
	mockService.On("UnregisterTaxonomy", mock.Anything, &entity.UnregisterTaxonomyRequest{Name: "post_tag"}).
		Return(nil, service.ErrBuiltinProtected)
	mockService.On("DescribeTaxonomies", mock.Anything, &entity.DescribeTaxonomiesRequest{ObjectType: "post"}).
		Return(&entity.DescribeTaxonomiesResponse{Taxonomies: []*entity.Taxonomy{
			{Name: "category", Builtin: true},
			{Name: "post_tag", Builtin: true},
		}}, nil)

	taxonomyAPI := &Taxonomy{taxonomyService: mockService}
	router := newTestRouter()
	router.POST("/api/unregister-taxonomy", ginx.Adapt5(taxonomyAPI.UnregisterTaxonomy))
	router.POST("/api/describe-taxonomies", ginx.Adapt5(taxonomyAPI.DescribeTaxonomies))

	w := postJSON(t, router, "/api/unregister-taxonomy", entity.UnregisterTaxonomyRequest{Name: "color"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "color", decode[entity.UnregisterTaxonomyResponse](t, w).Name)

	w = postJSON(t, router, "/api/unregister-taxonomy", entity.UnregisterTaxonomyRequest{Name: "post_tag"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = postJSON(t, router, "/api/describe-taxonomies", entity.DescribeTaxonomiesRequest{ObjectType: "post"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[entity.DescribeTaxonomiesResponse](t, w).Taxonomies, 2)

	mockService.AssertExpectations(t)
}
