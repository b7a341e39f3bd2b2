package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Search(ctx context.Context, tenantKey string, filter SearchFilter) ([]Brand, int, error) {
	args := m.Called(ctx, tenantKey, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]Brand), args.Int(1), args.Error(2)
}

func (m *mockRepo) GetByID(ctx context.Context, tenantKey, id string) (*Brand, error) {
	args := m.Called(ctx, tenantKey, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Brand), args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, brand *Brand) error {
	args := m.Called(ctx, brand)
	return args.Error(0)
}

func (m *mockRepo) Update(ctx context.Context, brand *Brand) error {
	args := m.Called(ctx, brand)
	return args.Error(0)
}

func (m *mockRepo) Delete(ctx context.Context, tenantKey, id string) error {
	args := m.Called(ctx, tenantKey, id)
	return args.Error(0)
}

func newTestService(repo *mockRepo) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSearchBrands_NormalizesFilter(t *testing.T) {
	repo := new(mockRepo)
	svc := newTestService(repo)

	normalized := SearchFilter{Page: 1, PageSize: DefaultPageSize}
	repo.On("Search", mock.Anything, "acme", normalized).Return([]Brand{{Name: "Contoso"}}, 1, nil)

	page, err := svc.SearchBrands(context.Background(), "acme", SearchFilter{Page: 0, PageSize: -5})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.PageSize)
	assert.Equal(t, 1, page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	repo.AssertExpectations(t)
}

func TestSearchBrands_PageMetadata(t *testing.T) {
	repo := new(mockRepo)
	svc := newTestService(repo)

	filter := SearchFilter{Page: 2, PageSize: 10}
	repo.On("Search", mock.Anything, "acme", filter).Return([]Brand{}, 25, nil)

	page, err := svc.SearchBrands(context.Background(), "acme", filter)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext())
	assert.True(t, page.HasPrevious())
	assert.NotNil(t, page.Items)
}

func TestSearchBrands_ClampsPageSize(t *testing.T) {
	repo := new(mockRepo)
	svc := newTestService(repo)

	clamped := SearchFilter{Page: 1, PageSize: MaxPageSize}
	repo.On("Search", mock.Anything, "acme", clamped).Return([]Brand{}, 0, nil)

	_, err := svc.SearchBrands(context.Background(), "acme", SearchFilter{Page: 1, PageSize: 5000})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreateBrand_AssignsIDAndTenant(t *testing.T) {
	repo := new(mockRepo)
	svc := newTestService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(b *Brand) bool {
		return b.ID != "" && b.TenantKey == "acme" && b.Name == "Contoso"
	})).Return(nil)

	brand := &Brand{Name: "  Contoso  "}
	require.NoError(t, svc.CreateBrand(context.Background(), "acme", brand))
	assert.Equal(t, "Contoso", brand.Name)
	assert.False(t, brand.CreatedAt.IsZero())
	repo.AssertExpectations(t)
}

func TestCreateBrand_RejectsEmptyName(t *testing.T) {
	repo := new(mockRepo)
	svc := newTestService(repo)

	err := svc.CreateBrand(context.Background(), "acme", &Brand{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidBrand)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateBrand_NotFound(t *testing.T) {
	repo := new(mockRepo)
	svc := newTestService(repo)

	repo.On("GetByID", mock.Anything, "acme", "b1").Return(nil, ErrBrandNotFound)

	_, err := svc.UpdateBrand(context.Background(), "acme", "b1", "Contoso", "")
	assert.ErrorIs(t, err, ErrBrandNotFound)
}

func TestUpdateBrand_PersistsChanges(t *testing.T) {
	repo := new(mockRepo)
	svc := newTestService(repo)

	existing := &Brand{ID: "b1", TenantKey: "acme", Name: "Old"}
	repo.On("GetByID", mock.Anything, "acme", "b1").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(b *Brand) bool {
		return b.ID == "b1" && b.Name == "New" && b.Description == "refreshed"
	})).Return(nil)

	updated, err := svc.UpdateBrand(context.Background(), "acme", "b1", "New", "refreshed")
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	repo.AssertExpectations(t)
}

func TestDeleteBrand_RequiresID(t *testing.T) {
	repo := new(mockRepo)
	svc := newTestService(repo)

	err := svc.DeleteBrand(context.Background(), "acme", "")
	assert.ErrorIs(t, err, ErrInvalidBrand)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
