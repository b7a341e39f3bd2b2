package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/audit"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, t *Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockRepo) GetByKey(ctx context.Context, key string) (*Tenant, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Tenant), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, t *Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Tenant, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Tenant), args.Error(1)
}

type mockBootstrapper struct {
	mock.Mock
}

func (m *mockBootstrapper) Bootstrap(ctx context.Context, t *Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func TestCreateTenant_BootstrapsAfterCreate(t *testing.T) {
	repo := new(mockRepo)
	boot := new(mockBootstrapper)
	svc := NewService(repo, boot, audit.NewSlogLogger())

	repo.On("GetByKey", mock.Anything, "acme").Return(nil, ErrTenantNotFound)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(tn *Tenant) bool {
		return tn.Key == "acme" && tn.IsActive
	})).Return(nil)
	boot.On("Bootstrap", mock.Anything, mock.MatchedBy(func(tn *Tenant) bool {
		return tn.Key == "acme"
	})).Return(nil)

	created, err := svc.CreateTenant(context.Background(), " acme ", "Acme Corp", "postgres://localhost/acme", "admin@acme.test")
	require.NoError(t, err)
	assert.Equal(t, "acme", created.Key)
	repo.AssertExpectations(t)
	boot.AssertExpectations(t)
}

func TestCreateTenant_DuplicateKey(t *testing.T) {
	repo := new(mockRepo)
	boot := new(mockBootstrapper)
	svc := NewService(repo, boot, audit.NewSlogLogger())

	repo.On("GetByKey", mock.Anything, "acme").Return(&Tenant{Key: "acme"}, nil)

	_, err := svc.CreateTenant(context.Background(), "acme", "Acme Corp", "", "admin@acme.test")
	assert.ErrorIs(t, err, ErrTenantAlreadyExists)
	boot.AssertNotCalled(t, "Bootstrap", mock.Anything, mock.Anything)
}

func TestCreateTenant_ValidatesRequiredFields(t *testing.T) {
	svc := NewService(new(mockRepo), new(mockBootstrapper), audit.NewSlogLogger())

	_, err := svc.CreateTenant(context.Background(), "", "Acme", "", "admin@acme.test")
	assert.Error(t, err)

	_, err = svc.CreateTenant(context.Background(), "acme", "", "", "admin@acme.test")
	assert.Error(t, err)

	_, err = svc.CreateTenant(context.Background(), "acme", "Acme", "", "")
	assert.Error(t, err)
}

func TestCreateTenant_BootstrapErrorPropagates(t *testing.T) {
	repo := new(mockRepo)
	boot := new(mockBootstrapper)
	svc := NewService(repo, boot, audit.NewSlogLogger())

	repo.On("GetByKey", mock.Anything, "acme").Return(nil, ErrTenantNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	boot.On("Bootstrap", mock.Anything, mock.Anything).Return(errors.New("migrations failed"))

	_, err := svc.CreateTenant(context.Background(), "acme", "Acme Corp", "", "admin@acme.test")
	require.Error(t, err)
	assert.ErrorContains(t, err, "migrations failed")
}

func TestSetActive_TogglesOnce(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, new(mockBootstrapper), audit.NewSlogLogger())

	repo.On("GetByKey", mock.Anything, "acme").Return(&Tenant{Key: "acme", IsActive: true}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(tn *Tenant) bool {
		return !tn.IsActive
	})).Return(nil)

	updated, err := svc.SetActive(context.Background(), "acme", false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	repo.AssertExpectations(t)
}

func TestSetActive_NoOpWhenUnchanged(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(repo, new(mockBootstrapper), audit.NewSlogLogger())

	repo.On("GetByKey", mock.Anything, "acme").Return(&Tenant{Key: "acme", IsActive: true}, nil)

	_, err := svc.SetActive(context.Background(), "acme", true)
	require.NoError(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
