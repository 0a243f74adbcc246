package v1

import (
	"context"

	"portfolio-cms-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type mockAuthUC struct{ mock.Mock }

func (m *mockAuthUC) Register(ctx context.Context, in *domain.RegisterInput) (*domain.AuthResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*domain.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuthUC) Login(ctx context.Context, in *domain.LoginInput) (*domain.AuthResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*domain.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuthUC) Me(ctx context.Context, userID string) (*domain.AuthResult, error) {
	args := m.Called(ctx, userID)
	res, _ := args.Get(0).(*domain.AuthResult)
	return res, args.Error(1)
}

type mockProfileUC struct{ mock.Mock }

func (m *mockProfileUC) GetProfile(ctx context.Context, userID, callerID string) (*domain.ProfileAggregate, error) {
	args := m.Called(ctx, userID, callerID)
	res, _ := args.Get(0).(*domain.ProfileAggregate)
	return res, args.Error(1)
}

func (m *mockProfileUC) Discover(ctx context.Context, filter domain.DiscoverFilter) ([]domain.ProfileAggregate, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).([]domain.ProfileAggregate)
	return res, args.Error(1)
}

func (m *mockProfileUC) UpdateProfile(ctx context.Context, userID, callerID string, update *domain.ProfileUpdate, files domain.ProfileFiles) (*domain.Profile, error) {
	args := m.Called(ctx, userID, callerID, update, files)
	res, _ := args.Get(0).(*domain.Profile)
	return res, args.Error(1)
}

func (m *mockProfileUC) DeleteAccount(ctx context.Context, userID, callerID string) error {
	return m.Called(ctx, userID, callerID).Error(0)
}

type mockExportUC struct{ mock.Mock }

func (m *mockExportUC) ExportPortfolio(ctx context.Context, userID, callerID string) ([]byte, string, error) {
	args := m.Called(ctx, userID, callerID)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}

type mockProjectUC struct{ mock.Mock }

func (m *mockProjectUC) ListByUser(ctx context.Context, ownerID, callerID string) ([]domain.Project, error) {
	args := m.Called(ctx, ownerID, callerID)
	res, _ := args.Get(0).([]domain.Project)
	return res, args.Error(1)
}

func (m *mockProjectUC) Get(ctx context.Context, id, callerID string) (*domain.Project, error) {
	args := m.Called(ctx, id, callerID)
	res, _ := args.Get(0).(*domain.Project)
	return res, args.Error(1)
}

func (m *mockProjectUC) Create(ctx context.Context, callerID string, in *domain.ProjectInput) (*domain.Project, error) {
	args := m.Called(ctx, callerID, in)
	res, _ := args.Get(0).(*domain.Project)
	return res, args.Error(1)
}

func (m *mockProjectUC) Update(ctx context.Context, id, callerID string, patch *domain.ProjectPatch) (*domain.Project, error) {
	args := m.Called(ctx, id, callerID, patch)
	res, _ := args.Get(0).(*domain.Project)
	return res, args.Error(1)
}

func (m *mockProjectUC) Delete(ctx context.Context, id, callerID string) error {
	return m.Called(ctx, id, callerID).Error(0)
}

type mockBlogPostUC struct{ mock.Mock }

func (m *mockBlogPostUC) List(ctx context.Context, ownerID, callerID string) ([]domain.BlogPost, error) {
	args := m.Called(ctx, ownerID, callerID)
	res, _ := args.Get(0).([]domain.BlogPost)
	return res, args.Error(1)
}

func (m *mockBlogPostUC) Get(ctx context.Context, id, callerID string) (*domain.BlogPost, error) {
	args := m.Called(ctx, id, callerID)
	res, _ := args.Get(0).(*domain.BlogPost)
	return res, args.Error(1)
}

func (m *mockBlogPostUC) GetBySlug(ctx context.Context, slug, callerID string) (*domain.BlogPost, error) {
	args := m.Called(ctx, slug, callerID)
	res, _ := args.Get(0).(*domain.BlogPost)
	return res, args.Error(1)
}

func (m *mockBlogPostUC) Create(ctx context.Context, callerID string, in *domain.BlogPostInput) (*domain.BlogPost, error) {
	args := m.Called(ctx, callerID, in)
	res, _ := args.Get(0).(*domain.BlogPost)
	return res, args.Error(1)
}

func (m *mockBlogPostUC) Update(ctx context.Context, id, callerID string, patch *domain.BlogPostPatch) (*domain.BlogPost, error) {
	args := m.Called(ctx, id, callerID, patch)
	res, _ := args.Get(0).(*domain.BlogPost)
	return res, args.Error(1)
}

func (m *mockBlogPostUC) Delete(ctx context.Context, id, callerID string) error {
	return m.Called(ctx, id, callerID).Error(0)
}

type mockSocialLinkUC struct{ mock.Mock }

func (m *mockSocialLinkUC) Add(ctx context.Context, profileID, callerID string, in *domain.SocialLinkInput) (*domain.SocialLink, error) {
	args := m.Called(ctx, profileID, callerID, in)
	res, _ := args.Get(0).(*domain.SocialLink)
	return res, args.Error(1)
}

func (m *mockSocialLinkUC) Delete(ctx context.Context, profileID, linkID, callerID string) error {
	return m.Called(ctx, profileID, linkID, callerID).Error(0)
}

type mockContactUC struct{ mock.Mock }

func (m *mockContactUC) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	return m.Called(ctx, req).Error(0)
}
