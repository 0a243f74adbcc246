package usecase_test

import (
	"context"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/email"

	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) CreateWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	return m.Called(ctx, user, profile).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) ListPublicByIDs(ctx context.Context, ids []string) (map[string]domain.PublicUser, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.PublicUser), args.Error(1)
}

func (m *MockUserRepo) DeleteAccount(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepo) Discover(ctx context.Context, filter domain.DiscoverFilter) ([]domain.Profile, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

type MockSocialLinkRepo struct {
	mock.Mock
}

func (m *MockSocialLinkRepo) Create(ctx context.Context, link *domain.SocialLink) error {
	return m.Called(ctx, link).Error(0)
}

func (m *MockSocialLinkRepo) GetByID(ctx context.Context, id string) (*domain.SocialLink, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SocialLink), args.Error(1)
}

func (m *MockSocialLinkRepo) ListByProfiles(ctx context.Context, profileIDs []string) (map[string][]domain.SocialLink, error) {
	args := m.Called(ctx, profileIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.SocialLink), args.Error(1)
}

func (m *MockSocialLinkRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *MockProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepo) ListByUsers(ctx context.Context, userIDs []string, publishedOnly bool) ([]domain.Project, error) {
	args := m.Called(ctx, userIDs, publishedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepo) Update(ctx context.Context, project *domain.Project, technologies *[]string) error {
	return m.Called(ctx, project, technologies).Error(0)
}

func (m *MockProjectRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockBlogPostRepo struct {
	mock.Mock
}

func (m *MockBlogPostRepo) Create(ctx context.Context, post *domain.BlogPost) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockBlogPostRepo) GetByID(ctx context.Context, id string) (*domain.BlogPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BlogPost), args.Error(1)
}

func (m *MockBlogPostRepo) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BlogPost), args.Error(1)
}

func (m *MockBlogPostRepo) List(ctx context.Context, q domain.BlogPostQuery) ([]domain.BlogPost, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BlogPost), args.Error(1)
}

func (m *MockBlogPostRepo) Update(ctx context.Context, post *domain.BlogPost, tags *[]string) error {
	return m.Called(ctx, post, tags).Error(0)
}

func (m *MockBlogPostRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Store(ctx context.Context, slot domain.FileSlot, upload *domain.Upload) (string, error) {
	args := m.Called(ctx, slot, upload)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, locator string) error {
	return m.Called(ctx, locator).Error(0)
}

func (m *MockStorage) Manages(locator string) bool {
	return m.Called(locator).Bool(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg email.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockMailer) IsConfigured() bool {
	return m.Called().Bool(0)
}

func strPtr(s string) *string { return &s }
