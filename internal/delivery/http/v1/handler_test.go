package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"portfolio-cms-backend/config"
	"portfolio-cms-backend/internal/delivery/http/response"
	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/internal/usecase"
	"portfolio-cms-backend/pkg/apperror"
	"portfolio-cms-backend/pkg/auth"
	"portfolio-cms-backend/pkg/security"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	router   *gin.Engine
	auth     *mockAuthUC
	profiles *mockProfileUC
	export   *mockExportUC
	projects *mockProjectUC
	posts    *mockBlogPostUC
	links    *mockSocialLinkUC
	contact  *mockContactUC
	tokens   *auth.TokenService
}

func newFixture(t *testing.T, health usecase.HealthUsecase) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	if health == nil {
		health = usecase.NewHealthUsecase(map[string]usecase.Pinger{})
	}

	secLog := security.NopSecurityLogger()
	f := &fixture{
		auth:     new(mockAuthUC),
		profiles: new(mockProfileUC),
		export:   new(mockExportUC),
		projects: new(mockProjectUC),
		posts:    new(mockBlogPostUC),
		links:    new(mockSocialLinkUC),
		contact:  new(mockContactUC),
		tokens:   auth.NewTokenService("handler-test-secret", time.Hour),
	}
	f.router = NewRouter(RouterDeps{
		AuthUC:       f.auth,
		ProfileUC:    f.profiles,
		SocialLinkUC: f.links,
		ExportUC:     f.export,
		ProjectUC:    f.projects,
		BlogPostUC:   f.posts,
		ContactUC:    f.contact,
		HealthUC:     health,
		Tokens:       f.tokens,
		Redis:        client,
		SecLog:       secLog,
		LoginTracker: security.NewLoginTracker(client, security.LoginTrackerConfig{
			MaxAttempts:   2,
			AttemptWindow: time.Minute,
			BlockDuration: time.Minute,
		}, secLog),
		Uploads: security.NewUploadLimiter(client, 10),
		Config: &config.Config{
			RateLimitWindowSeconds:   60,
			RateLimitGlobalThreshold: 1000,
			RateLimitAuthThreshold:   1000,
			MaxUploadBytes:           1 << 20,
		},
	})
	return f
}

func (f *fixture) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := f.tokens.Sign(auth.Identity{ID: userID, Username: "user-" + userID, Role: "user"})
	require.NoError(t, err)
	return token
}

func (f *fixture) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path string, body any) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetProfilePassesOptionalCaller(t *testing.T) {
	f := newFixture(t, nil)
	agg := &domain.ProfileAggregate{Profile: domain.Profile{UserID: "u1", Name: "Ada"}}

	f.profiles.On("GetProfile", mock.Anything, "u1", "").Return(agg, nil).Once()
	f.profiles.On("GetProfile", mock.Anything, "u1", "u1").Return(agg, nil).Once()

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/profiles/u1", nil), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/api/profiles/u1", nil), f.token(t, "u1"))
	assert.Equal(t, http.StatusOK, w.Code)

	// A broken token on a read is treated as anonymous
	req := httptest.NewRequest(http.MethodGet, "/api/profiles/u1", nil)
	f.profiles.On("GetProfile", mock.Anything, "u1", "").Return(nil, apperror.NotFound("Profile not found")).Once()
	w = f.do(req, "garbage")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.KindNotFound, envelope(t, w).Error.Kind)

	f.profiles.AssertExpectations(t)
}

func TestDiscoverParsesFilters(t *testing.T) {
	f := newFixture(t, nil)

	f.profiles.On("Discover", mock.Anything, mock.MatchedBy(func(filter domain.DiscoverFilter) bool {
		return filter.Industry == "Tech" &&
			filter.MinYears != nil && *filter.MinYears == 3 &&
			assert.ObjectsAreEqual([]string{"go", " rust"}, filter.Interests) &&
			filter.Limit == 10
	})).Return([]domain.ProfileAggregate{}, nil).Once()

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/profiles?industry=Tech&yearsOfExperience=3&interests=go,%20rust&limit=10", nil), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, envelope(t, w).Success)
	f.profiles.AssertExpectations(t)
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, data := range files {
		part, err := mw.CreateFormFile(name, name+".pdf")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpdateProfile(t *testing.T) {
	t.Run("only the owner may update", func(t *testing.T) {
		f := newFixture(t, nil)
		body, contentType := multipartBody(t, map[string]string{"name": "Mallory"}, nil)
		req := httptest.NewRequest(http.MethodPut, "/api/profiles/u2", body)
		req.Header.Set("Content-Type", contentType)

		w := f.do(req, f.token(t, "u1"))
		assert.Equal(t, http.StatusForbidden, w.Code)
		f.profiles.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("anonymous update is unauthenticated", func(t *testing.T) {
		f := newFixture(t, nil)
		req := httptest.NewRequest(http.MethodPut, "/api/profiles/u1", nil)

		w := f.do(req, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apperror.KindUnauthenticated, envelope(t, w).Error.Kind)
	})

	t.Run("form keys and files reach the usecase", func(t *testing.T) {
		f := newFixture(t, nil)
		body, contentType := multipartBody(t,
			map[string]string{"name": "Ada", "interests": "", "avatarUrl": "", "yearsOfExperience": "7"},
			map[string][]byte{"resume": []byte("%PDF-1.4 test")},
		)
		req := httptest.NewRequest(http.MethodPut, "/api/profiles/u1", body)
		req.Header.Set("Content-Type", contentType)

		f.profiles.On("UpdateProfile", mock.Anything, "u1", "u1",
			mock.MatchedBy(func(u *domain.ProfileUpdate) bool {
				return u.Name != nil && *u.Name == "Ada" &&
					u.Interests != nil && len(*u.Interests) == 0 &&
					u.YearsOfExperience != nil && *u.YearsOfExperience == 7 &&
					u.ClearAvatar && !u.ClearResume && u.Title == nil
			}),
			mock.MatchedBy(func(files domain.ProfileFiles) bool {
				return files.Avatar == nil && files.Resume != nil && files.Resume.Filename == "resume.pdf"
			}),
		).Return(&domain.Profile{UserID: "u1", Name: "Ada"}, nil).Once()

		w := f.do(req, f.token(t, "u1"))
		assert.Equal(t, http.StatusOK, w.Code)
		f.profiles.AssertExpectations(t)
	})

	t.Run("bad numbers are validation errors", func(t *testing.T) {
		f := newFixture(t, nil)
		form := url.Values{"yearsOfExperience": {"many"}}
		req := httptest.NewRequest(http.MethodPut, "/api/profiles/u1", bytes.NewBufferString(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		w := f.do(req, f.token(t, "u1"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, envelope(t, w).Error.Fields, "yearsOfExperience")
	})
}

func TestExportPortfolio(t *testing.T) {
	f := newFixture(t, nil)
	f.export.On("ExportPortfolio", mock.Anything, "u1", "u1").Return([]byte("xlsx-bytes"), "portfolio_ada.xlsx", nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/profiles/u1/export", nil), f.token(t, "u1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "portfolio_ada.xlsx")
	assert.Equal(t, "xlsx-bytes", w.Body.String())
}

func TestLoginLockout(t *testing.T) {
	f := newFixture(t, nil)
	creds := map[string]string{"email": "ada@example.com", "password": "wrong-password"}
	f.auth.On("Login", mock.Anything, mock.Anything).Return(nil, apperror.Unauthorized("Invalid credentials"))

	for i := 0; i < 2; i++ {
		w := f.do(jsonRequest(http.MethodPost, "/api/auth/login", creds), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := f.do(jsonRequest(http.MethodPost, "/api/auth/login", creds), "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	f.auth.AssertNumberOfCalls(t, "Login", 2)
}

func TestRegisterAndMe(t *testing.T) {
	f := newFixture(t, nil)
	result := &domain.AuthResult{Token: "tok", User: &domain.User{ID: "u1", Username: "ada"}}
	f.auth.On("Register", mock.Anything, mock.MatchedBy(func(in *domain.RegisterInput) bool {
		return in.Username == "ada"
	})).Return(result, nil)
	f.auth.On("Me", mock.Anything, "u1").Return(&domain.AuthResult{User: result.User}, nil)

	w := f.do(jsonRequest(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "ada", "email": "ada@example.com", "password": "correct-horse",
	}), "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), f.token(t, "u1"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProjectUpdateChildrenPresence(t *testing.T) {
	f := newFixture(t, nil)
	token := f.token(t, "u1")

	f.projects.On("Update", mock.Anything, "p1", "u1", mock.MatchedBy(func(p *domain.ProjectPatch) bool {
		return p.Technologies != nil && assert.ObjectsAreEqual(domain.ChildNames{"Go"}, *p.Technologies)
	})).Return(&domain.Project{ID: "p1"}, nil).Once()
	f.projects.On("Update", mock.Anything, "p1", "u1", mock.MatchedBy(func(p *domain.ProjectPatch) bool {
		return p.Technologies == nil && p.Title != nil
	})).Return(&domain.Project{ID: "p1"}, nil).Once()

	w := f.do(jsonRequest(http.MethodPut, "/api/projects/p1", map[string]any{
		"technologies": []map[string]string{{"technologyName": "Go"}},
	}), token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(jsonRequest(http.MethodPut, "/api/projects/p1", map[string]any{"title": "Renamed"}), token)
	assert.Equal(t, http.StatusOK, w.Code)

	f.projects.AssertExpectations(t)
}

func TestBlogPostRoutes(t *testing.T) {
	f := newFixture(t, nil)
	f.posts.On("List", mock.Anything, "u1", "").Return([]domain.BlogPost{}, nil).Once()
	f.posts.On("GetBySlug", mock.Anything, "hello-world", "").Return(&domain.BlogPost{Slug: "hello-world"}, nil).Once()
	f.posts.On("Delete", mock.Anything, "b1", "u2").Return(apperror.Forbidden("You can only delete your own posts")).Once()

	assert.Equal(t, http.StatusOK, f.do(httptest.NewRequest(http.MethodGet, "/api/blogposts?userId=u1", nil), "").Code)
	assert.Equal(t, http.StatusOK, f.do(httptest.NewRequest(http.MethodGet, "/api/blogposts/slug/hello-world", nil), "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(httptest.NewRequest(http.MethodDelete, "/api/blogposts/b1", nil), f.token(t, "u2")).Code)

	f.posts.AssertExpectations(t)
}

func TestContactErrors(t *testing.T) {
	f := newFixture(t, nil)
	f.contact.On("SendContactMessage", mock.Anything, mock.Anything).
		Return(apperror.Upstream("Failed to send message. Please try again later.", errors.New("dial tcp: refused"))).Once()

	w := f.do(jsonRequest(http.MethodPost, "/api/contact", map[string]string{
		"name": "Grace", "email": "grace@example.com", "message": "Hello",
	}), "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "refused")
}

func TestHealth(t *testing.T) {
	healthy := newFixture(t, nil)
	assert.Equal(t, http.StatusOK, healthy.do(httptest.NewRequest(http.MethodGet, "/api/health", nil), "").Code)

	degraded := newFixture(t, usecase.NewHealthUsecase(map[string]usecase.Pinger{
		"database": usecase.PingFunc(func(context.Context) error { return errors.New("down") }),
	}))
	assert.Equal(t, http.StatusServiceUnavailable, degraded.do(httptest.NewRequest(http.MethodGet, "/api/health", nil), "").Code)
}

func TestNoRoute(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(httptest.NewRequest(http.MethodGet, "/api/nope", nil), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.KindNotFound, envelope(t, w).Error.Kind)
}

func TestParseInterests(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"", []string{}},
		{`["go","rust"]`, []string{"go", "rust"}},
		{"go, rust", []string{"go", " rust"}},
	}
	for _, tc := range cases {
		got, err := parseInterests(tc.raw)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.raw)
	}

	_, err := parseInterests(`["go"`)
	assert.Error(t, err)
}
