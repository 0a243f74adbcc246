package usecase_test

import (
	"context"
	"testing"
	"time"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/internal/usecase"
	"portfolio-cms-backend/pkg/apperror"
	"portfolio-cms-backend/pkg/auth"
	"portfolio-cms-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthUsecase() (domain.AuthUsecase, *MockUserRepo, *MockProfileRepo, *auth.TokenService, *auth.PasswordHasher) {
	users := new(MockUserRepo)
	profiles := new(MockProfileRepo)
	tokens := auth.NewTokenService("test-secret-test-secret-test-secret", time.Hour)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	return usecase.NewAuthUsecase(users, profiles, hasher, tokens, validation.New()), users, profiles, tokens, hasher
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user role with default draft profile", func(t *testing.T) {
		uc, users, _, tokens, _ := newAuthUsecase()

		users.On("GetByEmail", ctx, "ada@example.com").Return(nil, domain.ErrNotFound)
		users.On("CreateWithProfile", ctx,
			mock.MatchedBy(func(u *domain.User) bool {
				return u.Role == domain.RoleUser && u.Username == "ada" && u.PasswordHash != "hunter22-secret"
			}),
			mock.MatchedBy(func(p *domain.Profile) bool {
				return p.Name == "ada" &&
					*p.Title == domain.DefaultProfileTitle &&
					*p.Bio == domain.DefaultProfileBio &&
					p.PrimaryColor == "#2563eb" &&
					p.SecondaryColor == "#9333ea" &&
					p.Status == domain.StatusDraft &&
					p.YearsOfExperience == 0 &&
					len(p.Interests) == 0
			}),
		).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = "u1"
			args.Get(2).(*domain.Profile).UserID = "u1"
		}).Return(nil)

		res, err := uc.Register(ctx, &domain.RegisterInput{Username: " ada ", Email: "Ada@Example.com", Password: "hunter22-secret"})
		require.NoError(t, err)

		id, err := tokens.Verify(res.Token)
		require.NoError(t, err)
		assert.Equal(t, "u1", id.ID)
		assert.Equal(t, domain.RoleUser, id.Role)
		assert.Equal(t, "u1", res.Profile.UserID)
		users.AssertExpectations(t)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		uc, users, _, _, _ := newAuthUsecase()
		users.On("GetByEmail", ctx, "ada@example.com").Return(&domain.User{ID: "u1"}, nil)

		_, err := uc.Register(ctx, &domain.RegisterInput{Username: "ada", Email: "ada@example.com", Password: "hunter22-secret"})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
		users.AssertNotCalled(t, "CreateWithProfile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate username surfaces from the store", func(t *testing.T) {
		uc, users, _, _, _ := newAuthUsecase()
		users.On("GetByEmail", ctx, "ada@example.com").Return(nil, domain.ErrNotFound)
		users.On("CreateWithProfile", ctx, mock.Anything, mock.Anything).Return(domain.ErrConflict)

		_, err := uc.Register(ctx, &domain.RegisterInput{Username: "ada", Email: "ada@example.com", Password: "hunter22-secret"})
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("invalid input reports fields", func(t *testing.T) {
		uc, _, _, _, _ := newAuthUsecase()

		_, err := uc.Register(ctx, &domain.RegisterInput{Username: "a", Email: "nope", Password: "short"})
		require.Error(t, err)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.KindValidation, appErr.Kind)
		assert.Contains(t, appErr.Fields, "username")
		assert.Contains(t, appErr.Fields, "email")
		assert.Contains(t, appErr.Fields, "password")
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials issue a token", func(t *testing.T) {
		uc, users, profiles, tokens, hasher := newAuthUsecase()
		hash, err := hasher.Hash("correct-horse")
		require.NoError(t, err)

		users.On("GetByEmail", ctx, "ada@example.com").Return(&domain.User{ID: "u1", Username: "ada", Email: "ada@example.com", PasswordHash: hash, Role: domain.RoleUser}, nil)
		profiles.On("GetByUserID", ctx, "u1").Return(&domain.Profile{ID: "p1", UserID: "u1"}, nil)

		res, err := uc.Login(ctx, &domain.LoginInput{Email: "ada@example.com", Password: "correct-horse"})
		require.NoError(t, err)
		id, err := tokens.Verify(res.Token)
		require.NoError(t, err)
		assert.Equal(t, "ada", id.Username)
		assert.Equal(t, "p1", res.Profile.ID)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		uc, users, _, _, hasher := newAuthUsecase()
		hash, _ := hasher.Hash("correct-horse")
		users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrNotFound)
		users.On("GetByEmail", ctx, "ada@example.com").Return(&domain.User{ID: "u1", PasswordHash: hash}, nil)

		_, errUnknown := uc.Login(ctx, &domain.LoginInput{Email: "ghost@example.com", Password: "whatever"})
		_, errWrong := uc.Login(ctx, &domain.LoginInput{Email: "ada@example.com", Password: "wrong"})

		assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(errUnknown))
		assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(errWrong))
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	uc, users, profiles, _, _ := newAuthUsecase()

	users.On("GetByID", ctx, "u1").Return(&domain.User{ID: "u1", Username: "ada"}, nil)
	profiles.On("GetByUserID", ctx, "u1").Return(&domain.Profile{ID: "p1"}, nil)
	users.On("GetByID", ctx, "gone").Return(nil, domain.ErrNotFound)

	res, err := uc.Me(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, res.Token)
	assert.Equal(t, "ada", res.User.Username)

	_, err = uc.Me(ctx, "gone")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = uc.Me(ctx, "")
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
}
