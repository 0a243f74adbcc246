package usecase

import (
	"context"
	"errors"
	"strings"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"
	"portfolio-cms-backend/pkg/auth"

	"github.com/go-playground/validator/v10"
)

type authUsecase struct {
	users    domain.UserRepository
	profiles domain.ProfileRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenService
	validate *validator.Validate
}

func NewAuthUsecase(
	users domain.UserRepository,
	profiles domain.ProfileRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenService,
	validate *validator.Validate,
) domain.AuthUsecase {
	return &authUsecase{
		users:    users,
		profiles: profiles,
		hasher:   hasher,
		tokens:   tokens,
		validate: validate,
	}
}

// Register creates the user together with a draft default profile. The role
// is always "user"; admins are provisioned out of band.
func (u *authUsecase) Register(ctx context.Context, in *domain.RegisterInput) (*domain.AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := u.validate.Struct(in); err != nil {
		return nil, invalid(err)
	}

	existing, err := u.users.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict("User with this email already exists")
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	profile := domain.NewDefaultProfile("", in.Username)

	if err := u.users.CreateWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperror.Conflict("Username or email is already taken")
		}
		return nil, apperror.Internal(err)
	}

	return u.issue(user, profile)
}

// Login answers unknown emails and wrong passwords with the same error.
func (u *authUsecase) Login(ctx context.Context, in *domain.LoginInput) (*domain.AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := u.validate.Struct(in); err != nil {
		return nil, invalid(err)
	}

	user, err := u.users.GetByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !u.hasher.Compare(in.Password, user.PasswordHash) {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	profile, err := u.profiles.GetByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	return u.issue(user, profile)
}

func (u *authUsecase) Me(ctx context.Context, userID string) (*domain.AuthResult, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}

	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, translate(err, "User not found")
	}

	profile, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	return &domain.AuthResult{User: user, Profile: profile}, nil
}

func (u *authUsecase) issue(user *domain.User, profile *domain.Profile) (*domain.AuthResult, error) {
	token, err := u.tokens.Sign(auth.Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AuthResult{Token: token, User: user, Profile: profile}, nil
}
