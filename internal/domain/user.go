package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the part of a user shown alongside their portfolio.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register, login and me. Token is empty for me.
type AuthResult struct {
	Token   string   `json:"token,omitempty"`
	User    *User    `json:"user"`
	Profile *Profile `json:"profile"`
}

type UserRepository interface {
	// CreateWithProfile inserts the user and their profile in one transaction.
	CreateWithProfile(ctx context.Context, user *User, profile *Profile) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListPublicByIDs(ctx context.Context, ids []string) (map[string]PublicUser, error)
	// DeleteAccount removes the user and everything they own in one transaction.
	DeleteAccount(ctx context.Context, id string) error
}

type AuthUsecase interface {
	Register(ctx context.Context, in *RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in *LoginInput) (*AuthResult, error)
	Me(ctx context.Context, userID string) (*AuthResult, error)
}
