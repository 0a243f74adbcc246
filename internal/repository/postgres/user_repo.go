package postgres

import (
	"context"
	"fmt"
	"time"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/database"

	"github.com/google/uuid"
)

type userRepo struct {
	db database.DB
}

func NewUserRepository(db database.DB) domain.UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, username, email, password_hash, role, created_at, updated_at`

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *userRepo) CreateWithProfile(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt, user.UpdatedAt = now, now

	profile.ID = uuid.NewString()
	profile.UserID = user.ID
	profile.CreatedAt, profile.UpdatedAt = now, now
	if profile.Interests == nil {
		profile.Interests = []string{}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Username, user.Email, user.PasswordHash, user.Role, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (`+profileColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		profileArgs(profile)...,
	)
	if err != nil {
		return mapError(err)
	}

	return tx.Commit(ctx)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *userRepo) ListPublicByIDs(ctx context.Context, ids []string) (map[string]domain.PublicUser, error) {
	out := make(map[string]domain.PublicUser, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id, username, email FROM users WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var u domain.PublicUser
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

// DeleteAccount removes owned content explicitly before the user row so the
// outcome does not depend on cascade configuration. Everything rolls back on
// the first failure.
func (r *userRepo) DeleteAccount(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		`DELETE FROM blog_posts WHERE user_id = $1`,
		`DELETE FROM projects WHERE user_id = $1`,
		`DELETE FROM profiles WHERE user_id = $1`,
	} {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete account %s: %w", id, err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit(ctx)
}
