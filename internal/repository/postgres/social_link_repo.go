package postgres

import (
	"context"
	"time"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/database"

	"github.com/google/uuid"
)

type socialLinkRepo struct {
	db database.DB
}

func NewSocialLinkRepository(db database.DB) domain.SocialLinkRepository {
	return &socialLinkRepo{db: db}
}

const socialLinkColumns = `id, profile_id, platform, url, created_at, updated_at`

func scanSocialLink(row scanner) (*domain.SocialLink, error) {
	var l domain.SocialLink
	if err := row.Scan(&l.ID, &l.ProfileID, &l.Platform, &l.URL, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return &l, nil
}

func (r *socialLinkRepo) Create(ctx context.Context, link *domain.SocialLink) error {
	now := time.Now().UTC()
	link.ID = uuid.NewString()
	link.CreatedAt, link.UpdatedAt = now, now

	_, err := r.db.Exec(ctx,
		`INSERT INTO social_links (`+socialLinkColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		link.ID, link.ProfileID, link.Platform, link.URL, link.CreatedAt, link.UpdatedAt,
	)
	return mapError(err)
}

func (r *socialLinkRepo) GetByID(ctx context.Context, id string) (*domain.SocialLink, error) {
	return scanSocialLink(r.db.QueryRow(ctx, `SELECT `+socialLinkColumns+` FROM social_links WHERE id = $1`, id))
}

func (r *socialLinkRepo) ListByProfiles(ctx context.Context, profileIDs []string) (map[string][]domain.SocialLink, error) {
	out := make(map[string][]domain.SocialLink, len(profileIDs))
	if len(profileIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+socialLinkColumns+` FROM social_links WHERE profile_id = ANY($1::uuid[]) ORDER BY profile_id, created_at`,
		profileIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		l, err := scanSocialLink(rows)
		if err != nil {
			return nil, err
		}
		out[l.ProfileID] = append(out[l.ProfileID], *l)
	}
	return out, rows.Err()
}

func (r *socialLinkRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM social_links WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
