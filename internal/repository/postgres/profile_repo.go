package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/database"
)

const (
	DefaultDiscoverLimit = 50
	MaxDiscoverLimit     = 100
)

const profileColumns = `id, user_id, name, title, bio, avatar_url, resume_url, location, interests, website_url,
	primary_color, secondary_color, status, industry, years_of_experience, created_at, updated_at`

type profileRepo struct {
	db database.DB
}

func NewProfileRepository(db database.DB) domain.ProfileRepository {
	return &profileRepo{db: db}
}

// interestsOf never hands pgx a nil slice, which it would write as NULL.
func interestsOf(p *domain.Profile) []string {
	if p.Interests == nil {
		return []string{}
	}
	return p.Interests
}

func profileArgs(p *domain.Profile) []any {
	return []any{
		p.ID, p.UserID, p.Name, p.Title, p.Bio, p.AvatarURL, p.ResumeURL, p.Location, interestsOf(p), p.WebsiteURL,
		p.PrimaryColor, p.SecondaryColor, p.Status, p.Industry, p.YearsOfExperience, p.CreatedAt, p.UpdatedAt,
	}
}

// profileScanTargets lists the destinations for profileColumns, in order.
// interests decodes straight into []string, in text or binary format.
func profileScanTargets(p *domain.Profile) []any {
	return []any{
		&p.ID, &p.UserID, &p.Name, &p.Title, &p.Bio, &p.AvatarURL, &p.ResumeURL, &p.Location, &p.Interests, &p.WebsiteURL,
		&p.PrimaryColor, &p.SecondaryColor, &p.Status, &p.Industry, &p.YearsOfExperience, &p.CreatedAt, &p.UpdatedAt,
	}
}

func scanProfile(row scanner) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(profileScanTargets(&p)...); err != nil {
		return nil, mapError(err)
	}
	if p.Interests == nil {
		p.Interests = []string{}
	}
	return &p, nil
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
}

func (r *profileRepo) Update(ctx context.Context, p *domain.Profile) error {
	p.UpdatedAt = time.Now().UTC()

	query := `UPDATE profiles SET
		name = $2, title = $3, bio = $4, avatar_url = $5, resume_url = $6, location = $7, interests = $8,
		website_url = $9, primary_color = $10, secondary_color = $11, status = $12, industry = $13,
		years_of_experience = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		p.ID, p.Name, p.Title, p.Bio, p.AvatarURL, p.ResumeURL, p.Location, interestsOf(p),
		p.WebsiteURL, p.PrimaryColor, p.SecondaryColor, p.Status, p.Industry,
		p.YearsOfExperience, p.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// buildDiscoverQuery assembles the directory query. Only published profiles
// are ever returned.
func buildDiscoverQuery(f domain.DiscoverFilter) (string, []any) {
	conditions := []string{"status = 'published'"}
	var args []any
	argIndex := 1

	if s := strings.TrimSpace(f.Search); s != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR title ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+escapeLike(s)+"%")
		argIndex++
	}
	if s := strings.TrimSpace(f.Location); s != "" {
		conditions = append(conditions, fmt.Sprintf("location ILIKE $%d", argIndex))
		args = append(args, "%"+escapeLike(s)+"%")
		argIndex++
	}
	if s := strings.TrimSpace(f.Industry); s != "" {
		conditions = append(conditions, fmt.Sprintf("industry ILIKE $%d", argIndex))
		args = append(args, "%"+escapeLike(s)+"%")
		argIndex++
	}
	if f.MinYears != nil {
		conditions = append(conditions, fmt.Sprintf("years_of_experience >= $%d", argIndex))
		args = append(args, *f.MinYears)
		argIndex++
	}
	if keywords := normalizeKeywords(f.Interests); len(keywords) > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM unnest(interests) AS i WHERE lower(i) = ANY($%d::text[]))", argIndex))
		args = append(args, keywords)
		argIndex++
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultDiscoverLimit
	}
	if limit > MaxDiscoverLimit {
		limit = MaxDiscoverLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE %s ORDER BY name ASC, id ASC LIMIT $%d OFFSET $%d`,
		profileColumns, strings.Join(conditions, " AND "), argIndex, argIndex+1)
	args = append(args, limit, offset)
	return query, args
}

func (r *profileRepo) Discover(ctx context.Context, f domain.DiscoverFilter) ([]domain.Profile, error) {
	query, args := buildDiscoverQuery(f)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func normalizeKeywords(in []string) []string {
	var out []string
	for _, k := range in {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			out = append(out, k)
		}
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
