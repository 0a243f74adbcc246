package postgres

import (
	"context"
	"time"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/database"

	"github.com/google/uuid"
)

type projectRepo struct {
	db database.DB
}

func NewProjectRepository(db database.DB) domain.ProjectRepository {
	return &projectRepo{db: db}
}

const projectColumns = `id, user_id, title, description, long_description, image_url, live_url, repo_url,
	status, display_order, created_at, updated_at`

func scanProject(row scanner) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Description, &p.LongDescription, &p.ImageURL, &p.LiveURL, &p.RepoURL,
		&p.Status, &p.DisplayOrder, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	p.Technologies = []domain.ProjectTechnology{}
	return &p, nil
}

func setTechnologyIDs(p *domain.Project, ids []string) {
	for i := range p.Technologies {
		p.Technologies[i].ProjectID = p.ID
		if i < len(ids) {
			p.Technologies[i].ID = ids[i]
		}
	}
}

func (r *projectRepo) Create(ctx context.Context, p *domain.Project) error {
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.UserID, p.Title, p.Description, p.LongDescription, p.ImageURL, p.LiveURL, p.RepoURL,
		p.Status, p.DisplayOrder, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}

	ids, err := insertChildren(ctx, tx, projectTechnologies, p.ID, p.TechnologyNames())
	if err != nil {
		return err
	}
	setTechnologyIDs(p, ids)

	return tx.Commit(ctx)
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, err := scanProject(r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	children, err := loadChildren(ctx, r.db, projectTechnologies, []string{p.ID})
	if err != nil {
		return nil, err
	}
	attachTechnologies(p, children[p.ID])
	return p, nil
}

func (r *projectRepo) ListByUsers(ctx context.Context, userIDs []string, publishedOnly bool) ([]domain.Project, error) {
	projects := []domain.Project{}
	userIDs = validIDs(userIDs)
	if len(userIDs) == 0 {
		return projects, nil
	}

	query := `SELECT ` + projectColumns + ` FROM projects WHERE user_id = ANY($1::uuid[])`
	if publishedOnly {
		query += ` AND status = 'published'`
	}
	query += ` ORDER BY user_id, display_order ASC, created_at DESC`

	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	children, err := loadChildren(ctx, r.db, projectTechnologies, ids)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		attachTechnologies(&projects[i], children[projects[i].ID])
	}
	return projects, nil
}

func (r *projectRepo) Update(ctx context.Context, p *domain.Project, technologies *[]string) error {
	p.UpdatedAt = time.Now().UTC()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE projects SET title = $2, description = $3, long_description = $4, image_url = $5, live_url = $6,
		 repo_url = $7, status = $8, display_order = $9, updated_at = $10
		 WHERE id = $1`,
		p.ID, p.Title, p.Description, p.LongDescription, p.ImageURL, p.LiveURL,
		p.RepoURL, p.Status, p.DisplayOrder, p.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if technologies != nil {
		ids, err := replaceChildren(ctx, tx, projectTechnologies, p.ID, *technologies)
		if err != nil {
			return err
		}
		p.SetTechnologies(*technologies)
		setTechnologyIDs(p, ids)
	}

	return tx.Commit(ctx)
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func attachTechnologies(p *domain.Project, rows []childRow) {
	p.Technologies = make([]domain.ProjectTechnology, 0, len(rows))
	for _, c := range rows {
		p.Technologies = append(p.Technologies, domain.ProjectTechnology{ID: c.ID, ProjectID: c.ParentID, TechnologyName: c.Value})
	}
}
