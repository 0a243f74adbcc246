package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/database"

	"github.com/google/uuid"
)

type blogPostRepo struct {
	db database.DB
}

func NewBlogPostRepository(db database.DB) domain.BlogPostRepository {
	return &blogPostRepo{db: db}
}

const blogPostSelect = `SELECT b.id, b.user_id, u.username, b.title, b.slug, b.content, b.image_url, b.status,
	b.published_at, b.created_at, b.updated_at
	FROM blog_posts b
	JOIN users u ON u.id = b.user_id`

func scanBlogPost(row scanner) (*domain.BlogPost, error) {
	var p domain.BlogPost
	err := row.Scan(
		&p.ID, &p.UserID, &p.Author, &p.Title, &p.Slug, &p.Content, &p.ImageURL, &p.Status,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	p.Tags = []domain.BlogTag{}
	return &p, nil
}

func setTagIDs(p *domain.BlogPost, ids []string) {
	for i := range p.Tags {
		p.Tags[i].BlogPostID = p.ID
		if i < len(ids) {
			p.Tags[i].ID = ids[i]
		}
	}
}

func attachTags(p *domain.BlogPost, rows []childRow) {
	p.Tags = make([]domain.BlogTag, 0, len(rows))
	for _, c := range rows {
		p.Tags = append(p.Tags, domain.BlogTag{ID: c.ID, BlogPostID: c.ParentID, TagName: c.Value})
	}
}

func (r *blogPostRepo) Create(ctx context.Context, p *domain.BlogPost) error {
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt, p.UpdatedAt = now, now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO blog_posts (id, user_id, title, slug, content, image_url, status, published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.UserID, p.Title, p.Slug, p.Content, p.ImageURL, p.Status, p.PublishedAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}

	ids, err := insertChildren(ctx, tx, blogTags, p.ID, p.TagNames())
	if err != nil {
		return err
	}
	setTagIDs(p, ids)

	return tx.Commit(ctx)
}

func (r *blogPostRepo) getOne(ctx context.Context, where string, arg any) (*domain.BlogPost, error) {
	p, err := scanBlogPost(r.db.QueryRow(ctx, blogPostSelect+` WHERE `+where, arg))
	if err != nil {
		return nil, err
	}
	children, err := loadChildren(ctx, r.db, blogTags, []string{p.ID})
	if err != nil {
		return nil, err
	}
	attachTags(p, children[p.ID])
	return p, nil
}

func (r *blogPostRepo) GetByID(ctx context.Context, id string) (*domain.BlogPost, error) {
	return r.getOne(ctx, `b.id = $1`, id)
}

func (r *blogPostRepo) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	return r.getOne(ctx, `b.slug = $1`, slug)
}

func (r *blogPostRepo) List(ctx context.Context, q domain.BlogPostQuery) ([]domain.BlogPost, error) {
	var conditions []string
	var args []any
	argIndex := 1

	if len(q.UserIDs) > 0 {
		userIDs := validIDs(q.UserIDs)
		if len(userIDs) == 0 {
			return []domain.BlogPost{}, nil
		}
		conditions = append(conditions, fmt.Sprintf("b.user_id = ANY($%d::uuid[])", argIndex))
		args = append(args, userIDs)
		argIndex++
	}
	if q.PublishedOnly {
		conditions = append(conditions, "b.status = 'published'")
	}

	query := blogPostSelect
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY b.created_at DESC`
	if q.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, argIndex, argIndex+1)
		args = append(args, q.Limit, q.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []domain.BlogPost{}
	ids := []string{}
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	children, err := loadChildren(ctx, r.db, blogTags, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		attachTags(&posts[i], children[posts[i].ID])
	}
	return posts, nil
}

func (r *blogPostRepo) Update(ctx context.Context, p *domain.BlogPost, tags *[]string) error {
	p.UpdatedAt = time.Now().UTC()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE blog_posts SET title = $2, slug = $3, content = $4, image_url = $5, status = $6,
		 published_at = $7, updated_at = $8
		 WHERE id = $1`,
		p.ID, p.Title, p.Slug, p.Content, p.ImageURL, p.Status, p.PublishedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if tags != nil {
		ids, err := replaceChildren(ctx, tx, blogTags, p.ID, *tags)
		if err != nil {
			return err
		}
		p.SetTags(*tags)
		setTagIDs(p, ids)
	}

	return tx.Commit(ctx)
}

func (r *blogPostRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
