package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
)

const maxSlugLength = 220

type blogPostUsecase struct {
	posts    domain.BlogPostRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewBlogPostUsecase(posts domain.BlogPostRepository, validate *validator.Validate) domain.BlogPostUsecase {
	return &blogPostUsecase{posts: posts, validate: validate, now: time.Now}
}

// List without an owner returns every published post. With an owner the
// owner sees drafts too.
func (u *blogPostUsecase) List(ctx context.Context, ownerID, callerID string) ([]domain.BlogPost, error) {
	q := domain.BlogPostQuery{PublishedOnly: true}
	if ownerID != "" {
		q.UserIDs = []string{ownerID}
		q.PublishedOnly = domain.ResolveVisibility(ownerID, callerID).PublishedOnly()
	}

	posts, err := u.posts.List(ctx, q)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return posts, nil
}

func (u *blogPostUsecase) Get(ctx context.Context, id, callerID string) (*domain.BlogPost, error) {
	post, err := u.posts.GetByID(ctx, id)
	return u.visible(post, err, callerID)
}

func (u *blogPostUsecase) GetBySlug(ctx context.Context, slug, callerID string) (*domain.BlogPost, error) {
	post, err := u.posts.GetBySlug(ctx, slug)
	return u.visible(post, err, callerID)
}

func (u *blogPostUsecase) visible(post *domain.BlogPost, err error, callerID string) (*domain.BlogPost, error) {
	if err != nil {
		return nil, translate(err, "Blog post not found")
	}
	if !domain.ResolveVisibility(post.UserID, callerID).Allows(post.Status) {
		return nil, apperror.NotFound("Blog post not found")
	}
	return post, nil
}

func (u *blogPostUsecase) Create(ctx context.Context, callerID string, in *domain.BlogPostInput) (*domain.BlogPost, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}

	post := in.ToBlogPost(callerID, u.now().UTC())
	if post.Slug == "" {
		post.Slug = slugify(post.Title)
	}
	if err := u.validate.Struct(post); err != nil {
		return nil, invalid(err)
	}

	if err := u.posts.Create(ctx, post); err != nil {
		return nil, slugConflict(err)
	}
	return post, nil
}

func (u *blogPostUsecase) Update(ctx context.Context, id, callerID string, patch *domain.BlogPostPatch) (*domain.BlogPost, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}

	post, err := u.posts.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Blog post not found")
	}
	if err := requireOwner(post.UserID, callerID, "You can only update your own blog posts"); err != nil {
		return nil, err
	}

	tags := patch.Apply(post, u.now().UTC())
	if post.Slug == "" {
		post.Slug = slugify(post.Title)
	}
	if err := u.validate.Struct(post); err != nil {
		return nil, invalid(err)
	}

	if err := u.posts.Update(ctx, post, tags); err != nil {
		return nil, slugConflict(err)
	}
	return post, nil
}

func (u *blogPostUsecase) Delete(ctx context.Context, id, callerID string) error {
	if err := requireCaller(callerID); err != nil {
		return err
	}

	post, err := u.posts.GetByID(ctx, id)
	if err != nil {
		return translate(err, "Blog post not found")
	}
	if err := requireOwner(post.UserID, callerID, "You can only delete your own blog posts"); err != nil {
		return err
	}

	return translate(u.posts.Delete(ctx, id), "Blog post not found")
}

// slugify derives a URL slug from a title, capped at the column width.
func slugify(title string) string {
	// slug.Make keeps underscores, which the slug format does not allow
	parts := strings.FieldsFunc(slug.Make(title), func(r rune) bool { return r == '-' || r == '_' })
	s := strings.Join(parts, "-")
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	return s
}

func slugConflict(err error) error {
	if errors.Is(err, domain.ErrConflict) {
		return apperror.Conflict("A blog post with this slug already exists")
	}
	return translate(err, "Blog post not found")
}
