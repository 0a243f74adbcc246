package domain

import (
	"context"
	"strings"
	"time"
)

type BlogTag struct {
	ID         string `json:"id"`
	BlogPostID string `json:"blogPostId"`
	TagName    string `json:"tagName"`
}

type BlogPost struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Author      string     `json:"author,omitempty"`
	Title       string     `json:"title" validate:"required,max=200"`
	Slug        string     `json:"slug" validate:"required,max=220,slug"`
	Content     string     `json:"content" validate:"required"`
	ImageURL    *string    `json:"imageUrl" validate:"omitempty,url"`
	Status      Status     `json:"status" validate:"required,oneof=draft published"`
	PublishedAt *time.Time `json:"publishedAt"`
	Tags        []BlogTag  `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ApplyStatus moves the post to next and keeps PublishedAt consistent:
// it is stamped on the first publish and cleared on every return to draft.
func (p *BlogPost) ApplyStatus(next Status, now time.Time) {
	p.Status = next
	switch next {
	case StatusPublished:
		if p.PublishedAt == nil {
			t := now
			p.PublishedAt = &t
		}
	case StatusDraft:
		p.PublishedAt = nil
	}
}

func (p *BlogPost) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.TagName)
	}
	return names
}

func (p *BlogPost) SetTags(names []string) {
	p.Tags = make([]BlogTag, 0, len(names))
	for _, name := range names {
		p.Tags = append(p.Tags, BlogTag{BlogPostID: p.ID, TagName: name})
	}
}

type BlogPostInput struct {
	Title    string     `json:"title"`
	Slug     string     `json:"slug"`
	Content  string     `json:"content"`
	ImageURL *string    `json:"imageUrl"`
	Status   Status     `json:"status"`
	Tags     ChildNames `json:"tags"`
}

// ToBlogPost builds a new post owned by userID. The slug is left empty when
// not supplied so the caller can derive one from the title.
func (in *BlogPostInput) ToBlogPost(userID string, now time.Time) *BlogPost {
	p := &BlogPost{
		UserID:   userID,
		Title:    strings.TrimSpace(in.Title),
		Slug:     strings.TrimSpace(in.Slug),
		Content:  in.Content,
		ImageURL: nullIfBlank(in.ImageURL),
	}
	status := in.Status
	if status == "" {
		status = StatusDraft
	}
	p.ApplyStatus(status, now)
	p.SetTags(NormalizeNames(in.Tags))
	return p
}

type BlogPostPatch struct {
	Title    *string     `json:"title"`
	Slug     *string     `json:"slug"`
	Content  *string     `json:"content"`
	ImageURL *string     `json:"imageUrl"`
	Status   *Status     `json:"status"`
	Tags     *ChildNames `json:"tags"`
}

// Apply copies the present fields onto p and returns the replacement tag
// list, or nil when tags must be left alone.
func (in *BlogPostPatch) Apply(p *BlogPost, now time.Time) *[]string {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		p.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.ImageURL != nil {
		p.ImageURL = nullIfBlank(in.ImageURL)
	}
	if in.Status != nil {
		p.ApplyStatus(*in.Status, now)
	}
	if in.Tags == nil {
		return nil
	}
	names := NormalizeNames(*in.Tags)
	p.SetTags(names)
	return &names
}

// BlogPostQuery selects posts for listing. Empty UserIDs means every author.
type BlogPostQuery struct {
	UserIDs       []string
	PublishedOnly bool
	Limit         int
	Offset        int
}

type BlogPostRepository interface {
	Create(ctx context.Context, post *BlogPost) error
	GetByID(ctx context.Context, id string) (*BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*BlogPost, error)
	// List orders by createdAt DESC.
	List(ctx context.Context, q BlogPostQuery) ([]BlogPost, error)
	Update(ctx context.Context, post *BlogPost, tags *[]string) error
	Delete(ctx context.Context, id string) error
}

type BlogPostUsecase interface {
	List(ctx context.Context, ownerID, callerID string) ([]BlogPost, error)
	Get(ctx context.Context, id, callerID string) (*BlogPost, error)
	GetBySlug(ctx context.Context, slug, callerID string) (*BlogPost, error)
	Create(ctx context.Context, callerID string, in *BlogPostInput) (*BlogPost, error)
	Update(ctx context.Context, id, callerID string, patch *BlogPostPatch) (*BlogPost, error)
	Delete(ctx context.Context, id, callerID string) error
}
