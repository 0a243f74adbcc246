package domain

import (
	"context"
	"strings"
	"time"
)

type ProjectTechnology struct {
	ID             string `json:"id"`
	ProjectID      string `json:"projectId"`
	TechnologyName string `json:"technologyName"`
}

type Project struct {
	ID              string              `json:"id"`
	UserID          string              `json:"userId"`
	Title           string              `json:"title" validate:"required,max=150"`
	Description     string              `json:"description" validate:"required"`
	LongDescription *string             `json:"longDescription"`
	ImageURL        *string             `json:"imageUrl" validate:"omitempty,url"`
	LiveURL         *string             `json:"liveUrl" validate:"omitempty,url"`
	RepoURL         *string             `json:"repoUrl" validate:"omitempty,url"`
	Status          Status              `json:"status" validate:"required,oneof=draft published"`
	DisplayOrder    int                 `json:"displayOrder"`
	Technologies    []ProjectTechnology `json:"technologies"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// TechnologyNames returns the names of the attached technologies in order.
func (p *Project) TechnologyNames() []string {
	names := make([]string, 0, len(p.Technologies))
	for _, t := range p.Technologies {
		names = append(names, t.TechnologyName)
	}
	return names
}

// SetTechnologies replaces the attached technologies with names.
func (p *Project) SetTechnologies(names []string) {
	p.Technologies = make([]ProjectTechnology, 0, len(names))
	for _, name := range names {
		p.Technologies = append(p.Technologies, ProjectTechnology{ProjectID: p.ID, TechnologyName: name})
	}
}

// ProjectInput is the create payload.
type ProjectInput struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	LongDescription *string    `json:"longDescription"`
	ImageURL        *string    `json:"imageUrl"`
	LiveURL         *string    `json:"liveUrl"`
	RepoURL         *string    `json:"repoUrl"`
	Status          Status     `json:"status"`
	DisplayOrder    int        `json:"displayOrder"`
	Technologies    ChildNames `json:"technologies"`
}

// ToProject builds a new project owned by userID. Status defaults to draft.
func (in *ProjectInput) ToProject(userID string) *Project {
	p := &Project{
		UserID:          userID,
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		LongDescription: nullIfBlank(in.LongDescription),
		ImageURL:        nullIfBlank(in.ImageURL),
		LiveURL:         nullIfBlank(in.LiveURL),
		RepoURL:         nullIfBlank(in.RepoURL),
		Status:          in.Status,
		DisplayOrder:    in.DisplayOrder,
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	p.SetTechnologies(NormalizeNames(in.Technologies))
	return p
}

// ProjectPatch is a partial update. A nil Technologies leaves the children
// untouched; a non-nil empty list removes them all.
type ProjectPatch struct {
	Title           *string     `json:"title"`
	Description     *string     `json:"description"`
	LongDescription *string     `json:"longDescription"`
	ImageURL        *string     `json:"imageUrl"`
	LiveURL         *string     `json:"liveUrl"`
	RepoURL         *string     `json:"repoUrl"`
	Status          *Status     `json:"status"`
	DisplayOrder    *int        `json:"displayOrder"`
	Technologies    *ChildNames `json:"technologies"`
}

// Apply copies the present fields onto p and returns the replacement child
// list, or nil when children must be left alone.
func (in *ProjectPatch) Apply(p *Project) *[]string {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.LongDescription != nil {
		p.LongDescription = nullIfBlank(in.LongDescription)
	}
	if in.ImageURL != nil {
		p.ImageURL = nullIfBlank(in.ImageURL)
	}
	if in.LiveURL != nil {
		p.LiveURL = nullIfBlank(in.LiveURL)
	}
	if in.RepoURL != nil {
		p.RepoURL = nullIfBlank(in.RepoURL)
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.DisplayOrder != nil {
		p.DisplayOrder = *in.DisplayOrder
	}
	if in.Technologies == nil {
		return nil
	}
	names := NormalizeNames(*in.Technologies)
	p.SetTechnologies(names)
	return &names
}

type ProjectRepository interface {
	// Create inserts the project and its technologies in one transaction.
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id string) (*Project, error)
	// ListByUsers returns projects ordered by owner, displayOrder ASC, createdAt DESC.
	ListByUsers(ctx context.Context, userIDs []string, publishedOnly bool) ([]Project, error)
	// Update writes the parent row and, when technologies is non-nil, replaces
	// all children inside the same transaction.
	Update(ctx context.Context, project *Project, technologies *[]string) error
	Delete(ctx context.Context, id string) error
}

type ProjectUsecase interface {
	ListByUser(ctx context.Context, ownerID, callerID string) ([]Project, error)
	Get(ctx context.Context, id, callerID string) (*Project, error)
	Create(ctx context.Context, callerID string, in *ProjectInput) (*Project, error)
	Update(ctx context.Context, id, callerID string, patch *ProjectPatch) (*Project, error)
	Delete(ctx context.Context, id, callerID string) error
}
