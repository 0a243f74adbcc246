package domain

import (
	"context"
	"time"
)

type SocialLink struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profileId"`
	Platform  string    `json:"platform" validate:"required,max=50"`
	URL       string    `json:"url" validate:"required,url"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SocialLinkInput struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type SocialLinkRepository interface {
	Create(ctx context.Context, link *SocialLink) error
	GetByID(ctx context.Context, id string) (*SocialLink, error)
	// ListByProfiles groups links by profile id.
	ListByProfiles(ctx context.Context, profileIDs []string) (map[string][]SocialLink, error)
	Delete(ctx context.Context, id string) error
}

type SocialLinkUsecase interface {
	Add(ctx context.Context, profileID, callerID string, in *SocialLinkInput) (*SocialLink, error)
	Delete(ctx context.Context, profileID, linkID, callerID string) error
}
