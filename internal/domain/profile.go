package domain

import (
	"context"
	"strings"
	"time"
)

const (
	DefaultProfileTitle   = "Aspiring Developer"
	DefaultProfileBio     = "This is a default bio. Please update your profile."
	DefaultPrimaryColor   = "#2563eb"
	DefaultSecondaryColor = "#9333ea"
)

type Profile struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Name              string    `json:"name" validate:"required,max=100,no_emoji"`
	Title             *string   `json:"title" validate:"omitempty,max=150"`
	Bio               *string   `json:"bio" validate:"omitempty,max=5000"`
	AvatarURL         *string   `json:"avatarUrl"`
	ResumeURL         *string   `json:"resumeUrl"`
	Location          *string   `json:"location" validate:"omitempty,max=150"`
	Interests         []string  `json:"interests" validate:"max=30,dive,max=50"`
	WebsiteURL        *string   `json:"websiteUrl" validate:"omitempty,url"`
	PrimaryColor      string    `json:"primaryColor" validate:"required,hexcolor"`
	SecondaryColor    string    `json:"secondaryColor" validate:"required,hexcolor"`
	Status            Status    `json:"status" validate:"required,oneof=draft published"`
	Industry          *string   `json:"industry" validate:"omitempty,max=100"`
	YearsOfExperience int       `json:"yearsOfExperience" validate:"gte=0,lte=80"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// NewDefaultProfile builds the placeholder profile created at registration.
func NewDefaultProfile(userID, username string) *Profile {
	title := DefaultProfileTitle
	bio := DefaultProfileBio
	return &Profile{
		UserID:            userID,
		Name:              username,
		Title:             &title,
		Bio:               &bio,
		Interests:         []string{},
		PrimaryColor:      DefaultPrimaryColor,
		SecondaryColor:    DefaultSecondaryColor,
		Status:            StatusDraft,
		YearsOfExperience: 0,
	}
}

// ProfileUpdate is a partial update. Nil fields are left untouched; an empty
// string on an optional field clears it.
type ProfileUpdate struct {
	Name              *string
	Title             *string
	Bio               *string
	Location          *string
	Interests         *[]string
	WebsiteURL        *string
	PrimaryColor      *string
	SecondaryColor    *string
	Status            *Status
	Industry          *string
	YearsOfExperience *int
	// ClearAvatar and ClearResume empty the slot when no new file is supplied.
	ClearAvatar bool
	ClearResume bool
}

// Apply copies the present fields onto p.
func (u *ProfileUpdate) Apply(p *Profile) {
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Title != nil {
		p.Title = nullIfBlank(u.Title)
	}
	if u.Bio != nil {
		p.Bio = nullIfBlank(u.Bio)
	}
	if u.Location != nil {
		p.Location = nullIfBlank(u.Location)
	}
	if u.Interests != nil {
		p.Interests = NormalizeNames(*u.Interests)
	}
	if u.WebsiteURL != nil {
		p.WebsiteURL = nullIfBlank(u.WebsiteURL)
	}
	if u.PrimaryColor != nil {
		p.PrimaryColor = strings.TrimSpace(*u.PrimaryColor)
	}
	if u.SecondaryColor != nil {
		p.SecondaryColor = strings.TrimSpace(*u.SecondaryColor)
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.Industry != nil {
		p.Industry = nullIfBlank(u.Industry)
	}
	if u.YearsOfExperience != nil {
		p.YearsOfExperience = *u.YearsOfExperience
	}
}

// ProfileFiles carries newly uploaded attachments for a profile update.
type ProfileFiles struct {
	Avatar *Upload
	Resume *Upload
}

// DiscoverFilter narrows the public profile directory. Zero values mean no filter.
type DiscoverFilter struct {
	Search    string
	Location  string
	Industry  string
	MinYears  *int
	Interests []string
	Limit     int
	Offset    int
}

// ProfileAggregate is a profile with everything shown on its portfolio page.
type ProfileAggregate struct {
	Profile
	User        PublicUser   `json:"user"`
	SocialLinks []SocialLink `json:"socialLinks"`
	Projects    []Project    `json:"projects"`
	BlogPosts   []BlogPost   `json:"blogPosts"`
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, profile *Profile) error
	Discover(ctx context.Context, filter DiscoverFilter) ([]Profile, error)
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID, callerID string) (*ProfileAggregate, error)
	Discover(ctx context.Context, filter DiscoverFilter) ([]ProfileAggregate, error)
	UpdateProfile(ctx context.Context, userID, callerID string, update *ProfileUpdate, files ProfileFiles) (*Profile, error)
	DeleteAccount(ctx context.Context, userID, callerID string) error
}

// PortfolioExportUsecase renders an owner's portfolio as a spreadsheet and
// returns it with a suggested file name.
type PortfolioExportUsecase interface {
	ExportPortfolio(ctx context.Context, userID, callerID string) ([]byte, string, error)
}
