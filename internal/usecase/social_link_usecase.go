package usecase

import (
	"context"
	"strings"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type socialLinkUsecase struct {
	profiles domain.ProfileRepository
	links    domain.SocialLinkRepository
	validate *validator.Validate
}

func NewSocialLinkUsecase(profiles domain.ProfileRepository, links domain.SocialLinkRepository, validate *validator.Validate) domain.SocialLinkUsecase {
	return &socialLinkUsecase{profiles: profiles, links: links, validate: validate}
}

func (u *socialLinkUsecase) Add(ctx context.Context, profileID, callerID string, in *domain.SocialLinkInput) (*domain.SocialLink, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}

	profile, err := u.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, translate(err, "Profile not found")
	}
	if err := requireOwner(profile.UserID, callerID, "You can only add links to your own profile"); err != nil {
		return nil, err
	}

	link := &domain.SocialLink{
		ProfileID: profile.ID,
		Platform:  strings.TrimSpace(in.Platform),
		URL:       strings.TrimSpace(in.URL),
	}
	if err := u.validate.Struct(link); err != nil {
		return nil, invalid(err)
	}

	if err := u.links.Create(ctx, link); err != nil {
		return nil, translate(err, "Profile not found")
	}
	return link, nil
}

func (u *socialLinkUsecase) Delete(ctx context.Context, profileID, linkID, callerID string) error {
	if err := requireCaller(callerID); err != nil {
		return err
	}

	profile, err := u.profiles.GetByID(ctx, profileID)
	if err != nil {
		return translate(err, "Profile not found")
	}
	if err := requireOwner(profile.UserID, callerID, "You can only remove links from your own profile"); err != nil {
		return err
	}

	link, err := u.links.GetByID(ctx, linkID)
	if err != nil {
		return translate(err, "Social link not found")
	}
	if link.ProfileID != profile.ID {
		return apperror.NotFound("Social link not found")
	}

	return translate(u.links.Delete(ctx, linkID), "Social link not found")
}
