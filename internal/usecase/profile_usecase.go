package usecase

import (
	"context"
	"errors"
	"time"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"
	"portfolio-cms-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
)

type profileUsecase struct {
	users    domain.UserRepository
	profiles domain.ProfileRepository
	links    domain.SocialLinkRepository
	projects domain.ProjectRepository
	posts    domain.BlogPostRepository
	files    domain.FileStorage
	validate *validator.Validate
}

func NewProfileUsecase(
	users domain.UserRepository,
	profiles domain.ProfileRepository,
	links domain.SocialLinkRepository,
	projects domain.ProjectRepository,
	posts domain.BlogPostRepository,
	files domain.FileStorage,
	validate *validator.Validate,
) domain.ProfileUsecase {
	return &profileUsecase{
		users:    users,
		profiles: profiles,
		links:    links,
		projects: projects,
		posts:    posts,
		files:    files,
		validate: validate,
	}
}

func (u *profileUsecase) GetProfile(ctx context.Context, userID, callerID string) (*domain.ProfileAggregate, error) {
	profile, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, translate(err, "Profile not found")
	}

	vis := domain.ResolveVisibility(profile.UserID, callerID)
	if !vis.Allows(profile.Status) {
		return nil, apperror.NotFound("Profile not found")
	}

	aggregates, err := u.assemble(ctx, []domain.Profile{*profile}, vis.PublishedOnly())
	if err != nil {
		return nil, err
	}
	return &aggregates[0], nil
}

// Discover never elevates: the caller is ignored and only published rows appear.
func (u *profileUsecase) Discover(ctx context.Context, filter domain.DiscoverFilter) ([]domain.ProfileAggregate, error) {
	profiles, err := u.profiles.Discover(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return u.assemble(ctx, profiles, true)
}

// assemble batch-loads the user card, social links, projects and posts for a
// page of profiles.
func (u *profileUsecase) assemble(ctx context.Context, profiles []domain.Profile, publishedOnly bool) ([]domain.ProfileAggregate, error) {
	out := make([]domain.ProfileAggregate, 0, len(profiles))
	if len(profiles) == 0 {
		return out, nil
	}

	userIDs := make([]string, 0, len(profiles))
	profileIDs := make([]string, 0, len(profiles))
	for _, p := range profiles {
		userIDs = append(userIDs, p.UserID)
		profileIDs = append(profileIDs, p.ID)
	}

	users, err := u.users.ListPublicByIDs(ctx, userIDs)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	links, err := u.links.ListByProfiles(ctx, profileIDs)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	projects, err := u.projects.ListByUsers(ctx, userIDs, publishedOnly)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	posts, err := u.posts.List(ctx, domain.BlogPostQuery{UserIDs: userIDs, PublishedOnly: publishedOnly})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	projectsByUser := make(map[string][]domain.Project)
	for _, p := range projects {
		projectsByUser[p.UserID] = append(projectsByUser[p.UserID], p)
	}
	postsByUser := make(map[string][]domain.BlogPost)
	for _, p := range posts {
		postsByUser[p.UserID] = append(postsByUser[p.UserID], p)
	}

	for _, p := range profiles {
		agg := domain.ProfileAggregate{
			Profile:     p,
			User:        users[p.UserID],
			SocialLinks: links[p.ID],
			Projects:    projectsByUser[p.UserID],
			BlogPosts:   postsByUser[p.UserID],
		}
		if agg.SocialLinks == nil {
			agg.SocialLinks = []domain.SocialLink{}
		}
		if agg.Projects == nil {
			agg.Projects = []domain.Project{}
		}
		if agg.BlogPosts == nil {
			agg.BlogPosts = []domain.BlogPost{}
		}
		out = append(out, agg)
	}
	return out, nil
}

// UpdateProfile applies a partial update and swaps attachments. New files are
// stored before the row is written and removed again if the write fails;
// replaced or cleared files are deleted only after the write succeeds.
func (u *profileUsecase) UpdateProfile(ctx context.Context, userID, callerID string, update *domain.ProfileUpdate, files domain.ProfileFiles) (*domain.Profile, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}

	profile, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, translate(err, "Profile not found")
	}
	if err := requireOwner(profile.UserID, callerID, "You can only update your own profile"); err != nil {
		return nil, err
	}

	if update == nil {
		update = &domain.ProfileUpdate{}
	}
	update.Apply(profile)
	if err := u.validate.Struct(profile); err != nil {
		return nil, invalid(err)
	}

	oldAvatar, oldResume := profile.AvatarURL, profile.ResumeURL
	var stored []string

	slots := []struct {
		slot   domain.FileSlot
		upload *domain.Upload
		clear  bool
		target **string
	}{
		{domain.SlotAvatar, files.Avatar, update.ClearAvatar, &profile.AvatarURL},
		{domain.SlotResume, files.Resume, update.ClearResume, &profile.ResumeURL},
	}
	for _, s := range slots {
		switch {
		case s.upload != nil:
			locator, err := u.files.Store(ctx, s.slot, s.upload)
			if err != nil {
				u.discard(ctx, stored)
				return nil, err
			}
			stored = append(stored, locator)
			*s.target = &locator
		case s.clear:
			*s.target = nil
		}
	}

	if err := u.profiles.Update(ctx, profile); err != nil {
		u.discard(ctx, stored)
		return nil, translate(err, "Profile not found")
	}

	u.release(ctx, oldAvatar, profile.AvatarURL)
	u.release(ctx, oldResume, profile.ResumeURL)
	return profile, nil
}

// discard removes files stored during a request that did not commit.
func (u *profileUsecase) discard(ctx context.Context, locators []string) {
	for _, locator := range locators {
		if err := u.files.Delete(ctx, locator); err != nil {
			logger.Log.Warn("Failed to remove orphaned upload", "locator", locator, "error", err)
		}
	}
}

// release deletes the previous file of a slot once it is no longer referenced.
func (u *profileUsecase) release(ctx context.Context, previous, current *string) {
	if previous == nil || (current != nil && *current == *previous) {
		return
	}
	if !u.files.Manages(*previous) {
		return
	}
	if err := u.files.Delete(ctx, *previous); err != nil {
		logger.Log.Warn("Failed to delete replaced file", "locator", *previous, "error", err)
	}
}

func (u *profileUsecase) DeleteAccount(ctx context.Context, userID, callerID string) error {
	if err := requireOwner(userID, callerID, "You can only delete your own account"); err != nil {
		return err
	}

	profile, err := u.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return translate(err, "Profile not found")
	}

	for _, locator := range []*string{profile.AvatarURL, profile.ResumeURL} {
		if locator == nil || !u.files.Manages(*locator) {
			continue
		}
		if err := u.files.Delete(ctx, *locator); err != nil {
			return apperror.Upstream("Failed to delete account files", err)
		}
	}

	start := time.Now()
	if err := u.users.DeleteAccount(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.Internal(err)
	}
	logger.Log.Info("Account deleted", "user_id", userID, "duration_ms", time.Since(start).Milliseconds())
	return nil
}
