package usecase

import (
	"context"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type projectUsecase struct {
	projects domain.ProjectRepository
	validate *validator.Validate
}

func NewProjectUsecase(projects domain.ProjectRepository, validate *validator.Validate) domain.ProjectUsecase {
	return &projectUsecase{projects: projects, validate: validate}
}

func (u *projectUsecase) ListByUser(ctx context.Context, ownerID, callerID string) ([]domain.Project, error) {
	vis := domain.ResolveVisibility(ownerID, callerID)
	projects, err := u.projects.ListByUsers(ctx, []string{ownerID}, vis.PublishedOnly())
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return projects, nil
}

// Get hides drafts from everyone but the owner as if they did not exist.
func (u *projectUsecase) Get(ctx context.Context, id, callerID string) (*domain.Project, error) {
	project, err := u.projects.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Project not found")
	}
	if !domain.ResolveVisibility(project.UserID, callerID).Allows(project.Status) {
		return nil, apperror.NotFound("Project not found")
	}
	return project, nil
}

func (u *projectUsecase) Create(ctx context.Context, callerID string, in *domain.ProjectInput) (*domain.Project, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}

	project := in.ToProject(callerID)
	if err := u.validate.Struct(project); err != nil {
		return nil, invalid(err)
	}

	if err := u.projects.Create(ctx, project); err != nil {
		return nil, translate(err, "User not found")
	}
	return project, nil
}

func (u *projectUsecase) Update(ctx context.Context, id, callerID string, patch *domain.ProjectPatch) (*domain.Project, error) {
	if err := requireCaller(callerID); err != nil {
		return nil, err
	}

	project, err := u.projects.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Project not found")
	}
	if err := requireOwner(project.UserID, callerID, "You can only update your own projects"); err != nil {
		return nil, err
	}

	technologies := patch.Apply(project)
	if err := u.validate.Struct(project); err != nil {
		return nil, invalid(err)
	}

	if err := u.projects.Update(ctx, project, technologies); err != nil {
		return nil, translate(err, "Project not found")
	}
	return project, nil
}

func (u *projectUsecase) Delete(ctx context.Context, id, callerID string) error {
	if err := requireCaller(callerID); err != nil {
		return err
	}

	project, err := u.projects.GetByID(ctx, id)
	if err != nil {
		return translate(err, "Project not found")
	}
	if err := requireOwner(project.UserID, callerID, "You can only delete your own projects"); err != nil {
		return err
	}

	return translate(u.projects.Delete(ctx, id), "Project not found")
}
