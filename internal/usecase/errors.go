package usecase

import (
	"errors"

	"portfolio-cms-backend/internal/domain"
	"portfolio-cms-backend/pkg/apperror"
	"portfolio-cms-backend/pkg/validation"
)

// translate maps repository sentinels onto client-facing errors. AppErrors
// pass through untouched and anything unknown becomes an internal error.
func translate(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound(notFound)
	case errors.Is(err, domain.ErrConflict):
		return apperror.Conflict("Resource already exists")
	default:
		return apperror.Internal(err)
	}
}

func invalid(err error) error {
	fields := validation.FieldErrors(err)
	if len(fields) == 0 {
		return apperror.BadRequest(err.Error())
	}
	return apperror.Validation("Validation failed", fields)
}

func requireCaller(callerID string) error {
	if callerID == "" {
		return apperror.Unauthorized("Authentication required")
	}
	return nil
}

// requireOwner enforces that only the owner mutates a resource.
func requireOwner(ownerID, callerID, message string) error {
	if err := requireCaller(callerID); err != nil {
		return err
	}
	if !domain.ResolveVisibility(ownerID, callerID).IsOwner {
		return apperror.Forbidden(message)
	}
	return nil
}
