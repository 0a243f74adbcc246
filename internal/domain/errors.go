package domain

import "errors"

// Repository-level sentinels. Usecases translate them into apperror values.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)
