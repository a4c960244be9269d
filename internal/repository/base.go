package repository

import (
	"errors"

	"folio/internal/database"
	"folio/internal/models"

	"gorm.io/gorm"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// clampPage keeps list queries bounded.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// translate maps driver errors onto AppErrors so callers never see gorm types.
func translate(err error, resource string, id any) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	if database.IsUniqueViolation(err) {
		return models.NewConflictError(resource + " already exists")
	}
	return models.NewInternalError(err)
}
