package service

import (
	"context"
	"strings"

	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/validation"
)

// OfferingService manages the services listing.
type OfferingService struct {
	repo repository.OfferingRepository
}

func NewOfferingService(repo repository.OfferingRepository) *OfferingService {
	return &OfferingService{repo: repo}
}

// List returns offerings by display order.
func (s *OfferingService) List(ctx context.Context) ([]models.Offering, error) {
	return s.repo.List(ctx)
}

func (s *OfferingService) Create(ctx context.Context, o *models.Offering) error {
	o.Title = strings.TrimSpace(o.Title)
	o.Description = strings.TrimSpace(o.Description)
	o.Icon = strings.TrimSpace(o.Icon)

	fields := validation.Fields{}
	fields.Required("title", o.Title)
	fields.MaxLen("title", o.Title, 100)
	fields.Required("description", o.Description)
	fields.MaxLen("icon", o.Icon, 10)
	if !fields.OK() {
		return models.NewFieldErrors(fields)
	}
	return s.repo.Create(ctx, o)
}

func (s *OfferingService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
