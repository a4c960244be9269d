package repository

import (
	"context"

	"folio/internal/cache"
	"folio/internal/models"

	"gorm.io/gorm"
)

// OfferingRepository persists the services listing.
type OfferingRepository interface {
	List(ctx context.Context) ([]models.Offering, error)
	Create(ctx context.Context, o *models.Offering) error
	Delete(ctx context.Context, id uint) error
}

type offeringRepository struct {
	db *gorm.DB
}

func NewOfferingRepository(db *gorm.DB) OfferingRepository {
	return &offeringRepository{db: db}
}

// List returns offerings by sort order ascending.
func (r *offeringRepository) List(ctx context.Context) ([]models.Offering, error) {
	out := []models.Offering{}
	err := cache.Aside(ctx, cache.OfferingsKey, &out, cache.OfferingsTTL, func() error {
		return r.db.WithContext(ctx).Order("sort_order ASC").Order("id ASC").Find(&out).Error
	})
	if err != nil {
		return nil, translate(err, "Service", nil)
	}
	return out, nil
}

func (r *offeringRepository) Create(ctx context.Context, o *models.Offering) error {
	if err := r.db.WithContext(ctx).Create(o).Error; err != nil {
		return translate(err, "Service", o.Title)
	}
	cache.Invalidate(ctx, cache.OfferingsKey)
	return nil
}

func (r *offeringRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Offering{}, id)
	if res.Error != nil {
		return translate(res.Error, "Service", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Service", id)
	}
	cache.Invalidate(ctx, cache.OfferingsKey)
	return nil
}
