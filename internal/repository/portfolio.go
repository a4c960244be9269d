package repository

import (
	"context"

	"folio/internal/cache"
	"folio/internal/models"

	"gorm.io/gorm"
)

// PortfolioFilter narrows a portfolio listing. Zero values leave a dimension
// unconstrained.
type PortfolioFilter struct {
	Type          models.PortfolioType
	Status        models.PortfolioStatus
	FeaturedOnly  bool
	IncludeHidden bool
}

// PortfolioRepository persists portfolio entries. Every listing uses
// models.PortfolioOrder.
type PortfolioRepository interface {
	List(ctx context.Context, f PortfolioFilter) ([]models.Portfolio, error)
	GetBySlug(ctx context.Context, slug string, includeHidden bool) (*models.Portfolio, error)
	GetByID(ctx context.Context, id uint) (*models.Portfolio, error)
	Related(ctx context.Context, p *models.Portfolio, limit int) ([]models.Portfolio, error)
	SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error)
	Create(ctx context.Context, p *models.Portfolio) error
	Update(ctx context.Context, p *models.Portfolio) error
	Delete(ctx context.Context, id uint) error
}

type portfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

func (r *portfolioRepository) List(ctx context.Context, f PortfolioFilter) ([]models.Portfolio, error) {
	q := r.db.WithContext(ctx).Model(&models.Portfolio{})
	if !f.IncludeHidden {
		q = q.Where("is_public = ?", true)
	}
	if f.Type != "" {
		q = q.Where("portfolio_type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}

	out := []models.Portfolio{}
	if err := q.Order(models.PortfolioOrder).Find(&out).Error; err != nil {
		return nil, translate(err, "Portfolio", nil)
	}
	return out, nil
}

func (r *portfolioRepository) GetBySlug(ctx context.Context, slug string, includeHidden bool) (*models.Portfolio, error) {
	q := r.db.WithContext(ctx).Where("slug = ?", slug)
	if !includeHidden {
		q = q.Where("is_public = ?", true)
	}
	var p models.Portfolio
	if err := q.First(&p).Error; err != nil {
		return nil, translate(err, "Portfolio", slug)
	}
	return &p, nil
}

func (r *portfolioRepository) GetByID(ctx context.Context, id uint) (*models.Portfolio, error) {
	var p models.Portfolio
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err, "Portfolio", id)
	}
	return &p, nil
}

// Related returns other public entries of the same type.
func (r *portfolioRepository) Related(ctx context.Context, p *models.Portfolio, limit int) ([]models.Portfolio, error) {
	out := []models.Portfolio{}
	err := r.db.WithContext(ctx).
		Where("is_public = ? AND portfolio_type = ? AND id <> ?", true, p.Type, p.ID).
		Order(models.PortfolioOrder).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, translate(err, "Portfolio", p.ID)
	}
	return out, nil
}

// SlugTaken reports whether another entry (any id but excludeID) uses slug.
func (r *portfolioRepository) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Portfolio{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "Portfolio", slug)
	}
	return count > 0, nil
}

func (r *portfolioRepository) Create(ctx context.Context, p *models.Portfolio) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return translate(err, "Portfolio", p.Slug)
	}
	cache.InvalidatePortfolio(ctx)
	return nil
}

func (r *portfolioRepository) Update(ctx context.Context, p *models.Portfolio) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return translate(err, "Portfolio", p.ID)
	}
	cache.InvalidatePortfolio(ctx)
	return nil
}

func (r *portfolioRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Portfolio{}, id)
	if res.Error != nil {
		return translate(res.Error, "Portfolio", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Portfolio", id)
	}
	cache.InvalidatePortfolio(ctx)
	return nil
}
