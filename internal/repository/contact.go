package repository

import (
	"context"

	"folio/internal/models"

	"gorm.io/gorm"
)

// ContactRepository persists contact form submissions.
type ContactRepository interface {
	Create(ctx context.Context, m *models.ContactMessage) error
	GetByID(ctx context.Context, id uint) (*models.ContactMessage, error)
	List(ctx context.Context, status models.ContactStatus, limit, offset int) ([]models.ContactMessage, error)
	SetStatus(ctx context.Context, id uint, status models.ContactStatus) error
	Delete(ctx context.Context, id uint) error
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, m *models.ContactMessage) error {
	return translate(r.db.WithContext(ctx).Create(m).Error, "ContactMessage", m.ID)
}

func (r *contactRepository) GetByID(ctx context.Context, id uint) (*models.ContactMessage, error) {
	var m models.ContactMessage
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err, "ContactMessage", id)
	}
	return &m, nil
}

// List returns messages newest first; an empty status lists all of them.
func (r *contactRepository) List(ctx context.Context, status models.ContactStatus, limit, offset int) ([]models.ContactMessage, error) {
	limit, offset = clampPage(limit, offset)
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	out := []models.ContactMessage{}
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&out).Error; err != nil {
		return nil, translate(err, "ContactMessage", nil)
	}
	return out, nil
}

func (r *contactRepository) SetStatus(ctx context.Context, id uint, status models.ContactStatus) error {
	res := r.db.WithContext(ctx).Model(&models.ContactMessage{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return translate(res.Error, "ContactMessage", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("ContactMessage", id)
	}
	return nil
}

func (r *contactRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.ContactMessage{}, id)
	if res.Error != nil {
		return translate(res.Error, "ContactMessage", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("ContactMessage", id)
	}
	return nil
}
