package repository

import (
	"context"

	"folio/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository persists the one-to-one user profile.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	GetOrCreate(ctx context.Context, userID uint) (*models.Profile, error)
	Save(ctx context.Context, profile *models.Profile) error
	ListWithAvatar(ctx context.Context) ([]models.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var p models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, translate(err, "Profile", userID)
	}
	return &p, nil
}

// GetOrCreate returns the user's profile, creating an empty one for accounts
// that predate profiles.
func (r *profileRepository) GetOrCreate(ctx context.Context, userID uint) (*models.Profile, error) {
	p := models.Profile{UserID: userID}
	if err := findOrCreate(r.db.WithContext(ctx), &p, "user_id = ?", userID); err != nil {
		return nil, translate(err, "Profile", userID)
	}
	return &p, nil
}

func (r *profileRepository) Save(ctx context.Context, profile *models.Profile) error {
	return translate(r.db.WithContext(ctx).Save(profile).Error, "Profile", profile.UserID)
}

// ListWithAvatar returns every profile that has an avatar set.
func (r *profileRepository) ListWithAvatar(ctx context.Context) ([]models.Profile, error) {
	var out []models.Profile
	if err := r.db.WithContext(ctx).Where("avatar <> ''").Order("id ASC").Find(&out).Error; err != nil {
		return nil, translate(err, "Profile", nil)
	}
	return out, nil
}
