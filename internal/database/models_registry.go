package database

import "folio/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Parents come before children so that foreign keys resolve.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Category{},
		&models.Tag{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Offering{},
		&models.Portfolio{},
		&models.ContactMessage{},
	}
}
