package models

// Offering is one entry of the services listing ("what I do").
type Offering struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:100;not null" json:"title" yaml:"title"`
	Description string `gorm:"type:text;not null" json:"description" yaml:"description"`
	// Icon is a short emoji or icon code.
	Icon      string `gorm:"size:10" json:"icon" yaml:"icon"`
	SortOrder int    `gorm:"column:sort_order;not null;default:0" json:"order" yaml:"order"`
}

// TableName keeps the public name of the listing.
func (Offering) TableName() string {
	return "services"
}
