package models

import (
	"time"
)

// User is an account holder. Users are only created by registration, which
// also creates their Profile.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:30;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// Profile extends a User one-to-one with public details.
type Profile struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Bio         string `gorm:"size:500" json:"bio"`
	Location    string `gorm:"size:100" json:"location"`
	Website     string `json:"website"`
	Phone       string `gorm:"size:20" json:"phone"`
	TwitterURL  string `json:"twitter_url"`
	GithubURL   string `json:"github_url"`
	LinkedinURL string `json:"linkedin_url"`
	// Avatar is the blob-store key of the normalized avatar.
	Avatar    string    `json:"-"`
	AvatarURL string    `gorm:"-" json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
