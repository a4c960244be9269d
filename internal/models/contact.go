package models

import "time"

// ContactStatus tracks how a contact message has been handled.
type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

var ContactStatuses = []ContactStatus{ContactNew, ContactRead, ContactReplied, ContactArchived}

var contactStatusLabels = map[ContactStatus]string{
	ContactNew:      "New",
	ContactRead:     "Read",
	ContactReplied:  "Replied",
	ContactArchived: "Archived",
}

var contactStatusBadges = map[ContactStatus]string{
	ContactNew:      "bg-blue-100 text-blue-800",
	ContactRead:     "bg-yellow-100 text-yellow-800",
	ContactReplied:  "bg-green-100 text-green-800",
	ContactArchived: "bg-gray-100 text-gray-800",
}

func (s ContactStatus) Valid() bool {
	_, ok := contactStatusLabels[s]
	return ok
}

func (s ContactStatus) Label() string {
	if l, ok := contactStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s ContactStatus) Badge() string {
	if b, ok := contactStatusBadges[s]; ok {
		return b
	}
	return defaultBadge
}

// ContactMessage is a visitor's message from the contact form.
type ContactMessage struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Name      string        `gorm:"size:200;not null" json:"name"`
	Email     string        `gorm:"size:254;not null" json:"email"`
	Phone     string        `gorm:"size:20" json:"phone,omitempty"`
	Subject   string        `gorm:"size:300;not null" json:"subject"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Status    ContactStatus `gorm:"size:20;not null;default:new;index" json:"status"`
	CreatedAt time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ContactInfo is the public contact block shown next to the form.
type ContactInfo struct {
	Address        string            `json:"address,omitempty"`
	PhonePrimary   string            `json:"phone_primary,omitempty"`
	PhoneSecondary string            `json:"phone_secondary,omitempty"`
	Email          string            `json:"email,omitempty"`
	HoursWeekdays  string            `json:"hours_weekdays,omitempty"`
	HoursWeekends  string            `json:"hours_weekends,omitempty"`
	Social         map[string]string `json:"social,omitempty"`
}
