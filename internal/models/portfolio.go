package models

import (
	"encoding/json"
	"strings"
	"time"
)

// PortfolioType classifies a portfolio entry.
type PortfolioType string

const (
	TypeWebApp          PortfolioType = "web_app"
	TypeMobileApp       PortfolioType = "mobile_app"
	TypeAPI             PortfolioType = "api"
	TypeWebsite         PortfolioType = "website"
	TypeDesign          PortfolioType = "design"
	TypeDataAnalysis    PortfolioType = "data_analysis"
	TypeMachineLearning PortfolioType = "machine_learning"
	TypeGame            PortfolioType = "game"
	TypeDesktopApp      PortfolioType = "desktop_app"
	TypeOther           PortfolioType = "other"
)

// PortfolioTypes lists every type in display order.
var PortfolioTypes = []PortfolioType{
	TypeWebApp, TypeMobileApp, TypeAPI, TypeWebsite, TypeDesign,
	TypeDataAnalysis, TypeMachineLearning, TypeGame, TypeDesktopApp, TypeOther,
}

var portfolioTypeLabels = map[PortfolioType]string{
	TypeWebApp:          "Web Application",
	TypeMobileApp:       "Mobile Application",
	TypeAPI:             "API/Backend Service",
	TypeWebsite:         "Website",
	TypeDesign:          "Design Work",
	TypeDataAnalysis:    "Data Analysis",
	TypeMachineLearning: "Machine Learning",
	TypeGame:            "Game Development",
	TypeDesktopApp:      "Desktop Application",
	TypeOther:           "Other",
}

var portfolioTypeIcons = map[PortfolioType]string{
	TypeWebApp:          "🌐",
	TypeMobileApp:       "📱",
	TypeAPI:             "⚙️",
	TypeWebsite:         "🖥️",
	TypeDesign:          "🎨",
	TypeDataAnalysis:    "📊",
	TypeMachineLearning: "🤖",
	TypeGame:            "🎮",
	TypeDesktopApp:      "💻",
	TypeOther:           "📋",
}

func (t PortfolioType) Valid() bool {
	_, ok := portfolioTypeLabels[t]
	return ok
}

func (t PortfolioType) Label() string {
	if l, ok := portfolioTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t PortfolioType) Icon() string {
	if i, ok := portfolioTypeIcons[t]; ok {
		return i
	}
	return portfolioTypeIcons[TypeOther]
}

// PortfolioStatus is the lifecycle state of a portfolio entry.
type PortfolioStatus string

const (
	StatusCompleted  PortfolioStatus = "completed"
	StatusInProgress PortfolioStatus = "in_progress"
	StatusArchived   PortfolioStatus = "archived"
	StatusConcept    PortfolioStatus = "concept"
)

// PortfolioStatuses lists every status in display order.
var PortfolioStatuses = []PortfolioStatus{StatusCompleted, StatusInProgress, StatusArchived, StatusConcept}

var portfolioStatusLabels = map[PortfolioStatus]string{
	StatusCompleted:  "Completed",
	StatusInProgress: "In Progress",
	StatusArchived:   "Archived",
	StatusConcept:    "Concept/Planning",
}

var portfolioStatusBadges = map[PortfolioStatus]string{
	StatusCompleted:  "bg-green-100 text-green-800",
	StatusInProgress: "bg-blue-100 text-blue-800",
	StatusArchived:   "bg-gray-100 text-gray-800",
	StatusConcept:    "bg-yellow-100 text-yellow-800",
}

const defaultBadge = "bg-gray-100 text-gray-800"

func (s PortfolioStatus) Valid() bool {
	_, ok := portfolioStatusLabels[s]
	return ok
}

func (s PortfolioStatus) Label() string {
	if l, ok := portfolioStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s PortfolioStatus) Badge() string {
	if b, ok := portfolioStatusBadges[s]; ok {
		return b
	}
	return defaultBadge
}

// Portfolio is a showcased project. Its slug is assigned once, on first save.
type Portfolio struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	Title            string          `gorm:"size:200;not null" json:"title"`
	Slug             string          `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Type             PortfolioType   `gorm:"column:portfolio_type;size:20;not null;default:web_app;index" json:"portfolio_type"`
	ShortDescription string          `gorm:"size:300;not null" json:"short_description"`
	Bio              string          `gorm:"type:text" json:"bio"`
	FeaturedImage    string          `json:"featured_image"`
	GalleryImages    string          `gorm:"type:text" json:"-"`
	LiveURL          string          `json:"live_url,omitempty"`
	GithubURL        string          `json:"github_url,omitempty"`
	DemoURL          string          `json:"demo_url,omitempty"`
	DocumentationURL string          `json:"documentation_url,omitempty"`
	Technologies     string          `gorm:"size:500" json:"-"`
	KeyFeatures      string          `gorm:"type:text" json:"-"`
	Challenges       string          `gorm:"type:text" json:"challenges"`
	Status           PortfolioStatus `gorm:"size:20;not null;default:completed;index" json:"status"`
	StartDate        *time.Time      `gorm:"type:date" json:"start_date,omitempty"`
	EndDate          *time.Time      `gorm:"type:date" json:"end_date,omitempty"`
	Duration         string          `gorm:"size:100" json:"duration"`
	IsFeatured       bool            `gorm:"not null;default:false" json:"is_featured"`
	IsPublic         bool            `gorm:"not null" json:"is_public"`
	SortOrder        int             `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// PortfolioOrder is the listing order used everywhere portfolio entries are shown.
const PortfolioOrder = "is_featured DESC, sort_order ASC, created_at DESC"

// TechnologiesList splits the comma-delimited technologies.
func (p *Portfolio) TechnologiesList() []string {
	return splitTrim(p.Technologies, ",")
}

// KeyFeaturesList splits the newline-delimited key features.
func (p *Portfolio) KeyFeaturesList() []string {
	return splitTrim(strings.ReplaceAll(p.KeyFeatures, "\r\n", "\n"), "\n")
}

// GalleryList splits the comma-delimited gallery image paths.
func (p *Portfolio) GalleryList() []string {
	return splitTrim(p.GalleryImages, ",")
}

// MarshalJSON adds the list forms and display helpers to the stored fields.
func (p Portfolio) MarshalJSON() ([]byte, error) {
	type plain Portfolio
	return json.Marshal(struct {
		plain
		Technologies []string `json:"technologies"`
		KeyFeatures  []string `json:"key_features"`
		Gallery      []string `json:"gallery_images"`
		TypeLabel    string   `json:"type_label"`
		TypeIcon     string   `json:"type_icon"`
		StatusLabel  string   `json:"status_label"`
		StatusBadge  string   `json:"status_badge"`
	}{
		plain:        plain(p),
		Technologies: nonNil(p.TechnologiesList()),
		KeyFeatures:  nonNil(p.KeyFeaturesList()),
		Gallery:      nonNil(p.GalleryList()),
		TypeLabel:    p.Type.Label(),
		TypeIcon:     p.Type.Icon(),
		StatusLabel:  p.Status.Label(),
		StatusBadge:  p.Status.Badge(),
	})
}

// UnmarshalJSON accepts both the stored delimited strings and the list forms
// produced by MarshalJSON.
func (p *Portfolio) UnmarshalJSON(data []byte) error {
	type plain Portfolio
	aux := struct {
		*plain
		Technologies json.RawMessage `json:"technologies"`
		KeyFeatures  json.RawMessage `json:"key_features"`
		Gallery      json.RawMessage `json:"gallery_images"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var err error
	if p.Technologies, err = joinRaw(aux.Technologies, ", "); err != nil {
		return err
	}
	if p.KeyFeatures, err = joinRaw(aux.KeyFeatures, "\n"); err != nil {
		return err
	}
	if p.GalleryImages, err = joinRaw(aux.Gallery, ","); err != nil {
		return err
	}
	return nil
}

func joinRaw(raw json.RawMessage, sep string) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return "", err
	}
	return strings.Join(list, sep), nil
}

func splitTrim(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
