package seed

import (
	"embed"
	"fmt"
	"strings"
	"time"

	"folio/internal/models"
	"folio/internal/service"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

// PortfolioFixture is one portfolio entry as written in fixtures/portfolio.yaml.
type PortfolioFixture struct {
	Title            string   `yaml:"title"`
	Slug             string   `yaml:"slug"`
	Type             string   `yaml:"type"`
	Status           string   `yaml:"status"`
	Featured         bool     `yaml:"featured"`
	Hidden           bool     `yaml:"hidden"`
	Order            int      `yaml:"order"`
	ShortDescription string   `yaml:"short_description"`
	Bio              string   `yaml:"bio"`
	FeaturedImage    string   `yaml:"featured_image"`
	Gallery          []string `yaml:"gallery"`
	LiveURL          string   `yaml:"live_url"`
	GithubURL        string   `yaml:"github_url"`
	DemoURL          string   `yaml:"demo_url"`
	DocumentationURL string   `yaml:"documentation_url"`
	Technologies     []string `yaml:"technologies"`
	KeyFeatures      []string `yaml:"key_features"`
	Challenges       string   `yaml:"challenges"`
	StartDate        *Date    `yaml:"start_date"`
	EndDate          *Date    `yaml:"end_date"`
	Duration         string   `yaml:"duration"`
}

// Date is a calendar day written as YYYY-MM-DD.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	t, err := time.Parse(time.DateOnly, node.Value)
	if err != nil {
		return fmt.Errorf("line %d: date must be YYYY-MM-DD: %w", node.Line, err)
	}
	d.Time = t
	return nil
}

func (d *Date) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// Input converts the fixture into the admin input used by the portfolio service.
func (f PortfolioFixture) Input() service.PortfolioInput {
	public := !f.Hidden
	return service.PortfolioInput{
		Title:            f.Title,
		Slug:             f.Slug,
		Type:             f.Type,
		Status:           f.Status,
		ShortDescription: f.ShortDescription,
		Bio:              f.Bio,
		FeaturedImage:    f.FeaturedImage,
		GalleryImages:    strings.Join(f.Gallery, ", "),
		LiveURL:          f.LiveURL,
		GithubURL:        f.GithubURL,
		DemoURL:          f.DemoURL,
		DocumentationURL: f.DocumentationURL,
		Technologies:     strings.Join(f.Technologies, ", "),
		KeyFeatures:      strings.Join(f.KeyFeatures, "\n"),
		Challenges:       f.Challenges,
		Duration:         f.Duration,
		StartDate:        f.StartDate.ptr(),
		EndDate:          f.EndDate.ptr(),
		IsFeatured:       f.Featured,
		IsPublic:         &public,
		SortOrder:        f.Order,
	}
}

// Fixtures is the static content loaded from YAML.
type Fixtures struct {
	Services  []models.Offering
	Portfolio []PortfolioFixture
}

// LoadFixtures parses the embedded fixture files.
func LoadFixtures() (*Fixtures, error) {
	var out Fixtures
	if err := readYAML("fixtures/services.yaml", &out.Services); err != nil {
		return nil, err
	}
	if err := readYAML("fixtures/portfolio.yaml", &out.Portfolio); err != nil {
		return nil, err
	}
	return &out, nil
}

func readYAML(name string, dest any) error {
	raw, err := fixtureFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
