package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"folio/internal/cache"
	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/slug"
	"folio/internal/validation"
)

// RelatedLimit caps the related entries shown next to a portfolio detail.
const RelatedLimit = 3

// reservedSlugs are fixed paths under /api/portfolio that an entry slug
// would be shadowed by.
var reservedSlugs = map[string]bool{
	"stats": true,
}

type PortfolioService struct {
	repo repository.PortfolioRepository
}

// PortfolioFilters are the public list filters. Empty means any.
type PortfolioFilters struct {
	Type   string
	Status string
}

type PortfolioStats struct {
	Total             int                      `json:"total"`
	Completed         int                      `json:"completed"`
	InProgress        int                      `json:"in_progress"`
	TechnologiesCount int                      `json:"technologies_count"`
	Technologies      []string                 `json:"technologies"`
	Types             []models.PortfolioType   `json:"types"`
	Statuses          []models.PortfolioStatus `json:"statuses"`
}

type PortfolioDetail struct {
	Portfolio models.Portfolio   `json:"portfolio"`
	Related   []models.Portfolio `json:"related"`
}

// Choice is a selectable filter value with its display label.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// PortfolioPage is everything the portfolio index shows at once.
type PortfolioPage struct {
	Items          []models.Portfolio `json:"items"`
	Featured       []models.Portfolio `json:"featured"`
	Stats          *PortfolioStats    `json:"stats"`
	TypeChoices    []Choice           `json:"type_choices"`
	StatusChoices  []Choice           `json:"status_choices"`
	SelectedType   string             `json:"selected_type"`
	SelectedStatus string             `json:"selected_status"`
}

// PortfolioInput carries the admin-editable fields. Nil IsPublic defaults to
// true on create and keeps the stored value on update.
type PortfolioInput struct {
	Title            string
	Slug             string
	Type             string
	ShortDescription string
	Bio              string
	FeaturedImage    string
	GalleryImages    string
	LiveURL          string
	GithubURL        string
	DemoURL          string
	DocumentationURL string
	Technologies     string
	KeyFeatures      string
	Challenges       string
	Status           string
	Duration         string
	StartDate        *time.Time
	EndDate          *time.Time
	IsFeatured       bool
	IsPublic         *bool
	SortOrder        int
}

func NewPortfolioService(repo repository.PortfolioRepository) *PortfolioService {
	return &PortfolioService{repo: repo}
}

// List returns visible entries matching both filters. A filter value outside
// the enums matches nothing and is answered without touching the cache.
func (s *PortfolioService) List(ctx context.Context, f PortfolioFilters) ([]models.Portfolio, error) {
	out := []models.Portfolio{}
	if !f.known() {
		return out, nil
	}
	err := cache.Aside(ctx, cache.PortfolioListKey(ctx, f.Type, f.Status), &out, cache.PortfolioTTL, func() error {
		items, err := s.repo.List(ctx, repository.PortfolioFilter{
			Type:   models.PortfolioType(f.Type),
			Status: models.PortfolioStatus(f.Status),
		})
		out = items
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f PortfolioFilters) known() bool {
	return (f.Type == "" || models.PortfolioType(f.Type).Valid()) &&
		(f.Status == "" || models.PortfolioStatus(f.Status).Valid())
}

// Featured returns the featured subset of List.
func (s *PortfolioService) Featured(ctx context.Context, f PortfolioFilters) ([]models.Portfolio, error) {
	items, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return featuredOf(items), nil
}

func featuredOf(items []models.Portfolio) []models.Portfolio {
	out := []models.Portfolio{}
	for _, p := range items {
		if p.IsFeatured {
			out = append(out, p)
		}
	}
	return out
}

// Stats summarizes every visible entry regardless of filters.
func (s *PortfolioService) Stats(ctx context.Context) (*PortfolioStats, error) {
	var stats PortfolioStats
	err := cache.Aside(ctx, cache.PortfolioStatsKey(ctx), &stats, cache.PortfolioTTL, func() error {
		items, err := s.repo.List(ctx, repository.PortfolioFilter{})
		if err != nil {
			return err
		}
		stats = computeStats(items)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func computeStats(items []models.Portfolio) PortfolioStats {
	stats := PortfolioStats{
		Total:        len(items),
		Technologies: []string{},
		Types:        []models.PortfolioType{},
		Statuses:     []models.PortfolioStatus{},
	}
	techs := map[string]struct{}{}
	types := map[models.PortfolioType]bool{}
	statuses := map[models.PortfolioStatus]bool{}
	for _, p := range items {
		switch p.Status {
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusInProgress:
			stats.InProgress++
		}
		for _, t := range p.TechnologiesList() {
			techs[t] = struct{}{}
		}
		types[p.Type] = true
		statuses[p.Status] = true
	}
	for t := range techs {
		stats.Technologies = append(stats.Technologies, t)
	}
	sort.Strings(stats.Technologies)
	stats.TechnologiesCount = len(stats.Technologies)

	// Keep the declared display order.
	for _, t := range models.PortfolioTypes {
		if types[t] {
			stats.Types = append(stats.Types, t)
		}
	}
	for _, st := range models.PortfolioStatuses {
		if statuses[st] {
			stats.Statuses = append(stats.Statuses, st)
		}
	}
	return stats
}

// Page assembles the portfolio index: filtered list, featured subset, stats
// and the filter choices available among visible entries.
func (s *PortfolioService) Page(ctx context.Context, f PortfolioFilters) (*PortfolioPage, error) {
	items, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	page := &PortfolioPage{
		Items:          items,
		Featured:       featuredOf(items),
		Stats:          stats,
		TypeChoices:    []Choice{},
		StatusChoices:  []Choice{},
		SelectedType:   f.Type,
		SelectedStatus: f.Status,
	}
	for _, t := range stats.Types {
		page.TypeChoices = append(page.TypeChoices, Choice{Value: string(t), Label: t.Label()})
	}
	for _, st := range stats.Statuses {
		page.StatusChoices = append(page.StatusChoices, Choice{Value: string(st), Label: st.Label()})
	}
	return page, nil
}

// GetBySlug returns a visible entry with up to RelatedLimit related entries.
func (s *PortfolioService) GetBySlug(ctx context.Context, slugValue string) (*PortfolioDetail, error) {
	var detail PortfolioDetail
	err := cache.Aside(ctx, cache.PortfolioDetailKey(ctx, slugValue), &detail, cache.PortfolioTTL, func() error {
		p, err := s.repo.GetBySlug(ctx, slugValue, false)
		if err != nil {
			return err
		}
		related, err := s.repo.Related(ctx, p, RelatedLimit)
		if err != nil {
			return err
		}
		detail = PortfolioDetail{Portfolio: *p, Related: related}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListAll returns every entry including hidden ones.
func (s *PortfolioService) ListAll(ctx context.Context) ([]models.Portfolio, error) {
	return s.repo.List(ctx, repository.PortfolioFilter{IncludeHidden: true})
}

func (s *PortfolioService) Get(ctx context.Context, id uint) (*models.Portfolio, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new entry. A blank slug is derived from the title and made
// unique; an explicit one must be slug-shaped and free.
func (s *PortfolioService) Create(ctx context.Context, in PortfolioInput) (*models.Portfolio, error) {
	p := &models.Portfolio{IsPublic: true}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update rewrites an entry. The slug is kept unless a new one is given.
func (s *PortfolioService) Update(ctx context.Context, id uint, in PortfolioInput) (*models.Portfolio, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PortfolioService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *PortfolioService) apply(ctx context.Context, p *models.Portfolio, in PortfolioInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Type == "" {
		in.Type = string(models.TypeWebApp)
	}
	if in.Status == "" {
		in.Status = string(models.StatusCompleted)
	}

	fields := validation.Fields{}
	fields.Required("title", in.Title)
	fields.MaxLen("title", in.Title, 200)
	fields.Required("short_description", in.ShortDescription)
	fields.MaxLen("short_description", in.ShortDescription, 300)
	fields.MaxLen("technologies", in.Technologies, 500)
	fields.MaxLen("duration", in.Duration, 100)
	if !models.PortfolioType(in.Type).Valid() {
		fields.Add("portfolio_type", invalidChoice(in.Type))
	}
	if !models.PortfolioStatus(in.Status).Valid() {
		fields.Add("status", invalidChoice(in.Status))
	}
	fields.URL("live_url", in.LiveURL)
	fields.URL("github_url", in.GithubURL)
	fields.URL("demo_url", in.DemoURL)
	fields.URL("documentation_url", in.DocumentationURL)
	in.StartDate, in.EndDate = dateOnly(in.StartDate), dateOnly(in.EndDate)
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		fields.Add("end_date", "End date must not be earlier than the start date.")
	}

	taken := func(ctx context.Context, candidate string) (bool, error) {
		if reservedSlugs[candidate] {
			return true, nil
		}
		return s.repo.SlugTaken(ctx, candidate, p.ID)
	}
	switch {
	case in.Slug != "" && in.Slug != p.Slug:
		if !slug.Valid(in.Slug) {
			fields.Add("slug", "Enter a valid slug consisting of lowercase letters, numbers, underscores or hyphens.")
			break
		}
		if reservedSlugs[in.Slug] {
			fields.Add("slug", "This slug is reserved.")
			break
		}
		used, err := taken(ctx, in.Slug)
		if err != nil {
			return err
		}
		if used {
			fields.Add("slug", "Portfolio with this slug already exists.")
		}
	case in.Slug == "" && p.Slug == "" && fields.OK():
		generated, err := slug.Unique(ctx, slug.Make(in.Title), taken)
		if err != nil {
			return models.NewInternalError(err)
		}
		in.Slug = generated
	}
	if !fields.OK() {
		return models.NewFieldErrors(fields)
	}

	if in.Slug != "" {
		p.Slug = in.Slug
	}
	p.Title = in.Title
	p.Type = models.PortfolioType(in.Type)
	p.ShortDescription = in.ShortDescription
	p.Bio = in.Bio
	p.FeaturedImage = in.FeaturedImage
	p.GalleryImages = in.GalleryImages
	p.LiveURL = in.LiveURL
	p.GithubURL = in.GithubURL
	p.DemoURL = in.DemoURL
	p.DocumentationURL = in.DocumentationURL
	p.Technologies = in.Technologies
	p.KeyFeatures = in.KeyFeatures
	p.Challenges = in.Challenges
	p.Status = models.PortfolioStatus(in.Status)
	p.Duration = in.Duration
	p.StartDate = in.StartDate
	p.EndDate = in.EndDate
	p.IsFeatured = in.IsFeatured
	p.SortOrder = in.SortOrder
	if in.IsPublic != nil {
		p.IsPublic = *in.IsPublic
	}
	return nil
}

// dateOnly drops the clock part; the columns are calendar dates.
func dateOnly(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
