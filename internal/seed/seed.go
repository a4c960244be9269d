// Package seed fills a database with demo content: the services listing and
// portfolio from YAML fixtures, plus generated users, posts and engagement.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/service"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every generated user.
const DemoPassword = "Demo!Password1"

// Options configuration for the seeder
type Options struct {
	Users    int
	Posts    int
	Contacts int
	Clean    bool
	// Seed makes generated content reproducible.
	Seed int64
}

// Report counts what Run created.
type Report struct {
	Services  int
	Portfolio int
	Users     int
	Posts     int
	Comments  int
	Likes     int
	Contacts  int
}

// Seeder writes demo data through the repositories so the same invariants
// hold as for data created through the API.
type Seeder struct {
	db        *gorm.DB
	users     repository.UserRepository
	posts     repository.PostRepository
	comments  repository.CommentRepository
	offerings repository.OfferingRepository
	contacts  repository.ContactRepository
	portfolio *service.PortfolioService
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:        db,
		users:     repository.NewUserRepository(db),
		posts:     repository.NewPostRepository(db),
		comments:  repository.NewCommentRepository(db),
		offerings: repository.NewOfferingRepository(db),
		contacts:  repository.NewContactRepository(db),
		portfolio: service.NewPortfolioService(repository.NewPortfolioRepository(db)),
	}
}

// Run seeds fixtures first and generated content after.
func (s *Seeder) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Clean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}

	fixtures, err := LoadFixtures()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	if report.Services, err = s.SeedServices(ctx, fixtures.Services); err != nil {
		return nil, err
	}
	if report.Portfolio, err = s.SeedPortfolio(ctx, fixtures.Portfolio); err != nil {
		return nil, err
	}

	f := NewFactory(opts.Seed, 90)
	users, err := s.SeedUsers(ctx, f, opts.Users)
	if err != nil {
		return nil, err
	}
	report.Users = len(users)

	if err := s.SeedPosts(ctx, f, users, opts.Posts, report); err != nil {
		return nil, err
	}
	if report.Contacts, err = s.SeedContacts(ctx, f, opts.Contacts); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "seeding complete",
		slog.Int("services", report.Services),
		slog.Int("portfolio", report.Portfolio),
		slog.Int("users", report.Users),
		slog.Int("posts", report.Posts),
		slog.Int("comments", report.Comments),
		slog.Int("likes", report.Likes),
		slog.Int("contacts", report.Contacts),
	)
	return report, nil
}

// ClearAll deletes every row the seeder can create, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, table := range []string{"post_categories", "post_tags"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for _, model := range []any{
		&models.Like{}, &models.Comment{}, &models.Post{}, &models.Category{}, &models.Tag{},
		&models.Profile{}, &models.User{}, &models.Portfolio{}, &models.Offering{}, &models.ContactMessage{},
	} {
		if err := db.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// SeedServices adds the services listing.
func (s *Seeder) SeedServices(ctx context.Context, items []models.Offering) (int, error) {
	for i := range items {
		o := items[i]
		if err := s.offerings.Create(ctx, &o); err != nil {
			return i, fmt.Errorf("create service %q: %w", o.Title, err)
		}
	}
	return len(items), nil
}

// SeedPortfolio creates entries through the portfolio service so slugs and
// validation match the admin tool.
func (s *Seeder) SeedPortfolio(ctx context.Context, items []PortfolioFixture) (int, error) {
	for i, item := range items {
		if _, err := s.portfolio.Create(ctx, item.Input()); err != nil {
			return i, fmt.Errorf("create portfolio %q: %w", item.Title, err)
		}
	}
	return len(items), nil
}

// SeedUsers creates n users with filled-in profiles, all sharing DemoPassword.
func (s *Seeder) SeedUsers(ctx context.Context, f *Factory, n int) ([]*models.User, error) {
	if n <= 0 {
		return nil, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	users := make([]*models.User, 0, n)
	for i := 1; i <= n; i++ {
		u := f.User(i, string(hash))
		u.Profile = &models.Profile{}
		f.Profile(u.Profile)
		if err := s.users.CreateWithProfile(ctx, u); err != nil {
			return users, fmt.Errorf("create user %s: %w", u.Username, err)
		}
		users = append(users, u)
	}
	return users, nil
}

// SeedPosts creates n posts by random users, each with a few comments and likes.
func (s *Seeder) SeedPosts(ctx context.Context, f *Factory, users []*models.User, n int, report *Report) error {
	if len(users) == 0 || n <= 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		author := users[f.Intn(len(users))]
		post := f.Post(author.ID)

		var err error
		if post.Categories, err = s.posts.ResolveCategories(ctx, f.Categories()); err != nil {
			return err
		}
		if post.Tags, err = s.posts.ResolveTags(ctx, f.Tags()); err != nil {
			return err
		}
		if err := s.posts.Create(ctx, post); err != nil {
			return fmt.Errorf("create post: %w", err)
		}
		report.Posts++

		for _, u := range users {
			if f.Chance(30) {
				if _, err := s.posts.ToggleLike(ctx, u.ID, post.ID); err != nil {
					return fmt.Errorf("like post %d: %w", post.ID, err)
				}
				report.Likes++
			}
			if f.Chance(15) {
				if err := s.comments.Create(ctx, f.Comment(u.ID, post.ID)); err != nil {
					return fmt.Errorf("comment on post %d: %w", post.ID, err)
				}
				report.Comments++
			}
		}
	}
	return nil
}

// SeedContacts stores n inbound contact messages.
func (s *Seeder) SeedContacts(ctx context.Context, f *Factory, n int) (int, error) {
	for i := 0; i < n; i++ {
		if err := s.contacts.Create(ctx, f.ContactMessage()); err != nil {
			return i, fmt.Errorf("create contact message: %w", err)
		}
	}
	return max(n, 0), nil
}
