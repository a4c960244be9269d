package seed

import (
	"fmt"
	"strings"
	"time"

	"folio/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// Factory builds demo entities. It never touches the database, so the same
// seed always yields the same content.
type Factory struct {
	faker   *gofakeit.Faker
	maxDays int
	now     func() time.Time
}

// NewFactory creates a factory whose random choices derive from seed.
// maxDays bounds how far back generated timestamps go.
func NewFactory(seed int64, maxDays int) *Factory {
	if maxDays <= 0 {
		maxDays = 90
	}
	return &Factory{faker: gofakeit.New(seed), maxDays: maxDays, now: time.Now}
}

var (
	postCategories = []string{"Go", "Backend", "DevOps", "Frontend", "Career", "Notes"}
	postTags       = []string{"fiber", "gorm", "postgres", "redis", "testing", "performance", "docker", "websockets"}
)

// User returns an unsaved user; n keeps usernames and emails unique.
func (f *Factory) User(n int, passwordHash string) *models.User {
	first := strings.ToLower(sanitize(f.faker.FirstName()))
	if first == "" {
		first = "user"
	}
	username := fmt.Sprintf("%s_%d", first, n)
	if len(username) > 30 {
		username = username[len(username)-30:]
	}
	return &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: passwordHash,
	}
}

// Profile fills the public details of a user's profile.
func (f *Factory) Profile(p *models.Profile) {
	p.Bio = truncate(f.faker.Sentence(12), 500)
	p.Location = truncate(f.faker.City(), 100)
	p.Website = "https://" + f.faker.DomainName()
}

// Post returns an unsaved post by userID with a created_at in the past.
func (f *Factory) Post(userID uint) *models.Post {
	title := truncate(strings.TrimSuffix(f.faker.Sentence(f.faker.IntRange(3, 8)), "."), 100)
	return &models.Post{
		Title:     title,
		Content:   f.faker.Paragraph(f.faker.IntRange(1, 3), 4, 12, "\n\n"),
		UserID:    userID,
		CreatedAt: f.pastTime(),
	}
}

// Categories picks one or two category names.
func (f *Factory) Categories() []string {
	return f.pick(postCategories, f.faker.IntRange(1, 2))
}

// Tags picks up to three tag names.
func (f *Factory) Tags() []string {
	return f.pick(postTags, f.faker.IntRange(0, 3))
}

// Comment returns an unsaved comment.
func (f *Factory) Comment(userID, postID uint) *models.Comment {
	return &models.Comment{
		Content: f.faker.Sentence(f.faker.IntRange(4, 20)),
		UserID:  userID,
		PostID:  postID,
	}
}

// ContactMessage returns an unsaved inbound message with a random status.
func (f *Factory) ContactMessage() *models.ContactMessage {
	statuses := []models.ContactStatus{models.ContactNew, models.ContactNew, models.ContactRead, models.ContactReplied}
	return &models.ContactMessage{
		Name:    truncate(f.faker.Name(), 200),
		Email:   f.faker.Email(),
		Subject: truncate(f.faker.Sentence(5), 300),
		Message: f.faker.Paragraph(1, 3, 10, " "),
		Status:  statuses[f.faker.IntRange(0, len(statuses)-1)],
	}
}

// Chance reports true with probability pct/100.
func (f *Factory) Chance(pct int) bool {
	return f.faker.IntRange(1, 100) <= pct
}

// Intn returns a value in [0, n).
func (f *Factory) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.IntRange(0, n-1)
}

func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.IntRange(0, f.maxDays*24*60)) * time.Minute
	return f.now().Add(-back)
}

func (f *Factory) pick(from []string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	idx := make([]int, len(from))
	for i := range idx {
		idx[i] = i
	}
	f.faker.ShuffleInts(idx)
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, from[i])
	}
	return out
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
