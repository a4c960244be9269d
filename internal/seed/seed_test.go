package seed

import (
	"context"
	"testing"
	"time"

	"folio/internal/models"
	"folio/internal/testutil"
	"folio/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadFixtures(t *testing.T) {
	fx, err := LoadFixtures()
	require.NoError(t, err)
	require.NotEmpty(t, fx.Services)
	require.NotEmpty(t, fx.Portfolio)

	for _, o := range fx.Services {
		assert.NotEmpty(t, o.Title)
		assert.NotEmpty(t, o.Description)
	}
	for _, p := range fx.Portfolio {
		in := p.Input()
		assert.True(t, models.PortfolioType(in.Type).Valid(), in.Type)
		assert.True(t, models.PortfolioStatus(in.Status).Valid(), in.Status)
		require.NotNil(t, in.IsPublic)
		assert.True(t, *in.IsPublic)
	}
}

func TestPortfolioFixture_Input(t *testing.T) {
	in := PortfolioFixture{
		Title:        "X",
		Hidden:       true,
		Technologies: []string{"Go", "Redis"},
		KeyFeatures:  []string{"one", "two"},
	}.Input()
	assert.Equal(t, "Go, Redis", in.Technologies)
	assert.Equal(t, "one\ntwo", in.KeyFeatures)
	assert.False(t, *in.IsPublic)
	assert.Nil(t, in.StartDate)
}

func TestPortfolioFixture_Dates(t *testing.T) {
	var fixtures []PortfolioFixture
	require.NoError(t, yaml.Unmarshal([]byte("- title: X\n  start_date: 2023-01-09\n  end_date: 2023-07-14\n"), &fixtures))
	require.Len(t, fixtures, 1)
	in := fixtures[0].Input()
	require.NotNil(t, in.StartDate)
	require.NotNil(t, in.EndDate)
	assert.Equal(t, "2023-01-09", in.StartDate.Format(time.DateOnly))
	assert.Equal(t, "2023-07-14", in.EndDate.Format(time.DateOnly))

	err := yaml.Unmarshal([]byte("- title: X\n  start_date: next spring\n"), &fixtures)
	assert.ErrorContains(t, err, "YYYY-MM-DD")

	fx, err := LoadFixtures()
	require.NoError(t, err)
	dated := 0
	for _, p := range fx.Portfolio {
		if p.StartDate != nil {
			dated++
		}
	}
	assert.Equal(t, 3, dated)
}

func TestFactory_Deterministic(t *testing.T) {
	a := NewFactory(42, 30)
	b := NewFactory(42, 30)
	assert.Equal(t, a.User(1, "h").Username, b.User(1, "h").Username)
	assert.Equal(t, a.Categories(), b.Categories())
}

func TestFactory_ProducesValidEntities(t *testing.T) {
	f := NewFactory(7, 30)
	for i := 1; i <= 20; i++ {
		u := f.User(i, "hash")
		v := validation.Fields{}
		v.Username("username", u.Username)
		v.Email("email", u.Email)
		assert.True(t, v.OK(), "%s %s: %v", u.Username, u.Email, v)

		p := f.Post(u.ID)
		assert.NotEmpty(t, p.Title)
		assert.LessOrEqual(t, len(p.Title), 100)
		assert.WithinDuration(t, time.Now(), p.CreatedAt, 31*24*time.Hour)

		tags := f.Tags()
		assert.LessOrEqual(t, len(tags), 3)
		cats := f.Categories()
		assert.NotEmpty(t, cats)
	}
}

func TestSeeder_Run(t *testing.T) {
	db := testutil.SQLiteDB(t)
	ctx := context.Background()
	s := NewSeeder(db)

	report, err := s.Run(ctx, Options{Users: 3, Posts: 5, Contacts: 2, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Users)
	assert.Equal(t, 5, report.Posts)
	assert.Equal(t, 2, report.Contacts)

	var count int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&count).Error)
	assert.EqualValues(t, 3, count, "every user gets a profile")

	require.NoError(t, db.Model(&models.Like{}).Count(&count).Error)
	assert.EqualValues(t, report.Likes, count)

	var slugs []string
	require.NoError(t, db.Model(&models.Portfolio{}).Order("sort_order").Pluck("slug", &slugs).Error)
	assert.Contains(t, slugs, "storefront-platform")

	// Running again with Clean starts over instead of colliding on slugs and usernames.
	report, err = s.Run(ctx, Options{Users: 3, Posts: 1, Clean: true, Seed: 1})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	require.NoError(t, db.Model(&models.ContactMessage{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSeeder_ClearAllEmptyDatabase(t *testing.T) {
	assert.NoError(t, NewSeeder(testutil.SQLiteDB(t)).ClearAll(context.Background()))
}
