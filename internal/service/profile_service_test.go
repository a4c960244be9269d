package service

import (
	"context"
	"strings"
	"testing"

	"folio/internal/models"
	"folio/internal/repository"
	"folio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileFixture struct {
	svc    *ProfileService
	repo   repository.ProfileRepository
	store  *testutil.MemoryBlobStore
	images *ImageService
	userID uint
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()
	db := testutil.SQLiteDB(t)
	user := &models.User{Username: "ada", Email: "ada@example.com", Password: "x"}
	require.NoError(t, repository.NewUserRepository(db).CreateWithProfile(context.Background(), user))

	images, store := newTestImages()
	repo := repository.NewProfileRepository(db)
	return &profileFixture{
		svc:    NewProfileService(repo, images),
		repo:   repo,
		store:  store,
		images: images,
		userID: user.ID,
	}
}

func TestProfileService_UpdateValidation(t *testing.T) {
	t.Parallel()
	f := newProfileFixture(t)

	_, err := f.svc.Update(context.Background(), ProfileInput{
		UserID:     f.userID,
		Bio:        strings.Repeat("b", 501),
		Location:   strings.Repeat("l", 101),
		Phone:      strings.Repeat("1", 21),
		Website:    "example.com",
		TwitterURL: "javascript:alert(1)",
	})
	appErr := assertAppError(t, err, models.CodeValidation)
	for _, field := range []string{"bio", "location", "phone", "website", "twitter_url"} {
		assert.Contains(t, appErr.Fields, field)
	}
}

func TestProfileService_AvatarIsNormalized(t *testing.T) {
	t.Parallel()
	f := newProfileFixture(t)
	ctx := context.Background()

	p, err := f.svc.Update(ctx, ProfileInput{UserID: f.userID, Bio: "hi", Avatar: testutil.PNG(600, 400)})
	require.NoError(t, err)
	require.NotEmpty(t, p.Avatar)
	assert.Equal(t, "/media/"+p.Avatar, p.AvatarURL)

	raw, err := f.store.Get(ctx, p.Avatar)
	require.NoError(t, err)
	w, h, err := testutil.ImageSize(raw)
	require.NoError(t, err)
	assert.Equal(t, 300, w)
	assert.Equal(t, 200, h)

	second, err := f.svc.Update(ctx, ProfileInput{UserID: f.userID, Avatar: testutil.PNG(50, 50)})
	require.NoError(t, err)
	assert.NotEqual(t, p.Avatar, second.Avatar)
	_, err = f.store.Get(ctx, p.Avatar)
	assert.Error(t, err, "replaced avatar is removed")
}

func TestProfileService_ExistingOversizedAvatarIsRenormalized(t *testing.T) {
	t.Parallel()
	f := newProfileFixture(t)
	ctx := context.Background()

	key := "avatars/legacy.jpg"
	require.NoError(t, f.store.Put(ctx, key, testutil.JPEG(1200, 600)))
	p, err := f.repo.GetOrCreate(ctx, f.userID)
	require.NoError(t, err)
	p.Avatar = key
	require.NoError(t, f.repo.Save(ctx, p))

	updated, err := f.svc.Update(ctx, ProfileInput{UserID: f.userID, Location: "Lisbon"})
	require.NoError(t, err)
	assert.Equal(t, key, updated.Avatar)
	assert.Equal(t, "Lisbon", updated.Location)

	raw, err := f.store.Get(ctx, key)
	require.NoError(t, err)
	w, h, err := testutil.ImageSize(raw)
	require.NoError(t, err)
	assert.Equal(t, 300, w)
	assert.Equal(t, 150, h)
}

func TestProfileService_SmallAvatarUntouched(t *testing.T) {
	t.Parallel()
	f := newProfileFixture(t)
	ctx := context.Background()

	original := testutil.JPEG(120, 80)
	key := "avatars/small.jpg"
	require.NoError(t, f.store.Put(ctx, key, original))
	p, err := f.repo.GetOrCreate(ctx, f.userID)
	require.NoError(t, err)
	p.Avatar = key
	require.NoError(t, f.repo.Save(ctx, p))

	_, err = f.svc.Update(ctx, ProfileInput{UserID: f.userID})
	require.NoError(t, err)

	raw, err := f.store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, original, raw)
}

func TestProfileService_NormalizeAll(t *testing.T) {
	t.Parallel()
	f := newProfileFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Put(ctx, "avatars/big.jpg", testutil.JPEG(900, 900)))
	p, err := f.repo.GetOrCreate(ctx, f.userID)
	require.NoError(t, err)
	p.Avatar = "avatars/big.jpg"
	require.NoError(t, f.repo.Save(ctx, p))

	report, err := f.svc.NormalizeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, NormalizeReport{Checked: 1, Rewritten: 1}, report)

	report, err = f.svc.NormalizeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, NormalizeReport{Checked: 1}, report)
}

func TestProfileService_GetOrCreate(t *testing.T) {
	t.Parallel()
	f := newProfileFixture(t)

	p, err := f.svc.GetOrCreate(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, f.userID, p.UserID)
	assert.Empty(t, p.AvatarURL)
}
