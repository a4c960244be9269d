package service

import (
	"context"
	"image"
	"testing"

	"folio/internal/config"
	"folio/internal/models"
	"folio/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResizeToFit(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"landscape", 600, 400, 300, 200},
		{"portrait", 400, 600, 200, 300},
		{"square", 900, 900, 300, 300},
		{"already small", 120, 80, 120, 80},
		{"exact fit", 300, 300, 300, 300},
		{"very wide", 3000, 5, 300, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			got := resizeToFit(src, 300, 300).Bounds()
			assert.Equal(t, tt.wantW, got.Dx())
			assert.Equal(t, tt.wantH, got.Dy())
		})
	}
}

func TestImageService_StoreAvatar(t *testing.T) {
	store := testutil.NewMemoryBlobStore()
	svc := NewImageService(store, &config.Config{ImageMaxUploadSizeMB: 1, AvatarMaxPx: 300})

	img, err := svc.StoreAvatar(context.Background(), 42, testutil.PNG(600, 400))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Width)
	assert.Equal(t, 200, img.Height)
	assert.Contains(t, img.Key, "avatars/42/")
	assert.Equal(t, "/media/"+img.Key, img.URL)

	stored, err := store.Get(context.Background(), img.Key)
	require.NoError(t, err)
	w, h, err := testutil.ImageSize(stored)
	require.NoError(t, err)
	assert.Equal(t, [2]int{300, 200}, [2]int{w, h})

	_, err = store.Get(context.Background(), img.WebPKey)
	assert.NoError(t, err, "a WebP alternate is stored alongside")
}

func TestImageService_RejectsBadUploads(t *testing.T) {
	svc := NewImageService(testutil.NewMemoryBlobStore(), &config.Config{ImageMaxUploadSizeMB: 1})
	ctx := context.Background()

	_, err := svc.StoreAvatar(ctx, 1, nil)
	assert.True(t, models.IsCode(err, models.CodeValidation))

	_, err = svc.StoreAvatar(ctx, 1, []byte("definitely not an image"))
	assert.True(t, models.IsCode(err, models.CodeValidation))

	big := make([]byte, 2*1024*1024)
	_, err = svc.StorePostImage(ctx, 1, big)
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestImageService_RejectsOversizedDimensions(t *testing.T) {
	svc := NewImageService(testutil.NewMemoryBlobStore(), &config.Config{ImageMaxUploadSizeMB: 1})
	ctx := context.Background()

	bomb := testutil.PNGClaiming(30000, 30000)
	require.Less(t, len(bomb), 1024)
	w, h, err := testutil.ImageSize(bomb)
	require.NoError(t, err)
	require.Equal(t, [2]int{30000, 30000}, [2]int{w, h})

	_, err = svc.StoreAvatar(ctx, 1, bomb)
	require.True(t, models.IsCode(err, models.CodeValidation), "got %v", err)
	assert.Contains(t, err.Error(), "dimensions too large")

	_, err = svc.StorePostImage(ctx, 1, bomb)
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestImageService_NormalizeAvatar(t *testing.T) {
	store := testutil.NewMemoryBlobStore()
	svc := NewImageService(store, nil)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "avatars/1/big.jpg", testutil.JPEG(900, 600)))
	changed, err := svc.NormalizeAvatar(ctx, "avatars/1/big.jpg")
	require.NoError(t, err)
	assert.True(t, changed)

	stored, err := store.Get(ctx, "avatars/1/big.jpg")
	require.NoError(t, err)
	w, h, err := testutil.ImageSize(stored)
	require.NoError(t, err)
	assert.Equal(t, 300, w)
	assert.Equal(t, 200, h)

	small := testutil.JPEG(100, 100)
	require.NoError(t, store.Put(ctx, "avatars/1/small.jpg", small))
	changed, err = svc.NormalizeAvatar(ctx, "avatars/1/small.jpg")
	require.NoError(t, err)
	assert.False(t, changed)
	after, err := store.Get(ctx, "avatars/1/small.jpg")
	require.NoError(t, err)
	assert.Equal(t, small, after, "small avatars are left untouched")

	changed, err = svc.NormalizeAvatar(ctx, "avatars/1/missing.jpg")
	assert.NoError(t, err)
	assert.False(t, changed)
}

func TestImageService_Remove(t *testing.T) {
	store := testutil.NewMemoryBlobStore()
	svc := NewImageService(store, nil)
	ctx := context.Background()

	img, err := svc.StorePostImage(ctx, 3, testutil.PNG(20, 20))
	require.NoError(t, err)
	assert.Len(t, store.Keys(), 2)

	svc.Remove(ctx, img.Key)
	assert.Empty(t, store.Keys())
}
