package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // Register GIF decoder
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"log/slog"
	"net/http"
	"strings"

	"folio/internal/config"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/storage"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultImageMaxUploadSizeMB = 10
	DefaultAvatarMaxPx          = 300
	PostImageMaxPx              = 1440
	JPEGQuality                 = 82
	WebPQuality                 = 70
	// MaxImagePixels bounds the decoded size of an upload. A small, highly
	// compressed file can declare dimensions that take gigabytes to decode.
	MaxImagePixels = 40_000_000
)

// StoredImage describes an image written to the blob store. Every image is
// stored as JPEG with a WebP alternate next to it.
type StoredImage struct {
	Key     string
	URL     string
	WebPKey string
	Width   int
	Height  int
}

// ImageService validates uploads, bounds their size and stores them.
type ImageService struct {
	store              storage.BlobStore
	maxUploadSizeBytes int64
	avatarMaxPx        int
}

func NewImageService(store storage.BlobStore, cfg *config.Config) *ImageService {
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB
	avatarMaxPx := DefaultAvatarMaxPx
	if cfg != nil {
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
		}
		if cfg.AvatarMaxPx > 0 {
			avatarMaxPx = cfg.AvatarMaxPx
		}
	}
	return &ImageService{
		store:              store,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
		avatarMaxPx:        avatarMaxPx,
	}
}

// AvatarMaxPx is the bounding box edge for avatars.
func (s *ImageService) AvatarMaxPx() int { return s.avatarMaxPx }

// URL returns the public URL of a stored key.
func (s *ImageService) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.store.URL(key)
}

// StoreAvatar decodes an upload, shrinks it to fit the avatar box and stores it.
func (s *ImageService) StoreAvatar(ctx context.Context, userID uint, content []byte) (*StoredImage, error) {
	img, err := s.decodeUpload(content)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("avatars/%d/%s.jpg", userID, uuid.NewString())
	return s.put(ctx, key, resizeToFit(img, s.avatarMaxPx, s.avatarMaxPx))
}

// StorePostImage stores a post illustration bounded to PostImageMaxPx.
func (s *ImageService) StorePostImage(ctx context.Context, userID uint, content []byte) (*StoredImage, error) {
	img, err := s.decodeUpload(content)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("posts/%d/%s.jpg", userID, uuid.NewString())
	return s.put(ctx, key, resizeToFit(img, PostImageMaxPx, PostImageMaxPx))
}

// NormalizeAvatar re-checks a stored avatar and rewrites it in place when it
// exceeds the avatar box. It reports whether the blob was rewritten. A
// missing blob is not an error.
func (s *ImageService) NormalizeAvatar(ctx context.Context, key string) (bool, error) {
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		middleware.Logger.WarnContext(ctx, "stored avatar missing", slog.String("key", key))
		return false, nil
	}
	if err != nil {
		return false, models.NewInternalError(err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return false, models.NewInternalError(fmt.Errorf("decode stored avatar %s: %w", key, err))
	}
	if cfg.Width <= s.avatarMaxPx && cfg.Height <= s.avatarMaxPx {
		return false, nil
	}
	if tooManyPixels(cfg) {
		return false, models.NewInternalError(fmt.Errorf("stored avatar %s is %dx%d", key, cfg.Width, cfg.Height))
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if _, err := s.put(ctx, key, resizeToFit(img, s.avatarMaxPx, s.avatarMaxPx)); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes a stored image and its WebP alternate, best effort.
func (s *ImageService) Remove(ctx context.Context, key string) {
	if key == "" {
		return
	}
	for _, k := range []string{key, webpKey(key)} {
		if err := s.store.Delete(ctx, k); err != nil {
			middleware.Logger.WarnContext(ctx, "failed to delete image", slog.String("key", k), slog.String("error", err.Error()))
		}
	}
}

func (s *ImageService) decodeUpload(content []byte) (image.Image, error) {
	if len(content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}
	if !isAllowedImageMIME(http.DetectContentType(content)) {
		return nil, models.NewValidationError("Invalid image type")
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("Unsupported image format")
	}
	if tooManyPixels(cfg) {
		return nil, models.NewValidationError(fmt.Sprintf("Image dimensions too large (max %d megapixels)", MaxImagePixels/1_000_000))
	}
	img, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("Unsupported image format")
	}
	return img, nil
}

func tooManyPixels(cfg image.Config) bool {
	return cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels
}

func (s *ImageService) put(ctx context.Context, key string, img image.Image) (*StoredImage, error) {
	jpg, err := encodeJPEG(img, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	wp, err := encodeWebP(img, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.store.Put(ctx, key, jpg); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.store.Put(ctx, webpKey(key), wp); err != nil {
		_ = s.store.Delete(ctx, key)
		return nil, models.NewInternalError(err)
	}
	b := img.Bounds()
	return &StoredImage{
		Key:     key,
		URL:     s.store.URL(key),
		WebPKey: webpKey(key),
		Width:   b.Dx(),
		Height:  b.Dy(),
	}, nil
}

func webpKey(key string) string {
	return strings.TrimSuffix(key, ".jpg") + ".webp"
}

// resizeToFit scales src down to fit maxWidth×maxHeight keeping its aspect
// ratio; 600×400 into 300×300 gives 300×200. Images that already fit are
// returned unchanged. Integer math keeps the result exact.
func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	var newW, newH int
	if w*maxHeight >= h*maxWidth {
		newW = maxWidth
		newH = h * maxWidth / w
	} else {
		newH = maxHeight
		newW = w * maxHeight / h
	}
	newW = max(newW, 1)
	newH = max(newH, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}
