// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"strings"
	"time"

	"folio/internal/cache"
	"folio/internal/database"
	"folio/internal/models"

	"gorm.io/gorm"
)

// HomePostLimit is how many posts the home page shows.
const HomePostLimit = 3

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Count(ctx context.Context) (int64, error)
	Recent(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post, categories []models.Category, tags []models.Tag) error
	Delete(ctx context.Context, id uint) error
	ResolveCategories(ctx context.Context, names []string) ([]models.Category, error)
	ResolveTags(ctx context.Context, names []string) ([]models.Tag, error)
	ToggleLike(ctx context.Context, userID, postID uint) (bool, error)
	CountLikes(ctx context.Context, postID uint) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post together with its (already resolved) categories and tags.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(post).Error; err != nil {
		return translate(err, "Post", post.ID)
	}
	cache.Invalidate(ctx, cache.HomeKey)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	query := func() error {
		return r.withRelations(r.applyPostDetails(r.db.WithContext(ctx), currentUserID)).
			First(&post, id).Error
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, query)
	} else {
		err = query()
	}
	if err != nil {
		return nil, translate(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translate(err, "Post", id)
	}
	return count > 0, nil
}

// List returns posts newest first.
func (r *postRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	limit, offset = clampPage(limit, offset)
	var posts []*models.Post
	err := r.withRelations(r.applyPostDetails(r.db.WithContext(ctx), currentUserID)).
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, translate(err, "Post", nil)
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&n).Error; err != nil {
		return 0, translate(err, "Post", nil)
	}
	return n, nil
}

// Recent returns the home page posts. The result is shared by all visitors,
// so liked flags are never set.
func (r *postRepository) Recent(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := cache.Aside(ctx, cache.HomeKey, &posts, cache.ListTTL, func() error {
		return r.withRelations(r.applyPostDetails(r.db.WithContext(ctx), 0)).
			Order("posts.created_at DESC").
			Order("posts.id DESC").
			Limit(HomePostLimit).
			Find(&posts).Error
	})
	if err != nil {
		return nil, translate(err, "Post", nil)
	}
	return posts, nil
}

func (r *postRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Categories").Preload("Tags")
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

// Update saves the post's own columns. Non-nil categories or tags replace the
// current associations; nil leaves them alone. The author column is never written.
func (r *postRepository) Update(ctx context.Context, post *models.Post, categories []models.Category, tags []models.Tag) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{ID: post.ID}).
			Select("title", "content", "image_url", "image_key", "updated_at").
			Updates(map[string]any{
				"title":      post.Title,
				"content":    post.Content,
				"image_url":  post.ImageURL,
				"image_key":  post.ImageKey,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}
		if categories != nil {
			if err := tx.Model(post).Association("Categories").Replace(categories); err != nil {
				return err
			}
		}
		if tags != nil {
			if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translate(err, "Post", post.ID)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete removes a post with its comments, likes and category/tag links in
// one transaction. Foreign keys cascade too, but not every driver enforces them.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_categories WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return translate(err, "Post", id)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// ResolveCategories finds or creates a category per distinct, non-blank name.
func (r *postRepository) ResolveCategories(ctx context.Context, names []string) ([]models.Category, error) {
	out := make([]models.Category, 0, len(names))
	for _, name := range distinctNames(names) {
		c := models.Category{Name: name}
		if err := findOrCreate(r.db.WithContext(ctx), &c, "name = ?", name); err != nil {
			return nil, translate(err, "Category", name)
		}
		out = append(out, c)
	}
	return out, nil
}

// ResolveTags finds or creates a tag per distinct, non-blank name.
func (r *postRepository) ResolveTags(ctx context.Context, names []string) ([]models.Tag, error) {
	out := make([]models.Tag, 0, len(names))
	for _, name := range distinctNames(names) {
		t := models.Tag{Name: name}
		if err := findOrCreate(r.db.WithContext(ctx), &t, "name = ?", name); err != nil {
			return nil, translate(err, "Tag", name)
		}
		out = append(out, t)
	}
	return out, nil
}

// findOrCreate loads the row matching cond into dest or inserts dest. A
// concurrent insert of the same name loses the race and re-reads the winner.
func findOrCreate(db *gorm.DB, dest any, cond string, args ...any) error {
	err := db.Where(cond, args...).FirstOrCreate(dest).Error
	if err != nil && database.IsUniqueViolation(err) {
		return db.Where(cond, args...).First(dest).Error
	}
	return err
}

func distinctNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}

// ToggleLike flips the user's like on a post and reports whether the post is
// now liked. The delete runs first: if it removed a row the post was liked.
// Otherwise a like is inserted, and a unique violation from a concurrent
// toggle counts as liked.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	db := r.db.WithContext(ctx)

	res := db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
	if res.Error != nil {
		return false, translate(res.Error, "Like", postID)
	}
	if res.RowsAffected > 0 {
		cache.InvalidatePost(ctx, postID)
		return false, nil
	}

	if err := db.Create(&models.Like{UserID: userID, PostID: postID}).Error; err != nil {
		if !database.IsUniqueViolation(err) {
			return false, translate(err, "Like", postID)
		}
	}
	cache.InvalidatePost(ctx, postID)
	return true, nil
}

func (r *postRepository) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, translate(err, "Like", postID)
	}
	return count, nil
}
