package service

import (
	"context"
	"strings"

	"folio/internal/models"
	"folio/internal/notifications"
	"folio/internal/repository"
	"folio/internal/validation"
)

const (
	maxTitleLen = 100
	// DefaultPageSize is used when a list request names no limit.
	DefaultPageSize = 10
)

type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	images      *ImageService
	events      EventPublisher
}

type CreatePostInput struct {
	UserID     uint
	Title      string
	Content    string
	Categories []string
	Tags       []string
	Image      []byte
}

// UpdatePostInput replaces the editable fields. Nil Categories or Tags keep
// the current ones; a nil Image keeps the current image.
type UpdatePostInput struct {
	UserID      uint
	PostID      uint
	Title       string
	Content     string
	Categories  []string
	Tags        []string
	Image       []byte
	RemoveImage bool
}

type ListPostsInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
}

// PostPage is one page of the post list.
type PostPage struct {
	Posts  []*models.Post `json:"posts"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// PostDetail is a post with its comments, newest first.
type PostDetail struct {
	*models.Post
	Comments []*models.Comment `json:"comments"`
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	images *ImageService,
	events EventPublisher,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		images:      images,
		events:      publisherOrNoop(events),
	}
}

func validatePost(title, content string) validation.Fields {
	fields := validation.Fields{}
	fields.Required("title", title)
	fields.MaxLen("title", title, maxTitleLen)
	fields.Required("content", content)
	return fields
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	in.Title = strings.TrimSpace(in.Title)
	if fields := validatePost(in.Title, in.Content); !fields.OK() {
		return nil, models.NewFieldErrors(fields)
	}

	categories, err := s.postRepo.ResolveCategories(ctx, in.Categories)
	if err != nil {
		return nil, err
	}
	tags, err := s.postRepo.ResolveTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		UserID:     in.UserID,
		Categories: categories,
		Tags:       tags,
	}
	if len(in.Image) > 0 {
		img, err := s.storeImage(ctx, in.UserID, in.Image)
		if err != nil {
			return nil, err
		}
		post.ImageURL, post.ImageKey = img.URL, img.Key
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		s.removeImage(ctx, post.ImageKey)
		return nil, err
	}

	s.events.PublishEvent(ctx, notifications.EventPostCreated, map[string]any{
		"post_id": post.ID,
		"title":   post.Title,
		"user_id": post.UserID,
	})
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) (*PostPage, error) {
	if in.Limit <= 0 {
		in.Limit = DefaultPageSize
	}
	posts, err := s.postRepo.List(ctx, in.Limit, in.Offset, in.CurrentUserID)
	if err != nil {
		return nil, err
	}
	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Total: total, Limit: in.Limit, Offset: in.Offset}, nil
}

// Home returns the most recent posts for the landing page.
func (s *PostService) Home(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.Recent(ctx)
}

func (s *PostService) GetPost(ctx context.Context, id uint, currentUserID uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments}, nil
}

// UpdatePost lets the author edit a post. The author itself never changes.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own posts")
	}

	in.Title = strings.TrimSpace(in.Title)
	if fields := validatePost(in.Title, in.Content); !fields.OK() {
		return nil, models.NewFieldErrors(fields)
	}

	var categories []models.Category
	if in.Categories != nil {
		if categories, err = s.postRepo.ResolveCategories(ctx, in.Categories); err != nil {
			return nil, err
		}
	}
	var tags []models.Tag
	if in.Tags != nil {
		if tags, err = s.postRepo.ResolveTags(ctx, in.Tags); err != nil {
			return nil, err
		}
	}

	oldKey := post.ImageKey
	post.Title = in.Title
	post.Content = in.Content
	switch {
	case len(in.Image) > 0:
		img, err := s.storeImage(ctx, in.UserID, in.Image)
		if err != nil {
			return nil, err
		}
		post.ImageURL, post.ImageKey = img.URL, img.Key
	case in.RemoveImage:
		post.ImageURL, post.ImageKey = "", ""
	}

	if err := s.postRepo.Update(ctx, post, categories, tags); err != nil {
		if post.ImageKey != oldKey {
			s.removeImage(ctx, post.ImageKey)
		}
		return nil, err
	}
	if post.ImageKey != oldKey {
		s.removeImage(ctx, oldKey)
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// DeletePost removes an author's post with its comments and likes.
func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	s.removeImage(ctx, post.ImageKey)
	s.events.PublishEvent(ctx, notifications.EventPostDeleted, map[string]any{"post_id": postID})
	return nil
}

func (s *PostService) storeImage(ctx context.Context, userID uint, content []byte) (*StoredImage, error) {
	if s.images == nil {
		return nil, models.NewValidationError("Image uploads are not enabled")
	}
	img, err := s.images.StorePostImage(ctx, userID, content)
	if err != nil {
		if models.IsCode(err, models.CodeValidation) {
			return nil, models.NewFieldErrors(map[string]string{"image": err.Error()})
		}
		return nil, err
	}
	return img, nil
}

func (s *PostService) removeImage(ctx context.Context, key string) {
	if s.images != nil {
		s.images.Remove(ctx, key)
	}
}
