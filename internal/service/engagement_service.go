package service

import (
	"context"
	"strings"

	"folio/internal/models"
	"folio/internal/notifications"
	"folio/internal/observability"
	"folio/internal/repository"
	"folio/internal/validation"
)

const maxCommentLen = 10000

// EngagementService handles likes and comments on posts.
type EngagementService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	events      EventPublisher
}

type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

type AddCommentInput struct {
	UserID  uint
	PostID  uint
	Content string
}

func NewEngagementService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	events EventPublisher,
) *EngagementService {
	return &EngagementService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		events:      publisherOrNoop(events),
	}
}

func (s *EngagementService) requirePost(ctx context.Context, postID uint) error {
	ok, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}

// ToggleLike flips the user's like on a post.
func (s *EngagementService) ToggleLike(ctx context.Context, userID, postID uint) (*LikeResult, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	liked, err := s.postRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	count, err := s.postRepo.CountLikes(ctx, postID)
	if err != nil {
		return nil, err
	}

	state := "unliked"
	if liked {
		state = "liked"
	}
	observability.LikesToggled.WithLabelValues(state).Inc()

	s.events.PublishEvent(ctx, notifications.EventLikeToggled, map[string]any{
		"post_id":     postID,
		"user_id":     userID,
		"liked":       liked,
		"likes_count": count,
	})
	return &LikeResult{Liked: liked, LikesCount: count}, nil
}

// AddComment stores a trimmed, non-empty comment on an existing post.
func (s *EngagementService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	fields := validation.Fields{}
	fields.Required("content", content)
	fields.MaxLen("content", content, maxCommentLen)
	if !fields.OK() {
		return nil, models.NewFieldErrors(fields)
	}
	if err := s.requirePost(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{Content: content, UserID: in.UserID, PostID: in.PostID}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.events.PublishEvent(ctx, notifications.EventCommentCreated, map[string]any{
		"post_id":    in.PostID,
		"comment_id": comment.ID,
		"user_id":    in.UserID,
	})
	return comment, nil
}

func (s *EngagementService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}
