package services

import (
	"context"
	"strings"

	"bookshelf/database"
	"bookshelf/models"
	"bookshelf/permissions"
)

type CommentService struct {
	comments *database.Store[models.Comment]
	posts    *database.Store[models.Post]
	events   EventPublisher
}

func NewCommentService(posts *PostService, events EventPublisher) *CommentService {
	if events == nil {
		events = noopPublisher{}
	}
	return &CommentService{
		comments: database.NewStore[models.Comment](posts.db, "comment"),
		posts:    posts.posts,
		events:   events,
	}
}

func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	if _, err := s.posts.Get(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.List(ctx, database.Query{
		Filters:         map[string]interface{}{"post_id": postID},
		DefaultOrdering: "created_date,id",
		Preloads:        []string{"Author"},
	})
}

func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	return s.comments.Get(ctx, id, "Author")
}

// CreateComment records the caller as author and notifies the post's author.
func (s *CommentService) CreateComment(ctx context.Context, caller *permissions.Caller, postID uint, req *models.CreateCommentRequest) (*models.Comment, error) {
	if err := permissions.Check(caller, permissions.Authenticated()); err != nil {
		return nil, err
	}
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, models.NewFieldError("content", "This field may not be blank.")
	}

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: caller.UserID,
		Content:  content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.GetComment(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	s.events.Publish(models.EventCommentCreated, created)
	if post.AuthorID != caller.UserID {
		s.events.PublishToUser(post.AuthorID, models.EventCommentOnPost, created)
	}
	return created, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, caller *permissions.Caller, id uint, req *models.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := permissions.CheckOwner(caller, comment.AuthorID); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, models.NewFieldError("content", "This field may not be blank.")
	}

	if _, err := s.comments.Update(ctx, id, map[string]interface{}{"content": content}); err != nil {
		return nil, err
	}
	return s.GetComment(ctx, id)
}

func (s *CommentService) DeleteComment(ctx context.Context, caller *permissions.Caller, id uint) error {
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := permissions.CheckOwner(caller, comment.AuthorID); err != nil {
		return err
	}
	return s.comments.Delete(ctx, id)
}
