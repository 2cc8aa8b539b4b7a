package services

import (
	"context"
	"fmt"
	"time"

	"github.com/YNikhil188/BugCrew/logging"
	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentService struct {
	comments store.Comments
	bugs     store.Bugs
	users    store.Users
	now      clock
}

func NewCommentService(comments store.Comments, bugs store.Bugs, users store.Users) *CommentService {
	return &CommentService{comments: comments, bugs: bugs, users: users, now: time.Now}
}

func (s *CommentService) View(ctx context.Context, c *models.Comment) models.CommentView {
	return newResolver(s.users, nil).comment(ctx, c)
}

func (s *CommentService) Views(ctx context.Context, comments []models.Comment) []models.CommentView {
	r := newResolver(s.users, nil)
	out := make([]models.CommentView, 0, len(comments))
	for i := range comments {
		out = append(out, r.comment(ctx, &comments[i]))
	}
	return out
}

func (s *CommentService) ListByBug(ctx context.Context, bugID primitive.ObjectID) ([]models.Comment, error) {
	if _, err := s.bugs.GetByID(ctx, bugID); err != nil {
		return nil, lookup(err, "bug")
	}
	comments, err := s.comments.ListByBug(ctx, bugID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) Create(ctx context.Context, actor models.Actor, bugID primitive.ObjectID, content string, attachments []string) (*models.Comment, error) {
	content, err := required(content, "content")
	if err != nil {
		return nil, err
	}
	if _, err := s.bugs.GetByID(ctx, bugID); err != nil {
		return nil, lookup(err, "bug")
	}
	if attachments == nil {
		attachments = []string{}
	}
	now := s.now()
	c := &models.Comment{
		Bug:         bugID,
		User:        actor.ID,
		Content:     content,
		Attachments: attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	logging.Logger.Infof("Event ID: CREATE_COMMENT_SUCCESS, Description: Comment %s added to bug %s by %s", c.ID.Hex(), bugID.Hex(), actor.ID.Hex())
	return c, nil
}

// owned loads the comment and checks the caller wrote it or is an admin.
func (s *CommentService) owned(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.Comment, error) {
	c, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "comment")
	}
	if c.User != actor.ID && !actor.Is(models.RoleAdmin) {
		return nil, models.Forbidden("not authorized to change this comment")
	}
	return c, nil
}

func (s *CommentService) Update(ctx context.Context, actor models.Actor, id primitive.ObjectID, content string) (*models.Comment, error) {
	content, err := required(content, "content")
	if err != nil {
		return nil, err
	}
	c, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	c.Content = content
	c.UpdatedAt = s.now()
	if err := s.comments.Update(ctx, c); err != nil {
		return nil, lookup(err, "comment")
	}
	return c, nil
}

// Delete removes the comment and returns it so the caller can drop its
// attachments.
func (s *CommentService) Delete(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.Comment, error) {
	c, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return nil, lookup(err, "comment")
	}
	logging.Logger.Infof("Event ID: DELETE_COMMENT_SUCCESS, Description: Comment %s deleted by %s", id.Hex(), actor.ID.Hex())
	return c, nil
}
