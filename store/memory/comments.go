package memory

import (
	"context"
	"slices"
	"time"

	"github.com/YNikhil188/BugCrew/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comments struct {
	t *table[models.Comment]
}

func NewComments() *Comments {
	return &Comments{t: newTable(func(c models.Comment) models.Comment {
		c.Attachments = slices.Clone(c.Attachments)
		if c.Attachments == nil {
			c.Attachments = []string{}
		}
		return c
	})}
}

func (s *Comments) Create(_ context.Context, comment *models.Comment) error {
	ensureID(&comment.ID)
	return s.t.insert(comment.ID, *comment)
}

func (s *Comments) GetByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	c, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Comments) ListByBug(_ context.Context, bugID primitive.ObjectID) ([]models.Comment, error) {
	comments := s.t.scan(func(c models.Comment) bool { return c.Bug == bugID })
	sortByTime(comments, func(c models.Comment) time.Time { return c.CreatedAt }, false)
	return comments, nil
}

func (s *Comments) Update(_ context.Context, comment *models.Comment) error {
	return s.t.replace(comment.ID, *comment)
}

func (s *Comments) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.t.remove(id)
}
