package mongostore

import (
	"context"

	"github.com/YNikhil188/BugCrew/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Comments struct {
	c *mongo.Collection
}

func (s *Comments) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	if comment.Attachments == nil {
		comment.Attachments = []string{}
	}
	_, err := s.c.InsertOne(ctx, comment)
	return translate(err)
}

func (s *Comments) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := s.c.FindOne(ctx, byID(id)).Decode(&comment); err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (s *Comments) ListByBug(ctx context.Context, bugID primitive.ObjectID) ([]models.Comment, error) {
	return findAll[models.Comment](ctx, s.c, bson.M{"bug": bugID}, options.Find().SetSort(oldestFirst()))
}

func (s *Comments) Update(ctx context.Context, comment *models.Comment) error {
	return replace(ctx, s.c, comment.ID, comment)
}

func (s *Comments) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.c, byID(id))
}
