package mongostore

import (
	"context"
	"strings"

	"github.com/YNikhil188/BugCrew/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Users struct {
	c *mongo.Collection
}

func (s *Users) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := s.c.InsertOne(ctx, user)
	return translate(err)
}

func (s *Users) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	if err := s.c.FindOne(ctx, byID(id)).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetByEmail relies on emails being stored lower-cased.
func (s *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.c.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Users) List(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, s.c, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (s *Users) ListByRole(ctx context.Context, role models.Role, activeOnly bool) ([]models.User, error) {
	filter := bson.M{"role": role}
	if activeOnly {
		filter["isActive"] = true
	}
	return findAll[models.User](ctx, s.c, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (s *Users) Update(ctx context.Context, user *models.User) error {
	return replace(ctx, s.c, user.ID, user)
}

func (s *Users) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.c, byID(id))
}
