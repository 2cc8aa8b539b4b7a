package mongostore

import (
	"context"

	"github.com/YNikhil188/BugCrew/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Messages struct {
	c *mongo.Collection
}

func involving(userID primitive.ObjectID) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"sender": userID},
		bson.M{"receiver": userID},
	}}
}

func between(a, b primitive.ObjectID) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"sender": a, "receiver": b},
		bson.M{"sender": b, "receiver": a},
	}}
}

func (s *Messages) Create(ctx context.Context, msg *models.Message) error {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	_, err := s.c.InsertOne(ctx, msg)
	return translate(err)
}

func (s *Messages) ListInvolving(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	return findAll[models.Message](ctx, s.c, involving(userID), options.Find().SetSort(newestFirst()))
}

func (s *Messages) Thread(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	return findAll[models.Message](ctx, s.c, between(a, b), options.Find().SetSort(oldestFirst()))
}

func (s *Messages) MarkRead(ctx context.Context, sender, receiver primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"sender": sender, "receiver": receiver, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
