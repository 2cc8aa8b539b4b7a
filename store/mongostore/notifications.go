package mongostore

import (
	"context"

	"github.com/YNikhil188/BugCrew/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Notifications struct {
	c *mongo.Collection
}

func ownedBy(recipient, id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "recipient": recipient}
}

func (s *Notifications) Create(ctx context.Context, n *models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	_, err := s.c.InsertOne(ctx, n)
	return translate(err)
}

func (s *Notifications) ListByRecipient(ctx context.Context, recipient primitive.ObjectID, skip, limit int) ([]models.Notification, error) {
	opts := options.Find().SetSort(newestFirst()).SetSkip(int64(skip))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return findAll[models.Notification](ctx, s.c, bson.M{"recipient": recipient}, opts)
}

func (s *Notifications) Count(ctx context.Context, recipient primitive.ObjectID, unreadOnly bool) (int64, error) {
	filter := bson.M{"recipient": recipient}
	if unreadOnly {
		filter["isRead"] = false
	}
	return s.c.CountDocuments(ctx, filter)
}

func (s *Notifications) MarkRead(ctx context.Context, recipient, id primitive.ObjectID) (*models.Notification, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var n models.Notification
	err := s.c.FindOneAndUpdate(ctx, ownedBy(recipient, id), bson.M{"$set": bson.M{"isRead": true}}, opts).Decode(&n)
	if err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

func (s *Notifications) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"recipient": recipient, "isRead": false},
		bson.M{"$set": bson.M{"isRead": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Notifications) Delete(ctx context.Context, recipient, id primitive.ObjectID) error {
	return deleteOne(ctx, s.c, ownedBy(recipient, id))
}
