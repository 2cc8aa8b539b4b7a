package mongostore

import (
	"context"
	"fmt"

	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Bugs struct {
	c *mongo.Collection
}

func (s *Bugs) Create(ctx context.Context, bug *models.Bug) error {
	if bug.ID.IsZero() {
		bug.ID = primitive.NewObjectID()
	}
	if bug.Screenshots == nil {
		bug.Screenshots = []string{}
	}
	_, err := s.c.InsertOne(ctx, bug)
	return translate(err)
}

func (s *Bugs) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Bug, error) {
	var bug models.Bug
	if err := s.c.FindOne(ctx, byID(id)).Decode(&bug); err != nil {
		return nil, translate(err)
	}
	return &bug, nil
}

func bugFilterDocument(f store.BugFilter) bson.M {
	filter := bson.M{}
	if f.Project != nil {
		filter["project"] = *f.Project
	}
	if f.Reporter != nil {
		filter["reporter"] = *f.Reporter
	}
	if f.AssignedTo != nil {
		filter["assignedTo"] = *f.AssignedTo
	}
	return filter
}

func (s *Bugs) List(ctx context.Context, filter store.BugFilter) ([]models.Bug, error) {
	return findAll[models.Bug](ctx, s.c, bugFilterDocument(filter), options.Find().SetSort(newestFirst()))
}

func (s *Bugs) Update(ctx context.Context, bug *models.Bug) error {
	return replace(ctx, s.c, bug.ID, bug)
}

func (s *Bugs) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.c, byID(id))
}

func groupPipeline(field string) (mongo.Pipeline, error) {
	switch field {
	case "status", "priority":
	default:
		return nil, fmt.Errorf("unsupported group field %q", field)
	}
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}, nil
}

func (s *Bugs) CountBy(ctx context.Context, field string) ([]models.GroupCount, error) {
	pipeline, err := groupPipeline(field)
	if err != nil {
		return nil, err
	}
	cursor, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make([]models.GroupCount, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
