package mongostore

import (
	"context"
	"time"

	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Projects struct {
	c *mongo.Collection
}

func (s *Projects) Create(ctx context.Context, project *models.Project) error {
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	if project.Team == nil {
		project.Team = []models.TeamMember{}
	}
	_, err := s.c.InsertOne(ctx, project)
	return translate(err)
}

func (s *Projects) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	if err := s.c.FindOne(ctx, byID(id)).Decode(&project); err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (s *Projects) List(ctx context.Context) ([]models.Project, error) {
	return findAll[models.Project](ctx, s.c, bson.M{}, options.Find().SetSort(newestFirst()))
}

// detailsUpdate sets every editable field and leaves the team alone, so a
// concurrent $push or $pull on it survives the write.
func detailsUpdate(p *models.Project) bson.M {
	set := bson.M{
		"name":        p.Name,
		"description": p.Description,
		"manager":     p.Manager,
		"status":      p.Status,
		"priority":    p.Priority,
		"progress":    p.Progress,
		"startDate":   p.StartDate,
		"updatedAt":   p.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if p.EndDate != nil {
		set["endDate"] = *p.EndDate
	} else {
		update["$unset"] = bson.M{"endDate": ""}
	}
	return update
}

func (s *Projects) Update(ctx context.Context, project *models.Project) (*models.Project, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var stored models.Project
	if err := s.c.FindOneAndUpdate(ctx, byID(project.ID), detailsUpdate(project), opts).Decode(&stored); err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

// addMemberFilter only matches the project while the user is absent from its
// team, so the push and the uniqueness check happen in one write.
func addMemberFilter(projectID, userID primitive.ObjectID) bson.M {
	return bson.M{"_id": projectID, "team.user": bson.M{"$ne": userID}}
}

func (s *Projects) AddTeamMember(ctx context.Context, projectID primitive.ObjectID, member models.TeamMember) (*models.Project, error) {
	update := bson.M{
		"$push": bson.M{"team": member},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var project models.Project
	err := s.c.FindOneAndUpdate(ctx, addMemberFilter(projectID, member.User), update, opts).Decode(&project)
	if err == nil {
		return &project, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	// Nothing matched: either the project is gone or the user is already on it.
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return nil, store.ErrDuplicate
}

func (s *Projects) RemoveTeamMember(ctx context.Context, projectID, userID primitive.ObjectID) (*models.Project, error) {
	update := bson.M{
		"$pull": bson.M{"team": bson.M{"user": userID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var project models.Project
	if err := s.c.FindOneAndUpdate(ctx, byID(projectID), update, opts).Decode(&project); err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (s *Projects) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteOne(ctx, s.c, byID(id))
}
