package services

import (
	"context"
	"errors"

	"github.com/YNikhil188/BugCrew/logging"
	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// resolver expands the ids a record holds into summaries, looking each one
// up once per response.
type resolver struct {
	users    store.Users
	projects store.Projects
	people   map[primitive.ObjectID]models.UserSummary
	named    map[primitive.ObjectID]models.ProjectSummary
}

func newResolver(users store.Users, projects store.Projects) *resolver {
	return &resolver{
		users:    users,
		projects: projects,
		people:   make(map[primitive.ObjectID]models.UserSummary),
		named:    make(map[primitive.ObjectID]models.ProjectSummary),
	}
}

func (r *resolver) user(ctx context.Context, id primitive.ObjectID) models.UserSummary {
	if s, ok := r.people[id]; ok {
		return s
	}
	s := models.UserSummary{ID: id}
	u, err := r.users.GetByID(ctx, id)
	switch {
	case err == nil:
		s = u.Summary()
	case !errors.Is(err, store.ErrNotFound):
		logging.Logger.Warnf("Event ID: RESOLVE_USER_FAILED, Description: Could not load user %s: %v", id.Hex(), err)
	}
	r.people[id] = s
	return s
}

func (r *resolver) project(ctx context.Context, id primitive.ObjectID) models.ProjectSummary {
	if s, ok := r.named[id]; ok {
		return s
	}
	s := models.ProjectSummary{ID: id}
	p, err := r.projects.GetByID(ctx, id)
	switch {
	case err == nil:
		s.Name = p.Name
	case !errors.Is(err, store.ErrNotFound):
		logging.Logger.Warnf("Event ID: RESOLVE_PROJECT_FAILED, Description: Could not load project %s: %v", id.Hex(), err)
	}
	r.named[id] = s
	return s
}

func (r *resolver) bug(ctx context.Context, b *models.Bug) models.BugView {
	v := models.BugView{
		Bug:      *b,
		Project:  r.project(ctx, b.Project),
		Reporter: r.user(ctx, b.Reporter),
	}
	if b.AssignedTo != nil {
		assignee := r.user(ctx, *b.AssignedTo)
		v.AssignedTo = &assignee
	}
	return v
}

func (r *resolver) projectView(ctx context.Context, p *models.Project) models.ProjectView {
	v := models.ProjectView{
		Project: *p,
		Manager: r.user(ctx, p.Manager),
		Team:    make([]models.TeamMemberView, 0, len(p.Team)),
	}
	for _, m := range p.Team {
		v.Team = append(v.Team, models.TeamMemberView{User: r.user(ctx, m.User), Role: m.Role})
	}
	return v
}

func (r *resolver) comment(ctx context.Context, c *models.Comment) models.CommentView {
	return models.CommentView{Comment: *c, User: r.user(ctx, c.User)}
}

func (r *resolver) message(ctx context.Context, m *models.Message) models.MessageView {
	return models.MessageView{Message: *m, Sender: r.user(ctx, m.Sender), Receiver: r.user(ctx, m.Receiver)}
}
