package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/YNikhil188/BugCrew/logging"
	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectService struct {
	projects store.Projects
	users    store.Users
	dispatch *Dispatcher
	now      clock
}

func NewProjectService(projects store.Projects, users store.Users, dispatch *Dispatcher) *ProjectService {
	return &ProjectService{projects: projects, users: users, dispatch: dispatch, now: time.Now}
}

type ProjectInput struct {
	Name        string
	Description string
	Manager     *primitive.ObjectID
	Status      models.ProjectStatus
	Priority    models.Priority
	Progress    int
	StartDate   *time.Time
	EndDate     *time.Time
}

// ProjectUpdate holds the writable fields; nil fields are left alone.
type ProjectUpdate struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
	Priority    *models.Priority
	Progress    *int
	StartDate   *time.Time
	EndDate     *time.Time
}

func validProgress(p int) error {
	if p < 0 || p > 100 {
		return models.Validation("progress must be between 0 and 100")
	}
	return nil
}

func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "project")
	}
	return p, nil
}

// Create makes a manager caller the project's manager. Any other caller
// must name an existing manager.
func (s *ProjectService) Create(ctx context.Context, actor models.Actor, in ProjectInput) (*models.Project, error) {
	name, err := required(in.Name, "name")
	if err != nil {
		return nil, err
	}
	description, err := required(in.Description, "description")
	if err != nil {
		return nil, err
	}

	var manager primitive.ObjectID
	switch {
	case actor.Is(models.RoleManager):
		manager = actor.ID
	case in.Manager == nil:
		return nil, models.Validation("manager is required")
	default:
		u, err := s.users.GetByID(ctx, *in.Manager)
		if err != nil {
			return nil, lookup(err, "manager")
		}
		if u.Role != models.RoleManager {
			return nil, models.Validation("user %s is not a manager", u.ID.Hex())
		}
		manager = u.ID
	}

	status := in.Status
	if status == "" {
		status = models.ProjectPlanning
	}
	if !status.Valid() {
		return nil, models.Validation("invalid project status %q", status)
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, models.Validation("invalid priority %q", priority)
	}
	if err := validProgress(in.Progress); err != nil {
		return nil, err
	}

	now := s.now()
	start := now
	if in.StartDate != nil {
		start = *in.StartDate
	}
	if in.EndDate != nil && in.EndDate.Before(start) {
		return nil, models.Validation("end date is before start date")
	}
	p := &models.Project{
		Name:        name,
		Description: description,
		Manager:     manager,
		Team:        []models.TeamMember{},
		Status:      status,
		Priority:    priority,
		Progress:    in.Progress,
		StartDate:   start,
		EndDate:     in.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	logging.Logger.Infof("Event ID: CREATE_PROJECT_SUCCESS, Description: Project '%s' (%s) created by %s", p.Name, p.ID.Hex(), actor.ID.Hex())
	return p, nil
}

// Update lets managers edit any project and developers only the ones they
// are on the team of.
func (s *ProjectService) Update(ctx context.Context, actor models.Actor, id primitive.ObjectID, upd ProjectUpdate) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "project")
	}
	if actor.Is(models.RoleDeveloper) && !p.HasMember(actor.ID) {
		return nil, models.Forbidden("developers can only update projects they are assigned to")
	}

	if upd.Name != nil {
		if p.Name, err = required(*upd.Name, "name"); err != nil {
			return nil, err
		}
	}
	if upd.Description != nil {
		if p.Description, err = required(*upd.Description, "description"); err != nil {
			return nil, err
		}
	}
	if upd.Status != nil {
		if !upd.Status.Valid() {
			return nil, models.Validation("invalid project status %q", *upd.Status)
		}
		p.Status = *upd.Status
	}
	if upd.Priority != nil {
		if !upd.Priority.Valid() {
			return nil, models.Validation("invalid priority %q", *upd.Priority)
		}
		p.Priority = *upd.Priority
	}
	if upd.Progress != nil {
		if err := validProgress(*upd.Progress); err != nil {
			return nil, err
		}
		p.Progress = *upd.Progress
	}
	if upd.StartDate != nil {
		p.StartDate = *upd.StartDate
	}
	if upd.EndDate != nil {
		p.EndDate = upd.EndDate
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return nil, models.Validation("end date is before start date")
	}

	p.UpdatedAt = s.now()
	stored, err := s.projects.Update(ctx, p)
	if err != nil {
		return nil, lookup(err, "project")
	}
	logging.Logger.Infof("Event ID: UPDATE_PROJECT_SUCCESS, Description: Project %s updated by %s", id.Hex(), actor.ID.Hex())
	return stored, nil
}

// View expands the manager and every team member.
func (s *ProjectService) View(ctx context.Context, p *models.Project) models.ProjectView {
	return newResolver(s.users, s.projects).projectView(ctx, p)
}

func (s *ProjectService) Views(ctx context.Context, projects []models.Project) []models.ProjectView {
	r := newResolver(s.users, s.projects)
	out := make([]models.ProjectView, 0, len(projects))
	for i := range projects {
		out = append(out, r.projectView(ctx, &projects[i]))
	}
	return out
}

func (s *ProjectService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return lookup(err, "project")
	}
	logging.Logger.Infof("Event ID: DELETE_PROJECT_SUCCESS, Description: Project %s deleted", id.Hex())
	return nil
}

// AddTeamMember puts a developer or tester on the team. The team role
// defaults to the user's own role.
func (s *ProjectService) AddTeamMember(ctx context.Context, projectID, userID primitive.ObjectID, role models.Role, sendEmail bool) (*models.Project, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, lookup(err, "project")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookup(err, "user")
	}
	if user.Role != models.RoleDeveloper && user.Role != models.RoleTester {
		return nil, models.Validation("only developers and testers can join a project team")
	}
	role = models.Role(strings.TrimSpace(string(role)))
	if role == "" {
		role = user.Role
	}
	if role != models.RoleDeveloper && role != models.RoleTester {
		return nil, models.Validation("team role must be developer or tester")
	}

	p, err := s.projects.AddTeamMember(ctx, projectID, models.TeamMember{User: userID, Role: role})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, models.Conflict("user is already a team member")
	}
	if err != nil {
		return nil, lookup(err, "project")
	}
	logging.Logger.Infof("Event ID: ADD_TEAM_MEMBER_SUCCESS, Description: User %s joined project %s as %s", userID.Hex(), projectID.Hex(), role)

	s.dispatch.ProjectAssigned(ctx, p, user, role, sendEmail)
	return p, nil
}

// RemoveTeamMember succeeds whether or not the user was on the team.
func (s *ProjectService) RemoveTeamMember(ctx context.Context, projectID, userID primitive.ObjectID) (*models.Project, error) {
	p, err := s.projects.RemoveTeamMember(ctx, projectID, userID)
	if err != nil {
		return nil, lookup(err, "project")
	}
	logging.Logger.Infof("Event ID: REMOVE_TEAM_MEMBER_SUCCESS, Description: User %s removed from project %s", userID.Hex(), projectID.Hex())
	return p, nil
}
