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

type BugService struct {
	bugs     store.Bugs
	projects store.Projects
	users    store.Users
	dispatch *Dispatcher
	now      clock
}

func NewBugService(bugs store.Bugs, projects store.Projects, users store.Users, dispatch *Dispatcher) *BugService {
	return &BugService{bugs: bugs, projects: projects, users: users, dispatch: dispatch, now: time.Now}
}

type CreateBugInput struct {
	Title            string
	Description      string
	Project          primitive.ObjectID
	Priority         models.Priority
	Severity         models.Severity
	Type             models.BugType
	StepsToReproduce string
	Environment      string
	Screenshots      []string
}

// BugUpdate holds the fields a developer may change; nil fields are left
// alone. The reporter, project and assignee are not part of it.
type BugUpdate struct {
	Title            *string
	Description      *string
	Status           *models.BugStatus
	Priority         *models.Priority
	Severity         *models.Severity
	Type             *models.BugType
	StepsToReproduce *string
	Environment      *string
}

func (s *BugService) Create(ctx context.Context, actor models.Actor, in CreateBugInput) (*models.Bug, error) {
	title, err := required(in.Title, "title")
	if err != nil {
		return nil, err
	}
	description, err := required(in.Description, "description")
	if err != nil {
		return nil, err
	}
	if in.Project.IsZero() {
		return nil, models.Validation("project is required")
	}
	project, err := s.projects.GetByID(ctx, in.Project)
	if err != nil {
		return nil, lookup(err, "project")
	}

	bug := &models.Bug{
		Title:            title,
		Description:      description,
		Project:          project.ID,
		Reporter:         actor.ID,
		Status:           models.BugOpen,
		Priority:         in.Priority,
		Severity:         in.Severity,
		Type:             in.Type,
		Screenshots:      in.Screenshots,
		StepsToReproduce: strings.TrimSpace(in.StepsToReproduce),
		Environment:      strings.TrimSpace(in.Environment),
	}
	if bug.Priority == "" {
		bug.Priority = models.PriorityMedium
	}
	if bug.Severity == "" {
		bug.Severity = models.SeverityMajor
	}
	if bug.Type == "" {
		bug.Type = models.TypeBug
	}
	if err := validateBugEnums(bug); err != nil {
		return nil, err
	}
	if bug.Screenshots == nil {
		bug.Screenshots = []string{}
	}
	now := s.now()
	bug.CreatedAt, bug.UpdatedAt = now, now

	if err := s.bugs.Create(ctx, bug); err != nil {
		return nil, fmt.Errorf("create bug: %w", err)
	}
	logging.Logger.Infof("Event ID: CREATE_BUG_SUCCESS, Description: Bug '%s' (%s) reported by %s in project %s", bug.Title, bug.ID.Hex(), actor.ID.Hex(), project.ID.Hex())

	if manager := s.projectManager(ctx, project); manager != nil {
		s.dispatch.BugCreated(ctx, bug, manager, actor.Name, project.Name)
	} else {
		logging.Logger.Warnf("Event ID: BUG_CREATED_NO_MANAGER, Description: No manager to notify about bug %s", bug.ID.Hex())
	}
	return bug, nil
}

// projectManager resolves the manager to tell about a new bug: the
// project's own manager, or the first active manager when that reference
// no longer resolves.
func (s *BugService) projectManager(ctx context.Context, project *models.Project) *models.User {
	u, err := s.users.GetByID(ctx, project.Manager)
	if err == nil {
		return u
	}
	if !errors.Is(err, store.ErrNotFound) {
		logging.Logger.Errorf("Event ID: LOAD_MANAGER_FAILED, Description: Could not load manager of project %s: %v", project.ID.Hex(), err)
		return nil
	}
	managers, err := s.users.ListByRole(ctx, models.RoleManager, true)
	if err != nil || len(managers) == 0 {
		return nil
	}
	logging.Logger.Warnf("Event ID: BUG_CREATED_MANAGER_FALLBACK, Description: Manager of project %s is gone, notifying %s instead", project.ID.Hex(), managers[0].ID.Hex())
	return &managers[0]
}

func validateBugEnums(b *models.Bug) error {
	if !b.Status.Valid() {
		return models.Validation("invalid status %q", b.Status)
	}
	if !b.Priority.Valid() {
		return models.Validation("invalid priority %q", b.Priority)
	}
	if !b.Severity.Valid() {
		return models.Validation("invalid severity %q", b.Severity)
	}
	if !b.Type.Valid() {
		return models.Validation("invalid type %q", b.Type)
	}
	return nil
}

// List scopes the listing by role: developers see their assignments,
// testers their reports, admins and managers everything.
func (s *BugService) List(ctx context.Context, actor models.Actor, project *primitive.ObjectID) ([]models.Bug, error) {
	filter := store.BugFilter{Project: project}
	switch actor.Role {
	case models.RoleDeveloper:
		id := actor.ID
		filter.AssignedTo = &id
	case models.RoleTester:
		id := actor.ID
		filter.Reporter = &id
	}
	bugs, err := s.bugs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bugs: %w", err)
	}
	return bugs, nil
}

func (s *BugService) Get(ctx context.Context, id primitive.ObjectID) (*models.Bug, error) {
	bug, err := s.bugs.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "bug")
	}
	return bug, nil
}

// Update applies a general field update. Any status value is accepted; the
// first move into resolved stamps resolvedAt and tells the reporter.
func (s *BugService) Update(ctx context.Context, actor models.Actor, id primitive.ObjectID, upd BugUpdate) (*models.Bug, error) {
	bug, err := s.bugs.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "bug")
	}
	previous := bug.Status

	if upd.Title != nil {
		if bug.Title, err = required(*upd.Title, "title"); err != nil {
			return nil, err
		}
	}
	if upd.Description != nil {
		if bug.Description, err = required(*upd.Description, "description"); err != nil {
			return nil, err
		}
	}
	if upd.Status != nil {
		bug.Status = *upd.Status
	}
	if upd.Priority != nil {
		bug.Priority = *upd.Priority
	}
	if upd.Severity != nil {
		bug.Severity = *upd.Severity
	}
	if upd.Type != nil {
		bug.Type = *upd.Type
	}
	if upd.StepsToReproduce != nil {
		bug.StepsToReproduce = strings.TrimSpace(*upd.StepsToReproduce)
	}
	if upd.Environment != nil {
		bug.Environment = strings.TrimSpace(*upd.Environment)
	}
	if err := validateBugEnums(bug); err != nil {
		return nil, err
	}

	now := s.now()
	resolved := bug.Status == models.BugResolved && previous != models.BugResolved
	if resolved {
		bug.ResolvedAt = timePtr(now)
	}
	bug.UpdatedAt = now
	if err := s.bugs.Update(ctx, bug); err != nil {
		return nil, lookup(err, "bug")
	}
	logging.Logger.Infof("Event ID: UPDATE_BUG_SUCCESS, Description: Bug %s updated by %s, status %s -> %s", id.Hex(), actor.ID.Hex(), previous, bug.Status)

	if resolved {
		reporter, err := s.users.GetByID(ctx, bug.Reporter)
		if err != nil {
			logging.Logger.Warnf("Event ID: BUG_RESOLVED_NO_REPORTER, Description: Reporter of bug %s not notified: %v", id.Hex(), err)
		} else {
			s.dispatch.BugResolved(ctx, bug, reporter, actor.Name, s.projectName(ctx, bug.Project))
		}
	}
	return bug, nil
}

func (s *BugService) projectName(ctx context.Context, id primitive.ObjectID) string {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return ""
	}
	return p.Name
}

// Assign hands the bug to a developer and moves it to in-progress. The
// in-app notification is always written; sendEmail gates only the email.
func (s *BugService) Assign(ctx context.Context, actor models.Actor, id, userID primitive.ObjectID, sendEmail bool) (*models.Bug, error) {
	bug, err := s.bugs.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "bug")
	}
	developer, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookup(err, "user")
	}
	if developer.Role != models.RoleDeveloper {
		return nil, models.Validation("bugs can only be assigned to developers")
	}

	assignee := developer.ID
	bug.AssignedTo = &assignee
	bug.Status = models.BugInProgress
	bug.UpdatedAt = s.now()
	if err := s.bugs.Update(ctx, bug); err != nil {
		return nil, lookup(err, "bug")
	}
	logging.Logger.Infof("Event ID: ASSIGN_BUG_SUCCESS, Description: Bug %s assigned to %s by %s", id.Hex(), userID.Hex(), actor.ID.Hex())

	s.dispatch.BugAssigned(ctx, bug, developer, s.projectName(ctx, bug.Project), sendEmail)
	return bug, nil
}

// Verify lets the reporting tester close a resolved bug or send it back.
func (s *BugService) Verify(ctx context.Context, actor models.Actor, id primitive.ObjectID, action models.VerifyAction) (*models.Bug, error) {
	bug, err := s.bugs.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "bug")
	}
	if bug.Reporter != actor.ID {
		return nil, models.Forbidden("only the reporter can verify this bug")
	}
	if bug.Status != models.BugResolved {
		return nil, models.Validation("bug must be resolved before verification")
	}

	now := s.now()
	switch action {
	case models.VerifyClose:
		bug.Status = models.BugClosed
		bug.ClosedAt = timePtr(now)
	case models.VerifyReopen:
		bug.Status = models.BugReopened
	default:
		return nil, models.Validation("invalid action %q, use \"close\" or \"reopen\"", action)
	}
	bug.UpdatedAt = now
	if err := s.bugs.Update(ctx, bug); err != nil {
		return nil, lookup(err, "bug")
	}
	logging.Logger.Infof("Event ID: VERIFY_BUG_SUCCESS, Description: Bug %s %s by %s", id.Hex(), bug.Status, actor.ID.Hex())

	if action == models.VerifyReopen && bug.AssignedTo != nil {
		developer, err := s.users.GetByID(ctx, *bug.AssignedTo)
		if err != nil {
			logging.Logger.Warnf("Event ID: BUG_REOPENED_NO_ASSIGNEE, Description: Assignee of bug %s not notified: %v", id.Hex(), err)
		} else {
			s.dispatch.BugReopened(ctx, bug, developer, actor.Name, s.projectName(ctx, bug.Project))
		}
	}
	return bug, nil
}

// View expands the bug's project, reporter and assignee.
func (s *BugService) View(ctx context.Context, bug *models.Bug) models.BugView {
	return newResolver(s.users, s.projects).bug(ctx, bug)
}

func (s *BugService) Views(ctx context.Context, bugs []models.Bug) []models.BugView {
	r := newResolver(s.users, s.projects)
	out := make([]models.BugView, 0, len(bugs))
	for i := range bugs {
		out = append(out, r.bug(ctx, &bugs[i]))
	}
	return out
}

func (s *BugService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.bugs.Delete(ctx, id); err != nil {
		return lookup(err, "bug")
	}
	logging.Logger.Infof("Event ID: DELETE_BUG_SUCCESS, Description: Bug %s deleted", id.Hex())
	return nil
}

func (s *BugService) Stats(ctx context.Context) (*models.BugStats, error) {
	byStatus, err := s.bugs.CountBy(ctx, "status")
	if err != nil {
		return nil, fmt.Errorf("count bugs by status: %w", err)
	}
	byPriority, err := s.bugs.CountBy(ctx, "priority")
	if err != nil {
		return nil, fmt.Errorf("count bugs by priority: %w", err)
	}
	return &models.BugStats{StatusStats: byStatus, PriorityStats: byPriority}, nil
}
