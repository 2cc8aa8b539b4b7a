package services

import (
	"context"
	"testing"

	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateProjectManagerRules(t *testing.T) {
	f := newFixture(t)
	manager := f.user(t, "mona", models.RoleManager)
	admin := f.user(t, "ada", models.RoleAdmin)
	dev := f.user(t, "dave", models.RoleDeveloper)

	p, err := f.projects.Create(f.ctx, manager, ProjectInput{Name: "Portal", Description: "d", Manager: &dev.ID})
	if err != nil {
		t.Fatal(err)
	}
	if p.Manager != manager.ID || p.Status != models.ProjectPlanning || p.Priority != models.PriorityMedium || p.Progress != 0 {
		t.Fatalf("project = %+v", p)
	}
	if p.StartDate.IsZero() {
		t.Fatal("start date not defaulted")
	}

	_, err = f.projects.Create(f.ctx, admin, ProjectInput{Name: "Ops", Description: "d"})
	wantCode(t, err, models.ErrorCodeValidation)
	_, err = f.projects.Create(f.ctx, admin, ProjectInput{Name: "Ops", Description: "d", Manager: &dev.ID})
	wantCode(t, err, models.ErrorCodeValidation)
	missing := primitive.NewObjectID()
	_, err = f.projects.Create(f.ctx, admin, ProjectInput{Name: "Ops", Description: "d", Manager: &missing})
	wantCode(t, err, models.ErrorCodeNotFound)

	named, err := f.projects.Create(f.ctx, admin, ProjectInput{Name: "Ops", Description: "d", Manager: &manager.ID})
	if err != nil || named.Manager != manager.ID {
		t.Fatalf("admin create: %+v %v", named, err)
	}

	_, err = f.projects.Create(f.ctx, manager, ProjectInput{Name: "Ops"})
	wantCode(t, err, models.ErrorCodeValidation)
	_, err = f.projects.Create(f.ctx, manager, ProjectInput{Name: "Ops", Description: "d", Progress: 120})
	wantCode(t, err, models.ErrorCodeValidation)
}

func TestAddTeamMemberIsUnique(t *testing.T) {
	f := newFixture(t)
	manager := f.user(t, "mona", models.RoleManager)
	dev := f.user(t, "dave", models.RoleDeveloper)
	p := f.project(t, manager)

	updated, err := f.projects.AddTeamMember(f.ctx, p.ID, dev.ID, "", true)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(updated.Team) != 1 || updated.Team[0].Role != models.RoleDeveloper {
		t.Fatalf("team = %+v", updated.Team)
	}

	_, err = f.projects.AddTeamMember(f.ctx, p.ID, dev.ID, models.RoleDeveloper, true)
	wantCode(t, err, models.ErrorCodeConflict)

	stored, _ := f.projects.Get(f.ctx, p.ID)
	if len(stored.Team) != 1 {
		t.Fatalf("duplicate add changed team: %+v", stored.Team)
	}
	if got := f.notificationsOf(t, dev.ID, models.NotificationProjectAssigned); len(got) != 1 {
		t.Fatalf("project_assigned notifications = %d, want 1", len(got))
	}
	emails := f.queue.sentTo(dev.Email)
	if len(emails) != 1 || emails[0].Subject != "New Project Assignment: Portal" {
		t.Fatalf("emails = %+v", emails)
	}
}

func TestAddTeamMemberChecksUser(t *testing.T) {
	f := newFixture(t)
	manager := f.user(t, "mona", models.RoleManager)
	other := f.user(t, "max", models.RoleManager)
	tester := f.user(t, "tess", models.RoleTester)
	p := f.project(t, manager)

	_, err := f.projects.AddTeamMember(f.ctx, p.ID, other.ID, "", true)
	wantCode(t, err, models.ErrorCodeValidation)
	_, err = f.projects.AddTeamMember(f.ctx, p.ID, primitive.NewObjectID(), "", true)
	wantCode(t, err, models.ErrorCodeNotFound)
	_, err = f.projects.AddTeamMember(f.ctx, primitive.NewObjectID(), tester.ID, "", true)
	wantCode(t, err, models.ErrorCodeNotFound)
	_, err = f.projects.AddTeamMember(f.ctx, p.ID, tester.ID, models.RoleManager, true)
	wantCode(t, err, models.ErrorCodeValidation)

	if _, err := f.projects.AddTeamMember(f.ctx, p.ID, tester.ID, "", false); err != nil {
		t.Fatal(err)
	}
	if got := f.notificationsOf(t, tester.ID, models.NotificationProjectAssigned); len(got) != 1 {
		t.Fatalf("notifications = %d, want 1", len(got))
	}
	if got := f.queue.sentTo(tester.Email); len(got) != 0 {
		t.Fatalf("suppressed email sent: %+v", got)
	}
}

func TestRemoveTeamMemberIsIdempotent(t *testing.T) {
	f := newFixture(t)
	manager := f.user(t, "mona", models.RoleManager)
	dev := f.user(t, "dave", models.RoleDeveloper)
	p := f.project(t, manager)
	if _, err := f.projects.AddTeamMember(f.ctx, p.ID, dev.ID, "", false); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		got, err := f.projects.RemoveTeamMember(f.ctx, p.ID, dev.ID)
		if err != nil {
			t.Fatalf("remove #%d: %v", i, err)
		}
		if len(got.Team) != 0 {
			t.Fatalf("team after remove = %+v", got.Team)
		}
	}
	_, err := f.projects.RemoveTeamMember(f.ctx, primitive.NewObjectID(), dev.ID)
	wantCode(t, err, models.ErrorCodeNotFound)
}

func TestDeveloperUpdatesOnlyOwnProjects(t *testing.T) {
	f := newFixture(t)
	manager := f.user(t, "mona", models.RoleManager)
	dev := f.user(t, "dave", models.RoleDeveloper)
	p := f.project(t, manager)

	_, err := f.projects.Update(f.ctx, dev, p.ID, ProjectUpdate{Progress: ptr(40)})
	wantCode(t, err, models.ErrorCodeForbidden)

	if _, err := f.projects.AddTeamMember(f.ctx, p.ID, dev.ID, "", false); err != nil {
		t.Fatal(err)
	}
	got, err := f.projects.Update(f.ctx, dev, p.ID, ProjectUpdate{Progress: ptr(40), Status: ptr(models.ProjectInProgress)})
	if err != nil {
		t.Fatalf("member update: %v", err)
	}
	if got.Progress != 40 || got.Status != models.ProjectInProgress {
		t.Fatalf("project = %+v", got)
	}

	_, err = f.projects.Update(f.ctx, manager, p.ID, ProjectUpdate{Status: ptr(models.ProjectStatus("archived"))})
	wantCode(t, err, models.ErrorCodeValidation)
	_, err = f.projects.Update(f.ctx, manager, p.ID, ProjectUpdate{Progress: ptr(-1)})
	wantCode(t, err, models.ErrorCodeValidation)
}

// joinOnLoad puts a member on the team right after the project is read,
// the way a concurrent team change would land between read and write.
type joinOnLoad struct {
	store.Projects
	join func()
}

func (j *joinOnLoad) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	p, err := j.Projects.GetByID(ctx, id)
	if j.join != nil {
		j.join()
		j.join = nil
	}
	return p, err
}

func TestUpdateDoesNotUndoConcurrentTeamChange(t *testing.T) {
	f := newFixture(t)
	manager := f.user(t, "mona", models.RoleManager)
	dev := f.user(t, "dave", models.RoleDeveloper)
	p := f.project(t, manager)

	racing := &joinOnLoad{Projects: f.store.Projects}
	racing.join = func() {
		if _, err := f.store.Projects.AddTeamMember(f.ctx, p.ID, models.TeamMember{User: dev.ID, Role: models.RoleDeveloper}); err != nil {
			t.Fatalf("add member: %v", err)
		}
	}
	svc := NewProjectService(racing, f.store.Users, nil)

	got, err := svc.Update(f.ctx, manager, p.ID, ProjectUpdate{Name: ptr("Portal v2")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Portal v2" || !got.HasMember(dev.ID) {
		t.Fatalf("updated project = %+v", got)
	}
	stored, _ := f.projects.Get(f.ctx, p.ID)
	if !stored.HasMember(dev.ID) {
		t.Fatalf("team member lost: %+v", stored.Team)
	}
}

func TestDeleteProject(t *testing.T) {
	f := newFixture(t)
	manager := f.user(t, "mona", models.RoleManager)
	p := f.project(t, manager)

	if err := f.projects.Delete(f.ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	_, err := f.projects.Get(f.ctx, p.ID)
	wantCode(t, err, models.ErrorCodeNotFound)
	wantCode(t, f.projects.Delete(f.ctx, p.ID), models.ErrorCodeNotFound)
}
