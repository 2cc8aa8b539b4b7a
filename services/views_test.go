package services

import (
	"context"
	"testing"

	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type countingUsers struct {
	store.Users
	loads int
}

func (c *countingUsers) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	c.loads++
	return c.Users.GetByID(ctx, id)
}

func TestBugViewExpandsReferences(t *testing.T) {
	f := newFixture(t)
	manager := f.user(t, "mona", models.RoleManager)
	tester := f.user(t, "tess", models.RoleTester)
	dev := f.user(t, "dave", models.RoleDeveloper)
	p := f.project(t, manager)
	bug := f.bug(t, tester, p)

	v := f.bugs.View(f.ctx, bug)
	if v.Project.ID != p.ID || v.Project.Name != "Portal" {
		t.Fatalf("project = %+v", v.Project)
	}
	if v.Reporter.ID != tester.ID || v.Reporter.Name != "tess" || v.Reporter.Email != "tess@example.com" {
		t.Fatalf("reporter = %+v", v.Reporter)
	}
	if v.AssignedTo != nil {
		t.Fatalf("unassigned bug has assignee %+v", v.AssignedTo)
	}

	assigned, err := f.bugs.Assign(f.ctx, manager, bug.ID, dev.ID, false)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	v = f.bugs.View(f.ctx, assigned)
	if v.AssignedTo == nil || v.AssignedTo.Name != "dave" || v.AssignedTo.Role != models.RoleDeveloper {
		t.Fatalf("assignee = %+v", v.AssignedTo)
	}
}

func TestViewsFallBackToBareIDs(t *testing.T) {
	f := newFixture(t)
	manager := f.user(t, "mona", models.RoleManager)
	tester := f.user(t, "tess", models.RoleTester)
	p := f.project(t, manager)
	bug := f.bug(t, tester, p)

	if err := f.store.Users.Delete(f.ctx, tester.ID); err != nil {
		t.Fatal(err)
	}
	if err := f.store.Projects.Delete(f.ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	v := f.bugs.View(f.ctx, bug)
	if v.Reporter != (models.UserSummary{ID: tester.ID}) {
		t.Fatalf("reporter = %+v, want id only", v.Reporter)
	}
	if v.Project != (models.ProjectSummary{ID: p.ID}) {
		t.Fatalf("project = %+v, want id only", v.Project)
	}
}

func TestProjectViewsLoadEachUserOnce(t *testing.T) {
	f := newFixture(t)
	manager := f.user(t, "mona", models.RoleManager)
	dev := f.user(t, "dave", models.RoleDeveloper)
	tester := f.user(t, "tess", models.RoleTester)
	for i := 0; i < 2; i++ {
		p := f.project(t, manager)
		for _, member := range []models.Actor{dev, tester} {
			if _, err := f.projects.AddTeamMember(f.ctx, p.ID, member.ID, "", false); err != nil {
				t.Fatal(err)
			}
		}
	}
	projects, err := f.projects.List(f.ctx)
	if err != nil {
		t.Fatal(err)
	}

	users := &countingUsers{Users: f.store.Users}
	svc := NewProjectService(f.store.Projects, users, nil)
	views := svc.Views(f.ctx, projects)
	if len(views) != 2 {
		t.Fatalf("got %d views", len(views))
	}
	for _, v := range views {
		if v.Manager.Name != "mona" || len(v.Team) != 2 || v.Team[0].User.Name != "dave" || v.Team[1].Role != models.RoleTester {
			t.Fatalf("view = %+v", v)
		}
	}
	if users.loads != 3 {
		t.Fatalf("user loads = %d, want 3", users.loads)
	}
}

func TestCommentAndMessageViews(t *testing.T) {
	f := newFixture(t)
	manager := f.user(t, "mona", models.RoleManager)
	tester := f.user(t, "tess", models.RoleTester)
	dev := f.user(t, "dave", models.RoleDeveloper)
	bug := f.bug(t, tester, f.project(t, manager))

	c, err := f.comments.Create(f.ctx, dev, bug.ID, "on it", nil)
	if err != nil {
		t.Fatal(err)
	}
	if v := f.comments.View(f.ctx, c); v.User.Name != "dave" || v.Content != "on it" {
		t.Fatalf("comment view = %+v", v)
	}

	m, err := f.messages.Send(f.ctx, tester, dev.ID, "ping")
	if err != nil {
		t.Fatal(err)
	}
	views := f.messages.Views(f.ctx, []models.Message{*m})
	if len(views) != 1 || views[0].Sender.Name != "tess" || views[0].Receiver.Name != "dave" || views[0].Content != "ping" {
		t.Fatalf("message views = %+v", views)
	}
}
