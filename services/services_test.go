package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/YNikhil188/BugCrew/mailer"
	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"
	"github.com/YNikhil188/BugCrew/store/memory"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingQueue struct {
	mu     sync.Mutex
	emails []mailer.Email
}

func (q *recordingQueue) Enqueue(e mailer.Email) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.emails = append(q.emails, e)
	return true
}

func (q *recordingQueue) sentTo(to string) []mailer.Email {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []mailer.Email
	for _, e := range q.emails {
		if e.To == to {
			out = append(out, e)
		}
	}
	return out
}

// stepClock advances one second per reading so records get distinct times.
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *stepClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

type fixture struct {
	ctx   context.Context
	store *store.Store
	queue *recordingQueue
	clock *stepClock

	notifications *NotificationService
	auth          *AuthService
	users         *UserService
	projects      *ProjectService
	bugs          *BugService
	comments      *CommentService
	messages      *MessageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	q := &recordingQueue{}
	c := &stepClock{cur: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}

	notifications := NewNotificationService(st.Notifications)
	dispatch := NewDispatcher(notifications, q, "http://app.test")
	jwt := NewJWTService("test-secret", time.Hour)
	f := &fixture{
		ctx:           context.Background(),
		store:         st,
		queue:         q,
		clock:         c,
		notifications: notifications,
		auth:          NewAuthService(st.Users, jwt, dispatch),
		users:         NewUserService(st.Users),
		projects:      NewProjectService(st.Projects, st.Users, dispatch),
		bugs:          NewBugService(st.Bugs, st.Projects, st.Users, dispatch),
		comments:      NewCommentService(st.Comments, st.Bugs, st.Users),
		messages:      NewMessageService(st.Messages, st.Users),
	}
	for _, now := range []*clock{&notifications.now, &jwt.now, &f.auth.now, &f.users.now, &f.projects.now, &f.bugs.now, &f.comments.now, &f.messages.now} {
		*now = c.now
	}
	return f
}

// user stores an active account directly and returns it as an actor.
func (f *fixture) user(t *testing.T, name string, role models.Role) models.Actor {
	t.Helper()
	u := &models.User{
		Name:      name,
		Email:     name + "@example.com",
		Password:  "unused",
		Role:      role,
		IsActive:  true,
		CreatedAt: f.clock.now(),
	}
	if err := f.store.Users.Create(f.ctx, u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return models.ActorFromUser(u)
}

func (f *fixture) project(t *testing.T, manager models.Actor) *models.Project {
	t.Helper()
	p, err := f.projects.Create(f.ctx, manager, ProjectInput{Name: "Portal", Description: "Customer portal"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func (f *fixture) bug(t *testing.T, reporter models.Actor, project *models.Project) *models.Bug {
	t.Helper()
	b, err := f.bugs.Create(f.ctx, reporter, CreateBugInput{Title: "Login crash", Description: "500 on submit", Project: project.ID})
	if err != nil {
		t.Fatalf("create bug: %v", err)
	}
	return b
}

func (f *fixture) notificationsOf(t *testing.T, id primitive.ObjectID, typ models.NotificationType) []models.Notification {
	t.Helper()
	all, err := f.store.Notifications.ListByRecipient(f.ctx, id, 0, 0)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	var out []models.Notification
	for _, n := range all {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := models.ErrorCode(err); got != code {
		t.Fatalf("error code = %s (%v), want %s", got, err, code)
	}
}

func ptr[T any](v T) *T {
	return &v
}
