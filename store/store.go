// Package store declares the record access used by the services. Each
// implementation speaks its backend's native query language.
package store

import (
	"context"
	"errors"

	"github.com/YNikhil188/BugCrew/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Users interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	// ListByRole returns users with the role; activeOnly drops deactivated accounts.
	ListByRole(ctx context.Context, role models.Role, activeOnly bool) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type Projects interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	// Update writes the project's own fields and returns the stored record.
	// The team is left as stored; only AddTeamMember and RemoveTeamMember
	// change it.
	Update(ctx context.Context, project *models.Project) (*models.Project, error)
	// AddTeamMember appends member unless the user is already on the team,
	// in which case it returns ErrDuplicate.
	AddTeamMember(ctx context.Context, projectID primitive.ObjectID, member models.TeamMember) (*models.Project, error)
	RemoveTeamMember(ctx context.Context, projectID, userID primitive.ObjectID) (*models.Project, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// BugFilter narrows a bug listing; nil fields do not filter.
type BugFilter struct {
	Project    *primitive.ObjectID
	Reporter   *primitive.ObjectID
	AssignedTo *primitive.ObjectID
}

type Bugs interface {
	Create(ctx context.Context, bug *models.Bug) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Bug, error)
	// List returns matching bugs, newest first.
	List(ctx context.Context, filter BugFilter) ([]models.Bug, error)
	Update(ctx context.Context, bug *models.Bug) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// CountBy groups every bug by the named field ("status" or "priority").
	CountBy(ctx context.Context, field string) ([]models.GroupCount, error)
}

type Comments interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	// ListByBug returns the bug's comments, oldest first.
	ListByBug(ctx context.Context, bugID primitive.ObjectID) ([]models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Notifications scopes every read and write to a recipient.
type Notifications interface {
	Create(ctx context.Context, n *models.Notification) error
	// ListByRecipient returns a page of the recipient's notifications, newest first.
	ListByRecipient(ctx context.Context, recipient primitive.ObjectID, skip, limit int) ([]models.Notification, error)
	Count(ctx context.Context, recipient primitive.ObjectID, unreadOnly bool) (int64, error)
	MarkRead(ctx context.Context, recipient, id primitive.ObjectID) (*models.Notification, error)
	MarkAllRead(ctx context.Context, recipient primitive.ObjectID) (int64, error)
	Delete(ctx context.Context, recipient, id primitive.ObjectID) error
}

type Messages interface {
	Create(ctx context.Context, msg *models.Message) error
	// ListInvolving returns every message sent or received by userID, newest first.
	ListInvolving(ctx context.Context, userID primitive.ObjectID) ([]models.Message, error)
	// Thread returns the messages exchanged between a and b, oldest first.
	Thread(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error)
	// MarkRead flags every unread message from sender to receiver as read.
	MarkRead(ctx context.Context, sender, receiver primitive.ObjectID) (int64, error)
}

// Store bundles the record collections a running service needs.
type Store struct {
	Users         Users
	Projects      Projects
	Bugs          Bugs
	Comments      Comments
	Notifications Notifications
	Messages      Messages
}
