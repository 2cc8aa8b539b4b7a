package memory

import (
	"context"
	"time"

	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notifications struct {
	t *table[models.Notification]
}

func NewNotifications() *Notifications {
	return &Notifications{t: newTable(func(n models.Notification) models.Notification {
		n.RelatedBug = cloneID(n.RelatedBug)
		n.RelatedProject = cloneID(n.RelatedProject)
		return n
	})}
}

func (s *Notifications) Create(_ context.Context, n *models.Notification) error {
	ensureID(&n.ID)
	return s.t.insert(n.ID, *n)
}

func (s *Notifications) ListByRecipient(_ context.Context, recipient primitive.ObjectID, skip, limit int) ([]models.Notification, error) {
	rows := s.t.scan(func(n models.Notification) bool { return n.Recipient == recipient })
	sortByTime(rows, func(n models.Notification) time.Time { return n.CreatedAt }, true)
	if skip >= len(rows) {
		return []models.Notification{}, nil
	}
	rows = rows[skip:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *Notifications) Count(_ context.Context, recipient primitive.ObjectID, unreadOnly bool) (int64, error) {
	rows := s.t.scan(func(n models.Notification) bool {
		return n.Recipient == recipient && (!unreadOnly || !n.IsRead)
	})
	return int64(len(rows)), nil
}

func (s *Notifications) MarkRead(_ context.Context, recipient, id primitive.ObjectID) (*models.Notification, error) {
	n, err := s.t.update(id, func(n *models.Notification) error {
		if n.Recipient != recipient {
			return store.ErrNotFound
		}
		n.IsRead = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Notifications) MarkAllRead(_ context.Context, recipient primitive.ObjectID) (int64, error) {
	return s.t.updateWhere(
		func(n models.Notification) bool { return n.Recipient == recipient && !n.IsRead },
		func(n *models.Notification) { n.IsRead = true },
	), nil
}

func (s *Notifications) Delete(_ context.Context, recipient, id primitive.ObjectID) error {
	n, err := s.t.get(id)
	if err != nil {
		return err
	}
	if n.Recipient != recipient {
		return store.ErrNotFound
	}
	return s.t.remove(id)
}
