package memory

import (
	"context"
	"time"

	"github.com/YNikhil188/BugCrew/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Messages struct {
	t *table[models.Message]
}

func NewMessages() *Messages {
	return &Messages{t: newTable(func(m models.Message) models.Message { return m })}
}

func messageTime(m models.Message) time.Time { return m.CreatedAt }

func (s *Messages) Create(_ context.Context, msg *models.Message) error {
	ensureID(&msg.ID)
	return s.t.insert(msg.ID, *msg)
}

func (s *Messages) ListInvolving(_ context.Context, userID primitive.ObjectID) ([]models.Message, error) {
	rows := s.t.scan(func(m models.Message) bool { return m.Sender == userID || m.Receiver == userID })
	sortByTime(rows, messageTime, true)
	return rows, nil
}

func (s *Messages) Thread(_ context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	rows := s.t.scan(func(m models.Message) bool {
		return (m.Sender == a && m.Receiver == b) || (m.Sender == b && m.Receiver == a)
	})
	sortByTime(rows, messageTime, false)
	return rows, nil
}

func (s *Messages) MarkRead(_ context.Context, sender, receiver primitive.ObjectID) (int64, error) {
	return s.t.updateWhere(
		func(m models.Message) bool { return m.Sender == sender && m.Receiver == receiver && !m.Read },
		func(m *models.Message) { m.Read = true },
	), nil
}
