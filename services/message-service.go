package services

import (
	"context"
	"fmt"
	"time"

	"github.com/YNikhil188/BugCrew/logging"
	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageService struct {
	messages store.Messages
	users    store.Users
	now      clock
}

func NewMessageService(messages store.Messages, users store.Users) *MessageService {
	return &MessageService{messages: messages, users: users, now: time.Now}
}

func (s *MessageService) Send(ctx context.Context, actor models.Actor, receiverID primitive.ObjectID, content string) (*models.Message, error) {
	if receiverID.IsZero() {
		return nil, models.Validation("receiver is required")
	}
	content, err := required(content, "content")
	if err != nil {
		return nil, err
	}
	if receiverID == actor.ID {
		return nil, models.Validation("you cannot message yourself")
	}
	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		return nil, lookup(err, "receiver")
	}

	msg := &models.Message{
		Sender:    actor.ID,
		Receiver:  receiverID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	logging.Logger.Debugf("Event ID: SEND_MESSAGE_SUCCESS, Description: Message %s from %s to %s", msg.ID.Hex(), actor.ID.Hex(), receiverID.Hex())
	return msg, nil
}

// Conversations groups the caller's messages by counterpart, newest
// conversation first, each previewing its latest message.
func (s *MessageService) Conversations(ctx context.Context, actor models.Actor) ([]models.Conversation, error) {
	msgs, err := s.messages.ListInvolving(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	r := newResolver(s.users, nil)
	index := make(map[primitive.ObjectID]int)
	out := make([]models.Conversation, 0)
	for _, m := range msgs {
		partner := m.Sender
		if partner == actor.ID {
			partner = m.Receiver
		}
		i, ok := index[partner]
		if !ok {
			i = len(out)
			index[partner] = i
			out = append(out, models.Conversation{
				User:            r.user(ctx, partner),
				LastMessage:     m.Content,
				LastMessageTime: m.CreatedAt,
			})
		}
		if m.Sender == partner && m.Receiver == actor.ID && !m.Read {
			out[i].UnreadCount++
		}
	}
	return out, nil
}

// View expands the sender and receiver.
func (s *MessageService) View(ctx context.Context, m *models.Message) models.MessageView {
	return newResolver(s.users, nil).message(ctx, m)
}

func (s *MessageService) Views(ctx context.Context, msgs []models.Message) []models.MessageView {
	r := newResolver(s.users, nil)
	out := make([]models.MessageView, 0, len(msgs))
	for i := range msgs {
		out = append(out, r.message(ctx, &msgs[i]))
	}
	return out
}

// Thread returns the exchange with partner oldest first and marks the
// partner's messages to the caller as read.
func (s *MessageService) Thread(ctx context.Context, actor models.Actor, partner primitive.ObjectID) ([]models.Message, error) {
	msgs, err := s.messages.Thread(ctx, actor.ID, partner)
	if err != nil {
		return nil, fmt.Errorf("load thread: %w", err)
	}
	if _, err := s.messages.MarkRead(ctx, partner, actor.ID); err != nil {
		return nil, fmt.Errorf("mark messages read: %w", err)
	}
	for i := range msgs {
		if msgs[i].Sender == partner && msgs[i].Receiver == actor.ID {
			msgs[i].Read = true
		}
	}
	return msgs, nil
}

func (s *MessageService) MarkRead(ctx context.Context, actor models.Actor, partner primitive.ObjectID) (int64, error) {
	n, err := s.messages.MarkRead(ctx, partner, actor.ID)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	return n, nil
}
