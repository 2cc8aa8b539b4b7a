package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YNikhil188/BugCrew/logging"
	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

type NotificationService struct {
	store store.Notifications
	now   clock
}

func NewNotificationService(notifications store.Notifications) *NotificationService {
	return &NotificationService{store: notifications, now: time.Now}
}

// Create persists one notification for recipient. Failures are logged and
// reported as nil so the triggering operation carries on.
func (s *NotificationService) Create(ctx context.Context, recipient primitive.ObjectID, in models.NotificationInput) *models.Notification {
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	n := &models.Notification{
		Recipient:      recipient,
		Title:          in.Title,
		Message:        in.Message,
		Type:           in.Type,
		RelatedBug:     in.RelatedBug,
		RelatedProject: in.RelatedProject,
		ActionURL:      in.ActionURL,
		Priority:       priority,
		CreatedAt:      s.now(),
	}
	if !n.Type.Valid() || n.Title == "" {
		logging.Logger.Errorf("Event ID: CREATE_NOTIFICATION_INVALID, Description: Refusing notification of type '%s' for %s", n.Type, recipient.Hex())
		return nil
	}
	if err := s.store.Create(ctx, n); err != nil {
		logging.Logger.Errorf("Event ID: CREATE_NOTIFICATION_FAILED, Description: Failed to create '%s' notification for %s: %v", n.Type, recipient.Hex(), err)
		return nil
	}
	logging.Logger.Infof("Event ID: CREATE_NOTIFICATION_SUCCESS, Description: '%s' notification created for %s", n.Type, recipient.Hex())
	return n
}

func (s *NotificationService) List(ctx context.Context, actor models.Actor, page, limit int) (*models.NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	items, err := s.store.ListByRecipient(ctx, actor.ID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	unread, err := s.store.Count(ctx, actor.ID, true)
	if err != nil {
		return nil, fmt.Errorf("count unread notifications: %w", err)
	}
	total, err := s.store.Count(ctx, actor.ID, false)
	if err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}

	return &models.NotificationPage{
		Notifications: items,
		UnreadCount:   unread,
		CurrentPage:   page,
		TotalPages:    int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, actor models.Actor) (int64, error) {
	n, err := s.store.Count(ctx, actor.ID, true)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.Notification, error) {
	n, err := s.store.MarkRead(ctx, actor.ID, id)
	if err != nil {
		return nil, lookup(err, "notification")
	}
	return n, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor models.Actor) (int64, error) {
	n, err := s.store.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if err := s.store.Delete(ctx, actor.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.NotFound("notification not found")
		}
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}
