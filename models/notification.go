package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationBugAssigned     NotificationType = "bug_assigned"
	NotificationBugResolved     NotificationType = "bug_resolved"
	NotificationBugCreated      NotificationType = "bug_created"
	NotificationBugReopened     NotificationType = "bug_reopened"
	NotificationProjectAssigned NotificationType = "project_assigned"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationBugAssigned, NotificationBugResolved, NotificationBugCreated,
		NotificationBugReopened, NotificationProjectAssigned:
		return true
	}
	return false
}

type Notification struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Recipient      primitive.ObjectID  `bson:"recipient" json:"recipient"`
	Title          string              `bson:"title" json:"title"`
	Message        string              `bson:"message" json:"message"`
	Type           NotificationType    `bson:"type" json:"type"`
	IsRead         bool                `bson:"isRead" json:"isRead"`
	RelatedBug     *primitive.ObjectID `bson:"relatedBug,omitempty" json:"relatedBug,omitempty"`
	RelatedProject *primitive.ObjectID `bson:"relatedProject,omitempty" json:"relatedProject,omitempty"`
	ActionURL      string              `bson:"actionUrl" json:"actionUrl"`
	Priority       Priority            `bson:"priority" json:"priority"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
}

// NotificationInput carries the fields a caller chooses when creating a notification.
type NotificationInput struct {
	Title          string
	Message        string
	Type           NotificationType
	RelatedBug     *primitive.ObjectID
	RelatedProject *primitive.ObjectID
	ActionURL      string
	Priority       Priority
}

type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unreadCount"`
	CurrentPage   int            `json:"currentPage"`
	TotalPages    int            `json:"totalPages"`
}
