package cassandra

import (
	"testing"
	"time"

	"github.com/YNikhil188/BugCrew/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRowRoundTripKeepsReferences(t *testing.T) {
	bug := primitive.NewObjectID()
	n := &models.Notification{
		ID:         primitive.NewObjectID(),
		Recipient:  primitive.NewObjectID(),
		Title:      "New Bug Assigned",
		Message:    "You have been assigned to: Crash",
		Type:       models.NotificationBugAssigned,
		RelatedBug: &bug,
		ActionURL:  "/developer/dashboard",
		Priority:   models.PriorityHigh,
		CreatedAt:  time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.UTC),
	}

	got, err := fromRow(toRow(n))
	if err != nil {
		t.Fatalf("fromRow: %v", err)
	}
	if got.ID != n.ID || got.Recipient != n.Recipient {
		t.Fatalf("ids changed: %+v", got)
	}
	if got.RelatedBug == nil || *got.RelatedBug != bug {
		t.Fatalf("related bug = %v, want %s", got.RelatedBug, bug.Hex())
	}
	if got.RelatedProject != nil {
		t.Fatalf("related project = %v, want nil", got.RelatedProject)
	}
	if want := n.CreatedAt.Truncate(time.Millisecond); !got.CreatedAt.Equal(want) {
		t.Fatalf("created at = %s, want %s", got.CreatedAt, want)
	}
	if got.Type != n.Type || got.Priority != n.Priority || got.ActionURL != n.ActionURL {
		t.Fatalf("fields changed: %+v", got)
	}
}

func TestFromRowRejectsBadID(t *testing.T) {
	r := toRow(&models.Notification{ID: primitive.NewObjectID(), Recipient: primitive.NewObjectID()})
	r.ID = "not-hex"
	if _, err := fromRow(r); err == nil {
		t.Fatal("expected error for malformed id")
	}
}
