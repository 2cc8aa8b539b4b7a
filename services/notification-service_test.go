package services

import (
	"fmt"
	"testing"

	"github.com/YNikhil188/BugCrew/models"
)

func TestNotificationPaging(t *testing.T) {
	f := newFixture(t)
	me := f.user(t, "mona", models.RoleManager)
	other := f.user(t, "otto", models.RoleManager)

	for i := 0; i < 25; i++ {
		if n := f.notifications.Create(f.ctx, me.ID, models.NotificationInput{
			Title: fmt.Sprintf("n%d", i), Type: models.NotificationBugCreated,
		}); n == nil {
			t.Fatalf("create #%d returned nil", i)
		}
	}
	f.notifications.Create(f.ctx, other.ID, models.NotificationInput{Title: "theirs", Type: models.NotificationBugCreated})

	page, err := f.notifications.List(f.ctx, me, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Notifications) != 20 || page.CurrentPage != 1 || page.TotalPages != 2 || page.UnreadCount != 25 {
		t.Fatalf("first page: %d items, page %d/%d, unread %d", len(page.Notifications), page.CurrentPage, page.TotalPages, page.UnreadCount)
	}
	if page.Notifications[0].Title != "n24" || page.Notifications[0].Priority != models.PriorityMedium {
		t.Fatalf("newest = %+v", page.Notifications[0])
	}

	second, err := f.notifications.List(f.ctx, me, 2, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Notifications) != 5 || second.Notifications[4].Title != "n0" {
		t.Fatalf("second page = %+v", second.Notifications)
	}
}

func TestNotificationOwnership(t *testing.T) {
	f := newFixture(t)
	me := f.user(t, "mona", models.RoleManager)
	other := f.user(t, "otto", models.RoleManager)
	mine := f.notifications.Create(f.ctx, me.ID, models.NotificationInput{Title: "a", Type: models.NotificationBugAssigned})
	f.notifications.Create(f.ctx, me.ID, models.NotificationInput{Title: "b", Type: models.NotificationBugAssigned})

	_, err := f.notifications.MarkRead(f.ctx, other, mine.ID)
	wantCode(t, err, models.ErrorCodeNotFound)
	wantCode(t, f.notifications.Delete(f.ctx, other, mine.ID), models.ErrorCodeNotFound)

	read, err := f.notifications.MarkRead(f.ctx, me, mine.ID)
	if err != nil || !read.IsRead {
		t.Fatalf("mark read = %+v, %v", read, err)
	}
	if n, _ := f.notifications.UnreadCount(f.ctx, me); n != 1 {
		t.Fatalf("unread = %d, want 1", n)
	}
	if n, err := f.notifications.MarkAllRead(f.ctx, me); err != nil || n != 1 {
		t.Fatalf("mark all = %d, %v", n, err)
	}
	if n, _ := f.notifications.UnreadCount(f.ctx, me); n != 0 {
		t.Fatalf("unread after mark all = %d", n)
	}
	if err := f.notifications.Delete(f.ctx, me, mine.ID); err != nil {
		t.Fatal(err)
	}
}

func TestCreateRejectsUnknownType(t *testing.T) {
	f := newFixture(t)
	me := f.user(t, "mona", models.RoleManager)
	if n := f.notifications.Create(f.ctx, me.ID, models.NotificationInput{Title: "x", Type: "digest"}); n != nil {
		t.Fatalf("created %+v", n)
	}
}
