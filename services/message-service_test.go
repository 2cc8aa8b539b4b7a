package services

import (
	"testing"

	"github.com/YNikhil188/BugCrew/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestConversationsGroupByCounterpart(t *testing.T) {
	f := newFixture(t)
	me := f.user(t, "mona", models.RoleManager)
	dave := f.user(t, "dave", models.RoleDeveloper)
	tess := f.user(t, "tess", models.RoleTester)

	send := func(from models.Actor, to primitive.ObjectID, text string) {
		t.Helper()
		if _, err := f.messages.Send(f.ctx, from, to, text); err != nil {
			t.Fatalf("send %q: %v", text, err)
		}
	}
	send(dave, me.ID, "hi")
	send(dave, me.ID, "are you there?")
	send(me, tess.ID, "please retest")
	send(me, dave.ID, "yes")
	send(tess, me.ID, "on it")

	convs, err := f.messages.Conversations(f.ctx, me)
	if err != nil {
		t.Fatal(err)
	}
	if len(convs) != 2 {
		t.Fatalf("conversations = %+v", convs)
	}
	if convs[0].User.ID != tess.ID || convs[0].LastMessage != "on it" || convs[0].UnreadCount != 1 {
		t.Fatalf("first conversation = %+v", convs[0])
	}
	if convs[1].User.ID != dave.ID || convs[1].LastMessage != "yes" || convs[1].UnreadCount != 2 {
		t.Fatalf("second conversation = %+v", convs[1])
	}
	if convs[1].User.Name != "dave" {
		t.Fatalf("counterpart summary = %+v", convs[1].User)
	}
}

func TestThreadMarksIncomingRead(t *testing.T) {
	f := newFixture(t)
	me := f.user(t, "mona", models.RoleManager)
	dave := f.user(t, "dave", models.RoleDeveloper)
	f.messages.Send(f.ctx, dave, me.ID, "first")
	f.messages.Send(f.ctx, me, dave.ID, "second")
	f.messages.Send(f.ctx, dave, me.ID, "third")

	thread, err := f.messages.Thread(f.ctx, me, dave.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(thread) != 3 || thread[0].Content != "first" || thread[2].Content != "third" {
		t.Fatalf("thread = %+v", thread)
	}
	if !thread[0].Read || !thread[2].Read {
		t.Fatal("incoming messages not reported read")
	}
	if thread[1].Read {
		t.Fatal("outgoing message marked read by its sender")
	}

	convs, _ := f.messages.Conversations(f.ctx, me)
	if convs[0].UnreadCount != 0 {
		t.Fatalf("unread after view = %d", convs[0].UnreadCount)
	}
	davesView, _ := f.messages.Conversations(f.ctx, dave)
	if davesView[0].UnreadCount != 1 {
		t.Fatalf("dave's unread = %d, want 1", davesView[0].UnreadCount)
	}
}

func TestSendValidation(t *testing.T) {
	f := newFixture(t)
	me := f.user(t, "mona", models.RoleManager)
	dave := f.user(t, "dave", models.RoleDeveloper)

	_, err := f.messages.Send(f.ctx, me, dave.ID, "   ")
	wantCode(t, err, models.ErrorCodeValidation)
	_, err = f.messages.Send(f.ctx, me, primitive.NewObjectID(), "hello")
	wantCode(t, err, models.ErrorCodeNotFound)
	_, err = f.messages.Send(f.ctx, me, primitive.NilObjectID, "hello")
	wantCode(t, err, models.ErrorCodeValidation)

	msg, err := f.messages.Send(f.ctx, me, dave.ID, "  trimmed  ")
	if err != nil || msg.Content != "trimmed" || msg.Read {
		t.Fatalf("send = %+v, %v", msg, err)
	}

	n, err := f.messages.MarkRead(f.ctx, dave, me.ID)
	if err != nil || n != 1 {
		t.Fatalf("mark read = %d, %v", n, err)
	}
}
