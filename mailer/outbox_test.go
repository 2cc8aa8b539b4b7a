package mailer

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakeSender struct {
	mu       sync.Mutex
	failures map[string]int
	sent     []Email
	attempts map[string]int
}

func newFakeSender() *fakeSender {
	return &fakeSender{failures: map[string]int{}, attempts: map[string]int{}}
}

func (f *fakeSender) Send(_ context.Context, e Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts[e.To]++
	if f.failures[e.To] > 0 {
		f.failures[e.To]--
		return errors.New("relay down")
	}
	f.sent = append(f.sent, e)
	return nil
}

func TestOutboxRetriesThenDelivers(t *testing.T) {
	sender := newFakeSender()
	sender.failures["flaky@example.com"] = 2
	sender.failures["dead@example.com"] = 10

	o := NewOutbox(sender, 10, 3, 0)
	o.Start(context.Background())
	o.Enqueue(Email{To: "ok@example.com"})
	o.Enqueue(Email{To: "flaky@example.com"})
	o.Enqueue(Email{To: "dead@example.com"})
	o.Close()

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d, want 2", len(sender.sent))
	}
	if sender.attempts["flaky@example.com"] != 3 {
		t.Fatalf("flaky attempts = %d, want 3", sender.attempts["flaky@example.com"])
	}
	if sender.attempts["dead@example.com"] != 3 {
		t.Fatalf("dead attempts = %d, want 3", sender.attempts["dead@example.com"])
	}
}

func TestOutboxDropsWhenFull(t *testing.T) {
	o := NewOutbox(newFakeSender(), 1, 1, 0)
	if !o.Enqueue(Email{To: "a@example.com"}) {
		t.Fatal("first enqueue refused")
	}
	if o.Enqueue(Email{To: "b@example.com"}) {
		t.Fatal("enqueue into full queue accepted")
	}
}

func TestOutboxRefusesAfterClose(t *testing.T) {
	sender := newFakeSender()
	o := NewOutbox(sender, 4, 1, 0)
	o.Start(context.Background())
	o.Close()
	o.Close()
	if o.Enqueue(Email{To: "late@example.com"}) {
		t.Fatal("enqueue after close accepted")
	}
	if len(sender.sent) != 0 {
		t.Fatalf("sent %d, want 0", len(sender.sent))
	}
}
