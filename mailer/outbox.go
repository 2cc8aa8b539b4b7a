package mailer

import (
	"context"
	"sync"
	"time"

	"github.com/YNikhil188/BugCrew/logging"
)

// Outbox queues emails for a background worker so request handlers never
// wait on SMTP. A full queue drops the email; a failed delivery is retried
// up to the configured attempts and then dropped. Both are logged.
type Outbox struct {
	sender   Sender
	attempts int
	backoff  time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Email
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func NewOutbox(sender Sender, size, attempts int, backoff time.Duration) *Outbox {
	if size < 1 {
		size = 1
	}
	if attempts < 1 {
		attempts = 1
	}
	return &Outbox{
		sender:   sender,
		attempts: attempts,
		backoff:  backoff,
		queue:    make(chan Email, size),
		done:     make(chan struct{}),
	}
}

// Start launches the worker. Cancelling ctx abandons pending retries.
func (o *Outbox) Start(ctx context.Context) {
	o.ctx, o.cancel = context.WithCancel(ctx)
	go o.run()
}

// Enqueue hands email to the worker without blocking. It reports false when
// the outbox is closed or full.
func (o *Outbox) Enqueue(email Email) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		logging.Logger.Warnf("Event ID: OUTBOX_CLOSED, Description: Dropping email to '%s', outbox closed", email.To)
		return false
	}
	select {
	case o.queue <- email:
		return true
	default:
		logging.Logger.Errorf("Event ID: OUTBOX_FULL, Description: Dropping email to '%s' with subject '%s', queue full", email.To, email.Subject)
		return false
	}
}

// Close stops intake, lets the worker drain what is queued and waits for it.
func (o *Outbox) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	close(o.queue)
	o.mu.Unlock()

	if o.ctx != nil {
		<-o.done
		o.cancel()
	}
}

func (o *Outbox) run() {
	defer close(o.done)
	for email := range o.queue {
		o.deliver(email)
	}
}

func (o *Outbox) deliver(email Email) {
	for attempt := 1; attempt <= o.attempts; attempt++ {
		err := o.sender.Send(o.ctx, email)
		if err == nil {
			return
		}
		logging.Logger.Warnf("Event ID: SEND_EMAIL_FAILED, Description: Attempt %d/%d to '%s' failed: %v", attempt, o.attempts, email.To, err)
		if attempt == o.attempts {
			break
		}
		select {
		case <-o.ctx.Done():
			logging.Logger.Errorf("Event ID: SEND_EMAIL_ABANDONED, Description: Email to '%s' abandoned: %v", email.To, o.ctx.Err())
			return
		case <-time.After(time.Duration(attempt) * o.backoff):
		}
	}
	logging.Logger.Errorf("Event ID: SEND_EMAIL_DROPPED, Description: Email to '%s' with subject '%s' dropped after %d attempts", email.To, email.Subject, o.attempts)
}
