package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/sony/gobreaker"
)

func TestSMTPSenderComposesHTMLMessage(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: "587", Username: "bot@example.com", Password: "secret"})
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	s.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := s.Send(context.Background(), Email{To: "dev@example.com", Subject: "Hello", HTML: "<p>hi</p>"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotAddr != "smtp.example.com:587" || gotFrom != "bot@example.com" {
		t.Fatalf("addr %q from %q", gotAddr, gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "dev@example.com" {
		t.Fatalf("to = %v", gotTo)
	}
	msg := string(gotMsg)
	for _, want := range []string{"Subject: Hello\r\n", "Content-Type: text/html", "<p>hi</p>"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestSMTPSenderBreakerOpens(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: "587"})
	calls := 0
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		calls++
		return errors.New("connection refused")
	}

	email := Email{To: "dev@example.com", Subject: "x"}
	for i := 0; i < 4; i++ {
		if err := s.Send(context.Background(), email); err == nil {
			t.Fatalf("attempt %d: expected error", i)
		}
	}
	err := s.Send(context.Background(), email)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("err = %v, want open breaker", err)
	}
	if calls != 4 {
		t.Fatalf("relay called %d times, want 4", calls)
	}
}

func TestSMTPSenderRejectsMissingRecipient(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "h", Port: "25"})
	if err := s.Send(context.Background(), Email{Subject: "x"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestTemplatesRender(t *testing.T) {
	bug := BugEmail{To: "a@example.com", Name: "Dana", BugTitle: "Login <crash>", ProjectName: "Portal", ActorName: "Tess", Priority: "high", Link: "http://app/bugs"}
	cases := []struct {
		name    string
		build   func() (Email, error)
		subject string
		body    string
	}{
		{"assignment", func() (Email, error) { return BugAssignment(bug) }, "New Bug Assigned: Login <crash>", "Login &lt;crash&gt;"},
		{"resolved", func() (Email, error) { return BugResolved(bug) }, "Bug Resolved: Login <crash>", "Resolved by:</strong> Tess"},
		{"created", func() (Email, error) { return BugCreated(bug) }, "New Bug Reported: Login <crash>", "Priority:</strong> high"},
		{"reopened", func() (Email, error) { return BugReopened(bug) }, "Bug Reopened: Login <crash>", "Reopened by:</strong> Tess"},
		{"project", func() (Email, error) {
			return ProjectAssignment(ProjectEmail{To: "a@example.com", Name: "Dana", ProjectName: "Portal", Role: "developer", Link: "http://app"})
		}, "New Project Assignment: Portal", "Your Role:</strong> developer"},
		{"reset", func() (Email, error) {
			return PasswordReset(PasswordResetEmail{To: "a@example.com", Name: "Dana", Password: "x1y2z3", Link: "http://app/login"})
		}, "Password Reset Request", "x1y2z3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			email, err := tc.build()
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if email.To != "a@example.com" || email.Subject != tc.subject {
				t.Fatalf("to %q subject %q", email.To, email.Subject)
			}
			if !strings.Contains(email.HTML, tc.body) {
				t.Fatalf("body missing %q:\n%s", tc.body, email.HTML)
			}
		})
	}
}
