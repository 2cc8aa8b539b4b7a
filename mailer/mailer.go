// Package mailer renders and delivers the HTML notification emails.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/YNikhil188/BugCrew/logging"

	"github.com/sony/gobreaker"
)

type Email struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers one email.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender sends through an authenticated SMTP relay. Consecutive failures
// trip a circuit breaker so a dead relay fails fast instead of stalling the
// outbox worker.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
	breaker  *gobreaker.CircuitBreaker
	sendMail sendMailFunc
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPSender{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     from,
		breaker:  newBreaker("smtp-cb"),
		sendMail: smtp.SendMail,
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Warnf("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

// composeMessage builds the RFC 5322 message with an HTML body.
func composeMessage(from string, email Email) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + email.To + "\r\n")
	b.WriteString("Subject: " + email.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(email.HTML)
	b.WriteString("\r\n")
	return []byte(b.String())
}

func (s *SMTPSender) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if email.To == "" {
		return errors.New("email has no recipient")
	}

	_, err := s.breaker.Execute(func() (interface{}, error) {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		return nil, s.sendMail(s.host+":"+s.port, auth, s.from, []string{email.To}, composeMessage(s.from, email))
	})
	if err != nil {
		return fmt.Errorf("send email to %s: %w", email.To, err)
	}
	logging.Logger.Infof("Event ID: SEND_EMAIL_SUCCESS, Description: Email sent to '%s' with subject '%s'", email.To, email.Subject)
	return nil
}

// LogSender writes emails to the log instead of sending them. It stands in
// when no SMTP credentials are configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, email Email) error {
	logging.Logger.Infof("Event ID: SEND_EMAIL_SKIPPED, Description: SMTP not configured, email to '%s' with subject '%s' logged only", email.To, email.Subject)
	return nil
}
