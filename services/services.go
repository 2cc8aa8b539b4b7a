// Package services holds the business rules of the tracker. Services take
// the authenticated caller as a models.Actor and return models.DomainError
// values the HTTP layer maps to statuses.
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/YNikhil188/BugCrew/mailer"
	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"
)

// EmailQueue accepts emails for asynchronous delivery.
type EmailQueue interface {
	Enqueue(email mailer.Email) bool
}

type clock func() time.Time

// lookup translates a store error for the named record.
func lookup(err error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return models.NotFound("%s not found", what)
	}
	return fmt.Errorf("load %s: %w", what, err)
}

func required(value, field string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", models.Validation("%s is required", field)
	}
	return value, nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
