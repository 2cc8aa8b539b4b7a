package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Bugs struct {
	t *table[models.Bug]
}

func NewBugs() *Bugs {
	return &Bugs{t: newTable(cloneBug)}
}

func cloneBug(b models.Bug) models.Bug {
	b.Screenshots = slices.Clone(b.Screenshots)
	if b.Screenshots == nil {
		b.Screenshots = []string{}
	}
	b.AssignedTo = cloneID(b.AssignedTo)
	b.ResolvedAt = cloneTime(b.ResolvedAt)
	b.ClosedAt = cloneTime(b.ClosedAt)
	return b
}

func (s *Bugs) Create(_ context.Context, bug *models.Bug) error {
	ensureID(&bug.ID)
	return s.t.insert(bug.ID, *bug)
}

func (s *Bugs) GetByID(_ context.Context, id primitive.ObjectID) (*models.Bug, error) {
	b, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func matchesBug(f store.BugFilter, b models.Bug) bool {
	if f.Project != nil && b.Project != *f.Project {
		return false
	}
	if f.Reporter != nil && b.Reporter != *f.Reporter {
		return false
	}
	if f.AssignedTo != nil && (b.AssignedTo == nil || *b.AssignedTo != *f.AssignedTo) {
		return false
	}
	return true
}

func (s *Bugs) List(_ context.Context, filter store.BugFilter) ([]models.Bug, error) {
	bugs := s.t.scan(func(b models.Bug) bool { return matchesBug(filter, b) })
	sortByTime(bugs, func(b models.Bug) time.Time { return b.CreatedAt }, true)
	return bugs, nil
}

func (s *Bugs) Update(_ context.Context, bug *models.Bug) error {
	return s.t.replace(bug.ID, *bug)
}

func (s *Bugs) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.t.remove(id)
}

func (s *Bugs) CountBy(_ context.Context, field string) ([]models.GroupCount, error) {
	var key func(models.Bug) string
	switch field {
	case "status":
		key = func(b models.Bug) string { return string(b.Status) }
	case "priority":
		key = func(b models.Bug) string { return string(b.Priority) }
	default:
		return nil, fmt.Errorf("unsupported group field %q", field)
	}

	counts := make(map[string]int64)
	var keys []string
	for _, b := range s.t.scan(nil) {
		k := key(b)
		if _, seen := counts[k]; !seen {
			keys = append(keys, k)
		}
		counts[k]++
	}
	slices.Sort(keys)

	out := make([]models.GroupCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, models.GroupCount{Key: k, Count: counts[k]})
	}
	return out, nil
}
