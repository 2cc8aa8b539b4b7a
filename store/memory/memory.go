// Package memory keeps every record in process. It backs development runs
// with STORE_DRIVER=memory and the service tests.
package memory

import (
	"slices"
	"sync"
	"time"

	"github.com/YNikhil188/BugCrew/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// table holds rows in insertion order. Callers get copies made by clone.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[primitive.ObjectID]T
	order []primitive.ObjectID
	clone func(T) T
}

func newTable[T any](clone func(T) T) *table[T] {
	return &table[T]{rows: make(map[primitive.ObjectID]T), clone: clone}
}

func (t *table[T]) insert(id primitive.ObjectID, row T) error {
	return t.insertUnique(id, row, nil)
}

// insertUnique rejects row with ErrDuplicate when clash matches any stored row.
func (t *table[T]) insertUnique(id primitive.ObjectID, row T, clash func(T) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; ok {
		return store.ErrDuplicate
	}
	if t.clashes(id, clash) {
		return store.ErrDuplicate
	}
	t.rows[id] = t.clone(row)
	t.order = append(t.order, id)
	return nil
}

func (t *table[T]) get(id primitive.ObjectID) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, store.ErrNotFound
	}
	return t.clone(row), nil
}

func (t *table[T]) replace(id primitive.ObjectID, row T) error {
	return t.replaceUnique(id, row, nil)
}

func (t *table[T]) replaceUnique(id primitive.ObjectID, row T, clash func(T) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return store.ErrNotFound
	}
	if t.clashes(id, clash) {
		return store.ErrDuplicate
	}
	t.rows[id] = t.clone(row)
	return nil
}

// clashes must be called with the lock held.
func (t *table[T]) clashes(id primitive.ObjectID, clash func(T) bool) bool {
	if clash == nil {
		return false
	}
	for other, row := range t.rows {
		if other != id && clash(row) {
			return true
		}
	}
	return false
}

func (t *table[T]) remove(id primitive.ObjectID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(t.rows, id)
	t.order = slices.DeleteFunc(t.order, func(o primitive.ObjectID) bool { return o == id })
	return nil
}

// update applies fn to the stored row in place under the write lock.
func (t *table[T]) update(id primitive.ObjectID, fn func(*T) error) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, store.ErrNotFound
	}
	if err := fn(&row); err != nil {
		var zero T
		return zero, err
	}
	t.rows[id] = row
	return t.clone(row), nil
}

// updateWhere applies fn to every row matching keep and returns how many changed.
func (t *table[T]) updateWhere(keep func(T) bool, fn func(*T)) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	var n int64
	for id, row := range t.rows {
		if keep(row) {
			fn(&row)
			t.rows[id] = row
			n++
		}
	}
	return n
}

// scan returns copies of the matching rows in insertion order.
func (t *table[T]) scan(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0)
	for _, id := range t.order {
		row := t.rows[id]
		if keep == nil || keep(row) {
			out = append(out, t.clone(row))
		}
	}
	return out
}

// sortByTime orders rows by the timestamp key. Rows with equal times keep
// insertion order when ascending and reverse it when descending, so the most
// recently inserted row always counts as the newest.
func sortByTime[T any](rows []T, at func(T) time.Time, desc bool) {
	if desc {
		slices.Reverse(rows)
		slices.SortStableFunc(rows, func(a, b T) int { return at(b).Compare(at(a)) })
		return
	}
	slices.SortStableFunc(rows, func(a, b T) int { return at(a).Compare(at(b)) })
}

func ensureID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

func cloneID(id *primitive.ObjectID) *primitive.ObjectID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// New returns an empty store with every collection in memory.
func New() *store.Store {
	return &store.Store{
		Users:         NewUsers(),
		Projects:      NewProjects(),
		Bugs:          NewBugs(),
		Comments:      NewComments(),
		Notifications: NewNotifications(),
		Messages:      NewMessages(),
	}
}
