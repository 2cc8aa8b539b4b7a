// Package cassandra keeps notifications in a Cassandra table partitioned by
// recipient, so a user's feed is one partition read newest first.
package cassandra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YNikhil188/BugCrew/logging"
	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"

	"github.com/gocql/gocql"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const columns = `recipient, created_at, id, title, message, type, is_read, related_bug, related_project, action_url, priority`

type Notifications struct {
	session *gocql.Session
}

// Connect creates keyspace on hosts when missing and opens a session on it.
func Connect(hosts []string, keyspace string) (*Notifications, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = "system"
	cluster.Timeout = 10 * time.Second
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("connect to cassandra: %w", err)
	}
	err = session.Query(fmt.Sprintf(
		`CREATE KEYSPACE IF NOT EXISTS %s
		 WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}`, keyspace)).Exec()
	session.Close()
	if err != nil {
		return nil, fmt.Errorf("create keyspace %s: %w", keyspace, err)
	}

	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("connect to keyspace %s: %w", keyspace, err)
	}
	logging.Logger.Infof("Event ID: CASSANDRA_CONNECTED, Description: Connected to Cassandra keyspace '%s'", keyspace)

	s := &Notifications{session: session}
	if err := s.createTable(); err != nil {
		session.Close()
		return nil, err
	}
	return s, nil
}

func (s *Notifications) Close() {
	s.session.Close()
	logging.Logger.Info("Event ID: CASSANDRA_CLOSED, Description: Cassandra session closed")
}

func (s *Notifications) createTable() error {
	err := s.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			recipient TEXT,
			created_at TIMESTAMP,
			id TEXT,
			title TEXT,
			message TEXT,
			type TEXT,
			is_read BOOLEAN,
			related_bug TEXT,
			related_project TEXT,
			action_url TEXT,
			priority TEXT,
			PRIMARY KEY ((recipient), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id DESC)`).Exec()
	if err != nil {
		return fmt.Errorf("create notifications table: %w", err)
	}
	return nil
}

// row is the column layout of one notification. Object ids are stored as hex
// and timestamps carry millisecond precision.
type row struct {
	Recipient      string
	CreatedAt      time.Time
	ID             string
	Title          string
	Message        string
	Type           string
	IsRead         bool
	RelatedBug     string
	RelatedProject string
	ActionURL      string
	Priority       string
}

func (r *row) dest() []any {
	return []any{&r.Recipient, &r.CreatedAt, &r.ID, &r.Title, &r.Message, &r.Type,
		&r.IsRead, &r.RelatedBug, &r.RelatedProject, &r.ActionURL, &r.Priority}
}

func (r *row) values() []any {
	return []any{r.Recipient, r.CreatedAt, r.ID, r.Title, r.Message, r.Type,
		r.IsRead, r.RelatedBug, r.RelatedProject, r.ActionURL, r.Priority}
}

func hexOrEmpty(id *primitive.ObjectID) string {
	if id == nil {
		return ""
	}
	return id.Hex()
}

func idOrNil(hex string) (*primitive.ObjectID, error) {
	if hex == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func toRow(n *models.Notification) row {
	return row{
		Recipient:      n.Recipient.Hex(),
		CreatedAt:      n.CreatedAt.UTC().Truncate(time.Millisecond),
		ID:             n.ID.Hex(),
		Title:          n.Title,
		Message:        n.Message,
		Type:           string(n.Type),
		IsRead:         n.IsRead,
		RelatedBug:     hexOrEmpty(n.RelatedBug),
		RelatedProject: hexOrEmpty(n.RelatedProject),
		ActionURL:      n.ActionURL,
		Priority:       string(n.Priority),
	}
}

func fromRow(r row) (models.Notification, error) {
	var n models.Notification
	var err error
	if n.ID, err = primitive.ObjectIDFromHex(r.ID); err != nil {
		return n, fmt.Errorf("notification id %q: %w", r.ID, err)
	}
	if n.Recipient, err = primitive.ObjectIDFromHex(r.Recipient); err != nil {
		return n, fmt.Errorf("notification recipient %q: %w", r.Recipient, err)
	}
	if n.RelatedBug, err = idOrNil(r.RelatedBug); err != nil {
		return n, fmt.Errorf("notification related bug %q: %w", r.RelatedBug, err)
	}
	if n.RelatedProject, err = idOrNil(r.RelatedProject); err != nil {
		return n, fmt.Errorf("notification related project %q: %w", r.RelatedProject, err)
	}
	n.Title = r.Title
	n.Message = r.Message
	n.Type = models.NotificationType(r.Type)
	n.IsRead = r.IsRead
	n.ActionURL = r.ActionURL
	n.Priority = models.Priority(r.Priority)
	n.CreatedAt = r.CreatedAt
	return n, nil
}

func (s *Notifications) Create(ctx context.Context, n *models.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	r := toRow(n)
	n.CreatedAt = r.CreatedAt
	return s.session.Query(
		`INSERT INTO notifications (`+columns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.values()...,
	).WithContext(ctx).Exec()
}

func (s *Notifications) ListByRecipient(ctx context.Context, recipient primitive.ObjectID, skip, limit int) ([]models.Notification, error) {
	iter := s.session.Query(
		`SELECT `+columns+` FROM notifications WHERE recipient = ?`, recipient.Hex(),
	).WithContext(ctx).Iter()

	out := make([]models.Notification, 0)
	var r row
	seen := 0
	for iter.Scan(r.dest()...) {
		seen++
		if seen <= skip {
			continue
		}
		if limit > 0 && len(out) == limit {
			break
		}
		n, err := fromRow(r)
		if err != nil {
			_ = iter.Close()
			return nil, err
		}
		out = append(out, n)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (s *Notifications) Count(ctx context.Context, recipient primitive.ObjectID, unreadOnly bool) (int64, error) {
	iter := s.session.Query(
		`SELECT is_read FROM notifications WHERE recipient = ?`, recipient.Hex(),
	).WithContext(ctx).Iter()

	var n int64
	var isRead bool
	for iter.Scan(&isRead) {
		if !unreadOnly || !isRead {
			n++
		}
	}
	if err := iter.Close(); err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return n, nil
}

// find locates one notification inside the recipient's partition. The
// clustering key needs created_at, which the caller does not know.
func (s *Notifications) find(ctx context.Context, recipient, id primitive.ObjectID) (row, error) {
	var r row
	err := s.session.Query(
		`SELECT `+columns+` FROM notifications WHERE recipient = ? AND id = ? ALLOW FILTERING`,
		recipient.Hex(), id.Hex(),
	).WithContext(ctx).Scan(r.dest()...)
	if errors.Is(err, gocql.ErrNotFound) {
		return r, store.ErrNotFound
	}
	return r, err
}

func (s *Notifications) setRead(ctx context.Context, r row) error {
	return s.session.Query(
		`UPDATE notifications SET is_read = true WHERE recipient = ? AND created_at = ? AND id = ?`,
		r.Recipient, r.CreatedAt, r.ID,
	).WithContext(ctx).Exec()
}

func (s *Notifications) MarkRead(ctx context.Context, recipient, id primitive.ObjectID) (*models.Notification, error) {
	r, err := s.find(ctx, recipient, id)
	if err != nil {
		return nil, err
	}
	if err := s.setRead(ctx, r); err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	r.IsRead = true
	n, err := fromRow(r)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Notifications) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	iter := s.session.Query(
		`SELECT created_at, id, is_read FROM notifications WHERE recipient = ?`, recipient.Hex(),
	).WithContext(ctx).Iter()

	var unread []row
	var r row
	for iter.Scan(&r.CreatedAt, &r.ID, &r.IsRead) {
		if !r.IsRead {
			unread = append(unread, row{Recipient: recipient.Hex(), CreatedAt: r.CreatedAt, ID: r.ID})
		}
	}
	if err := iter.Close(); err != nil {
		return 0, fmt.Errorf("scan unread notifications: %w", err)
	}
	if len(unread) == 0 {
		return 0, nil
	}

	// Every row shares one partition, so an unlogged batch is a single write.
	batch := s.session.NewBatch(gocql.UnloggedBatch).WithContext(ctx)
	for _, u := range unread {
		batch.Query(`UPDATE notifications SET is_read = true WHERE recipient = ? AND created_at = ? AND id = ?`,
			u.Recipient, u.CreatedAt, u.ID)
	}
	if err := s.session.ExecuteBatch(batch); err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return int64(len(unread)), nil
}

func (s *Notifications) Delete(ctx context.Context, recipient, id primitive.ObjectID) error {
	r, err := s.find(ctx, recipient, id)
	if err != nil {
		return err
	}
	return s.session.Query(
		`DELETE FROM notifications WHERE recipient = ? AND created_at = ? AND id = ?`,
		r.Recipient, r.CreatedAt, r.ID,
	).WithContext(ctx).Exec()
}

var _ store.Notifications = (*Notifications)(nil)
