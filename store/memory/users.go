package memory

import (
	"context"
	"strings"

	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Users struct {
	t *table[models.User]
}

func NewUsers() *Users {
	return &Users{t: newTable(func(u models.User) models.User { return u })}
}

func sameEmail(email string) func(models.User) bool {
	return func(u models.User) bool { return strings.EqualFold(u.Email, email) }
}

func (s *Users) Create(_ context.Context, user *models.User) error {
	ensureID(&user.ID)
	return s.t.insertUnique(user.ID, *user, sameEmail(user.Email))
}

func (s *Users) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, err := s.t.get(id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	found := s.t.scan(func(u models.User) bool { return strings.EqualFold(u.Email, email) })
	if len(found) == 0 {
		return nil, store.ErrNotFound
	}
	return &found[0], nil
}

func (s *Users) List(_ context.Context) ([]models.User, error) {
	return s.t.scan(nil), nil
}

func (s *Users) ListByRole(_ context.Context, role models.Role, activeOnly bool) ([]models.User, error) {
	return s.t.scan(func(u models.User) bool {
		return u.Role == role && (!activeOnly || u.IsActive)
	}), nil
}

func (s *Users) Update(_ context.Context, user *models.User) error {
	return s.t.replaceUnique(user.ID, *user, sameEmail(user.Email))
}

func (s *Users) Delete(_ context.Context, id primitive.ObjectID) error {
	return s.t.remove(id)
}
