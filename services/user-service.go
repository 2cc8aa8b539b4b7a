package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/YNikhil188/BugCrew/logging"
	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	users store.Users
	now   clock
}

func NewUserService(users store.Users) *UserService {
	return &UserService{users: users, now: time.Now}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ByRole lists active users holding role.
func (s *UserService) ByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	if !role.Valid() {
		return nil, models.Validation("unknown role %q", role)
	}
	users, err := s.users.ListByRole(ctx, role, true)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "user")
	}
	return user, nil
}

// UserUpdate holds profile changes; nil fields are left alone.
type UserUpdate struct {
	Name       *string
	Email      *string
	Phone      *string
	Department *string
	Avatar     *string
	Role       *models.Role
}

func (s *UserService) Update(ctx context.Context, actor models.Actor, id primitive.ObjectID, upd UserUpdate) (*models.User, error) {
	if actor.ID != id && !actor.Is(models.RoleAdmin) {
		return nil, models.Forbidden("you can only update your own profile")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "user")
	}

	if upd.Name != nil {
		if user.Name, err = required(*upd.Name, "name"); err != nil {
			return nil, err
		}
	}
	if upd.Email != nil {
		if user.Email, err = normalizeEmail(*upd.Email); err != nil {
			return nil, err
		}
	}
	if upd.Phone != nil {
		user.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Department != nil {
		user.Department = strings.TrimSpace(*upd.Department)
	}
	if upd.Avatar != nil {
		user.Avatar = strings.TrimSpace(*upd.Avatar)
	}
	if upd.Role != nil && *upd.Role != user.Role {
		if !actor.Is(models.RoleAdmin) {
			return nil, models.Forbidden("only an admin can change roles")
		}
		if !upd.Role.Valid() {
			return nil, models.Validation("unknown role %q", *upd.Role)
		}
		user.Role = *upd.Role
	}

	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, models.Conflict("email %s is already in use", user.Email)
		}
		return nil, lookup(err, "user")
	}
	logging.Logger.Infof("Event ID: UPDATE_USER_SUCCESS, Description: User %s updated by %s", id.Hex(), actor.ID.Hex())
	return user, nil
}

func (s *UserService) ToggleActive(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.User, error) {
	if actor.ID == id {
		return nil, models.Validation("you cannot deactivate your own account")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "user")
	}
	user.IsActive = !user.IsActive
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, lookup(err, "user")
	}
	logging.Logger.Infof("Event ID: TOGGLE_USER_ACTIVE, Description: User %s active=%t", id.Hex(), user.IsActive)
	return user, nil
}

// Delete removes the account. Bugs, projects and messages keep their
// references to it.
func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return lookup(err, "user")
	}
	logging.Logger.Infof("Event ID: DELETE_USER_SUCCESS, Description: User %s deleted", id.Hex())
	return nil
}

// Contacts lists everyone except the caller, by name.
func (s *UserService) Contacts(ctx context.Context, actor models.Actor) ([]models.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]models.UserSummary, 0, len(users))
	for i := range users {
		if users[i].ID != actor.ID {
			out = append(out, users[i].Summary())
		}
	}
	slices.SortStableFunc(out, func(a, b models.UserSummary) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}
