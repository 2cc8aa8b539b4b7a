package services

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/YNikhil188/BugCrew/logging"
	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/rand"
)

const minPasswordLength = 6

type AuthService struct {
	users    store.Users
	jwt      *JWTService
	dispatch *Dispatcher
	now      clock
}

func NewAuthService(users store.Users, jwt *JWTService, dispatch *Dispatcher) *AuthService {
	return &AuthService{users: users, jwt: jwt, dispatch: dispatch, now: time.Now}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", models.Validation("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", models.Validation("invalid email address")
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return models.Validation("password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates a self-service account. Admin accounts come only from
// SeedAdmin.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name, err := required(in.Name, "name")
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = models.RoleTester
	}
	if !role.Valid() || role == models.RoleAdmin {
		return nil, models.Validation("role must be manager, developer or tester")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	user := &models.User{
		Name:      name,
		Email:     email,
		Password:  hash,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			logging.Logger.Warnf("Event ID: REGISTER_DUPLICATE_EMAIL, Description: Registration refused, email '%s' already in use", email)
			return nil, models.Conflict("user with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	logging.Logger.Infof("Event ID: REGISTER_SUCCESS, Description: User '%s' registered as %s", email, role)
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		logging.Logger.Warnf("Event ID: LOGIN_UNKNOWN_EMAIL, Description: Login attempt for unknown email '%s'", email)
		return nil, models.Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		logging.Logger.Warnf("Event ID: LOGIN_BAD_PASSWORD, Description: Wrong password for '%s'", email)
		return nil, models.Unauthorized("invalid email or password")
	}
	if !user.IsActive {
		logging.Logger.Warnf("Event ID: LOGIN_INACTIVE_USER, Description: Deactivated user '%s' tried to log in", email)
		return nil, models.Unauthorized("account is deactivated")
	}
	logging.Logger.Infof("Event ID: LOGIN_SUCCESS, Description: User '%s' logged in", email)
	return s.issue(user)
}

// Authenticate resolves a bearer token to the current state of its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, models.Unauthorized("invalid token")
	}
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, models.Unauthorized("user no longer exists")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return nil, models.Unauthorized("account is deactivated")
	}
	return user, nil
}

func (s *AuthService) Me(ctx context.Context, actor models.Actor) (*models.User, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, lookup(err, "user")
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, actor models.Actor, current, next string) error {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return lookup(err, "user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return models.Validation("current password is incorrect")
	}
	if err := validatePassword(next); err != nil {
		return err
	}
	if user.Password, err = hashPassword(next); err != nil {
		return err
	}
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("save password: %w", err)
	}
	logging.Logger.Infof("Event ID: CHANGE_PASSWORD_SUCCESS, Description: Password changed for '%s'", user.Email)
	return nil
}

const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generatePassword(length int) string {
	var seed [8]byte
	if _, err := crand.Read(seed[:]); err != nil {
		binary.LittleEndian.PutUint64(seed[:], uint64(time.Now().UnixNano()))
	}
	r := rand.New(rand.NewSource(binary.LittleEndian.Uint64(seed[:])))
	out := make([]byte, length)
	for i := range out {
		out[i] = passwordCharset[r.Intn(len(passwordCharset))]
	}
	return string(out)
}

// ForgotPassword replaces the password with a generated one and emails it.
// Unknown addresses succeed silently so the endpoint does not reveal which
// emails are registered.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return models.Validation("email is required")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		logging.Logger.Warnf("Event ID: FORGOT_PASSWORD_UNKNOWN_EMAIL, Description: Reset requested for unknown email '%s'", email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	password := generatePassword(10)
	if user.Password, err = hashPassword(password); err != nil {
		return err
	}
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("save password: %w", err)
	}
	s.dispatch.PasswordReset(user, password)
	logging.Logger.Infof("Event ID: FORGOT_PASSWORD_SUCCESS, Description: Temporary password issued for '%s'", email)
	return nil
}

// SeedAdmin creates the configured admin account when no user holds email.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := validatePassword(password); err != nil {
		return err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("load admin: %w", err)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	now := s.now()
	admin := &models.User{
		Name:      "Administrator",
		Email:     email,
		Password:  hash,
		Role:      models.RoleAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, admin); err != nil && !errors.Is(err, store.ErrDuplicate) {
		return fmt.Errorf("create admin: %w", err)
	}
	logging.Logger.Infof("Event ID: ADMIN_SEEDED, Description: Admin account '%s' created", email)
	return nil
}
