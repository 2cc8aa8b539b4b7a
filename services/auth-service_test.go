package services

import (
	"strings"
	"testing"
	"time"

	"github.com/YNikhil188/BugCrew/models"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	res, err := f.auth.Register(f.ctx, RegisterInput{Name: "Tess", Email: " Tess@Example.com ", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Token == "" || res.User.Role != models.RoleTester || res.User.Email != "tess@example.com" || !res.User.IsActive {
		t.Fatalf("register result = %+v", res.User)
	}
	if res.User.Password == "secret1" {
		t.Fatal("password stored in clear")
	}

	_, err = f.auth.Register(f.ctx, RegisterInput{Name: "Again", Email: "tess@example.com", Password: "secret1"})
	wantCode(t, err, models.ErrorCodeConflict)
	_, err = f.auth.Register(f.ctx, RegisterInput{Name: "Root", Email: "root@example.com", Password: "secret1", Role: models.RoleAdmin})
	wantCode(t, err, models.ErrorCodeValidation)
	_, err = f.auth.Register(f.ctx, RegisterInput{Name: "Short", Email: "short@example.com", Password: "abc"})
	wantCode(t, err, models.ErrorCodeValidation)

	login, err := f.auth.Login(f.ctx, "TESS@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	user, err := f.auth.Authenticate(f.ctx, login.Token)
	if err != nil || user.ID != res.User.ID {
		t.Fatalf("authenticate = %v, %v", user, err)
	}

	_, err = f.auth.Login(f.ctx, "tess@example.com", "wrong")
	wantCode(t, err, models.ErrorCodeUnauthorized)
	_, err = f.auth.Login(f.ctx, "nobody@example.com", "secret1")
	wantCode(t, err, models.ErrorCodeUnauthorized)
}

func TestInactiveUserCannotLogIn(t *testing.T) {
	f := newFixture(t)
	res, err := f.auth.Register(f.ctx, RegisterInput{Name: "Dave", Email: "dave@example.com", Password: "secret1", Role: models.RoleDeveloper})
	if err != nil {
		t.Fatal(err)
	}
	admin := f.user(t, "ada", models.RoleAdmin)
	if _, err := f.users.ToggleActive(f.ctx, admin, res.User.ID); err != nil {
		t.Fatal(err)
	}

	_, err = f.auth.Login(f.ctx, "dave@example.com", "secret1")
	wantCode(t, err, models.ErrorCodeUnauthorized)
	_, err = f.auth.Authenticate(f.ctx, res.Token)
	wantCode(t, err, models.ErrorCodeUnauthorized)
}

func TestTokenExpires(t *testing.T) {
	f := newFixture(t)
	res, err := f.auth.Register(f.ctx, RegisterInput{Name: "Tess", Email: "tess@example.com", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}
	f.clock.mu.Lock()
	f.clock.cur = f.clock.cur.Add(2 * time.Hour)
	f.clock.mu.Unlock()

	_, err = f.auth.Authenticate(f.ctx, res.Token)
	wantCode(t, err, models.ErrorCodeUnauthorized)
	_, err = f.auth.Authenticate(f.ctx, "not-a-token")
	wantCode(t, err, models.ErrorCodeUnauthorized)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	res, _ := f.auth.Register(f.ctx, RegisterInput{Name: "Tess", Email: "tess@example.com", Password: "secret1"})
	actor := models.ActorFromUser(res.User)

	wantCode(t, f.auth.ChangePassword(f.ctx, actor, "wrong", "secret2"), models.ErrorCodeValidation)
	wantCode(t, f.auth.ChangePassword(f.ctx, actor, "secret1", "abc"), models.ErrorCodeValidation)
	if err := f.auth.ChangePassword(f.ctx, actor, "secret1", "secret2"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.auth.Login(f.ctx, "tess@example.com", "secret2"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestForgotPasswordEmailsWorkingPassword(t *testing.T) {
	f := newFixture(t)
	if _, err := f.auth.Register(f.ctx, RegisterInput{Name: "Tess", Email: "tess@example.com", Password: "secret1"}); err != nil {
		t.Fatal(err)
	}

	if err := f.auth.ForgotPassword(f.ctx, "nobody@example.com"); err != nil {
		t.Fatalf("unknown email: %v", err)
	}
	if err := f.auth.ForgotPassword(f.ctx, "tess@example.com"); err != nil {
		t.Fatal(err)
	}
	emails := f.queue.sentTo("tess@example.com")
	if len(emails) != 1 || emails[0].Subject != "Password Reset Request" {
		t.Fatalf("emails = %+v", emails)
	}

	if _, err := f.auth.Login(f.ctx, "tess@example.com", "secret1"); err == nil {
		t.Fatal("old password still accepted")
	}
	body := emails[0].HTML
	start := strings.Index(body, "<h3>") + len("<h3>")
	end := strings.Index(body[start:], "</h3>")
	password := body[start : start+end]
	if len(password) != 10 {
		t.Fatalf("generated password %q", password)
	}
	if _, err := f.auth.Login(f.ctx, "tess@example.com", password); err != nil {
		t.Fatalf("login with emailed password: %v", err)
	}
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 2; i++ {
		if err := f.auth.SeedAdmin(f.ctx, "admin@example.com", "adminpass"); err != nil {
			t.Fatalf("seed #%d: %v", i, err)
		}
	}
	admins, _ := f.store.Users.ListByRole(f.ctx, models.RoleAdmin, false)
	if len(admins) != 1 {
		t.Fatalf("admins = %d, want 1", len(admins))
	}
	res, err := f.auth.Login(f.ctx, "admin@example.com", "adminpass")
	if err != nil || res.User.Role != models.RoleAdmin {
		t.Fatalf("admin login = %+v, %v", res, err)
	}
}
