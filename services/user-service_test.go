package services

import (
	"testing"

	"github.com/YNikhil188/BugCrew/models"
)

func TestUpdateUserPermissions(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "ada", models.RoleAdmin)
	dev := f.user(t, "dave", models.RoleDeveloper)
	tess := f.user(t, "tess", models.RoleTester)

	_, err := f.users.Update(f.ctx, dev, tess.ID, UserUpdate{Name: ptr("x")})
	wantCode(t, err, models.ErrorCodeForbidden)
	_, err = f.users.Update(f.ctx, dev, dev.ID, UserUpdate{Role: ptr(models.RoleManager)})
	wantCode(t, err, models.ErrorCodeForbidden)
	_, err = f.users.Update(f.ctx, dev, dev.ID, UserUpdate{Email: ptr("TESS@example.com")})
	wantCode(t, err, models.ErrorCodeConflict)

	self, err := f.users.Update(f.ctx, dev, dev.ID, UserUpdate{Department: ptr("QA tools"), Role: ptr(models.RoleDeveloper)})
	if err != nil || self.Department != "QA tools" {
		t.Fatalf("self update = %+v, %v", self, err)
	}

	promoted, err := f.users.Update(f.ctx, admin, dev.ID, UserUpdate{Role: ptr(models.RoleManager)})
	if err != nil || promoted.Role != models.RoleManager {
		t.Fatalf("admin update = %+v, %v", promoted, err)
	}
	_, err = f.users.Update(f.ctx, admin, dev.ID, UserUpdate{Role: ptr(models.Role("owner"))})
	wantCode(t, err, models.ErrorCodeValidation)
}

func TestByRoleListsActiveOnly(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "ada", models.RoleAdmin)
	d1 := f.user(t, "dave", models.RoleDeveloper)
	f.user(t, "dora", models.RoleDeveloper)

	toggled, err := f.users.ToggleActive(f.ctx, admin, d1.ID)
	if err != nil || toggled.IsActive {
		t.Fatalf("toggle = %+v, %v", toggled, err)
	}
	devs, err := f.users.ByRole(f.ctx, models.RoleDeveloper)
	if err != nil || len(devs) != 1 || devs[0].Name != "dora" {
		t.Fatalf("developers = %+v, %v", devs, err)
	}
	_, err = f.users.ByRole(f.ctx, "ceo")
	wantCode(t, err, models.ErrorCodeValidation)

	_, err = f.users.ToggleActive(f.ctx, admin, admin.ID)
	wantCode(t, err, models.ErrorCodeValidation)
}

func TestContactsExcludeCaller(t *testing.T) {
	f := newFixture(t)
	me := f.user(t, "mona", models.RoleManager)
	f.user(t, "zed", models.RoleDeveloper)
	f.user(t, "abe", models.RoleTester)

	got, err := f.users.Contacts(f.ctx, me)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "abe" || got[1].Name != "zed" {
		t.Fatalf("contacts = %+v", got)
	}
}
