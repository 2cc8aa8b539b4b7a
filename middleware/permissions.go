package middleware

import (
	"net/http"
	"slices"

	"github.com/YNikhil188/BugCrew/logging"
	"github.com/YNikhil188/BugCrew/models"
)

// Permission names one action on one resource.
type Permission struct {
	Resource string
	Action   string
}

func (p Permission) String() string {
	return p.Resource + ":" + p.Action
}

var (
	BugsRead    = Permission{"bugs", "read"}
	BugsCreate  = Permission{"bugs", "create"}
	BugsUpdate  = Permission{"bugs", "update"}
	BugsDelete  = Permission{"bugs", "delete"}
	BugsAssign  = Permission{"bugs", "assign"}
	BugsVerify  = Permission{"bugs", "verify"}
	BugsComment = Permission{"bugs", "comment"}

	ProjectsRead   = Permission{"projects", "read"}
	ProjectsCreate = Permission{"projects", "create"}
	ProjectsUpdate = Permission{"projects", "update"}
	ProjectsDelete = Permission{"projects", "delete"}
	ProjectsTeam   = Permission{"projects", "team"}

	UsersList   = Permission{"users", "list"}
	UsersRead   = Permission{"users", "read"}
	UsersUpdate = Permission{"users", "update"}
	UsersAdmin  = Permission{"users", "admin"}

	AccountSelf   = Permission{"account", "self"}
	Notifications = Permission{"notifications", "own"}
	Messages      = Permission{"messages", "use"}
)

var (
	anyone        = models.AllRoles
	adminOnly     = []models.Role{models.RoleAdmin}
	adminManager  = []models.Role{models.RoleAdmin, models.RoleManager}
	managerOnly   = []models.Role{models.RoleManager}
	developerOnly = []models.Role{models.RoleDeveloper}
	testerOnly    = []models.Role{models.RoleTester}
)

// Permissions maps each action to the roles allowed to attempt it.
// Ownership rules (own profile, own comment, reporter-only verify) are
// enforced by the services on top of this.
var Permissions = map[Permission][]models.Role{
	BugsRead:    anyone,
	BugsCreate:  testerOnly,
	BugsUpdate:  developerOnly,
	BugsDelete:  adminOnly,
	BugsAssign:  adminManager,
	BugsVerify:  testerOnly,
	BugsComment: anyone,

	ProjectsRead:   anyone,
	ProjectsCreate: managerOnly,
	ProjectsUpdate: {models.RoleManager, models.RoleDeveloper},
	ProjectsDelete: managerOnly,
	ProjectsTeam:   managerOnly,

	UsersList:   adminManager,
	UsersRead:   anyone,
	UsersUpdate: anyone,
	UsersAdmin:  adminOnly,

	AccountSelf:   anyone,
	Notifications: anyone,
	Messages:      anyone,
}

// Allowed reports whether role may perform perm. Unknown permissions are
// denied.
func Allowed(perm Permission, role models.Role) bool {
	return slices.Contains(Permissions[perm], role)
}

// Require rejects callers whose role is not allowed perm. It must run
// after JWTAuth.
func Require(perm Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, models.ErrorCodeUnauthorized, "not authenticated")
				return
			}
			if !Allowed(perm, actor.Role) {
				logging.Logger.Warnf("Event ID: ACCESS_FORBIDDEN, Description: Role '%s' denied %s on %s %s, allowed roles: %v", actor.Role, perm, r.Method, r.URL.Path, Permissions[perm])
				writeError(w, http.StatusForbidden, models.ErrorCodeForbidden, "access forbidden: insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
