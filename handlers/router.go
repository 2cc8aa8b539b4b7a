package handlers

import (
	"net/http"
	"time"

	"github.com/YNikhil188/BugCrew/middleware"
	"github.com/YNikhil188/BugCrew/services"
	"github.com/YNikhil188/BugCrew/uploads"

	"github.com/gorilla/mux"
)

// Deps is everything the HTTP layer needs from the rest of the process.
type Deps struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Projects      *services.ProjectService
	Bugs          *services.BugService
	Comments      *services.CommentService
	Notifications *services.NotificationService
	Messages      *services.MessageService
	Files         *uploads.Store
	CORSOrigin    string
}

// NewRouter mounts the API under /api. Uploaded files and the health probe
// live at the root.
func NewRouter(d Deps) http.Handler {
	authH := NewAuthHandler(d.Auth)
	userH := NewUserHandler(d.Users)
	projectH := NewProjectHandler(d.Projects)
	bugH := NewBugHandler(d.Bugs, d.Files)
	commentH := NewCommentHandler(d.Comments, d.Files)
	notificationH := NewNotificationHandler(d.Notifications)
	messageH := NewMessageHandler(d.Messages, d.Users)

	authenticate := middleware.JWTAuth(d.Auth)
	guard := func(perm middleware.Permission, h http.HandlerFunc) http.Handler {
		return authenticate(middleware.Require(perm)(h))
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", health).Methods(http.MethodGet)
	r.Handle("/uploads/{filename}", serveUpload(d.Files)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", authH.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authH.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/forgot-password", authH.ForgotPassword).Methods(http.MethodPost)
	api.Handle("/auth/me", guard(middleware.AccountSelf, authH.Me)).Methods(http.MethodGet)
	api.Handle("/auth/change-password", guard(middleware.AccountSelf, authH.ChangePassword)).Methods(http.MethodPut)

	// Literal segments are registered ahead of the {id} patterns they shadow.
	api.Handle("/bugs", guard(middleware.BugsRead, bugH.List)).Methods(http.MethodGet)
	api.Handle("/bugs", guard(middleware.BugsCreate, bugH.Create)).Methods(http.MethodPost)
	api.Handle("/bugs/stats", guard(middleware.BugsRead, bugH.Stats)).Methods(http.MethodGet)
	api.Handle("/bugs/{id}", guard(middleware.BugsRead, bugH.Get)).Methods(http.MethodGet)
	api.Handle("/bugs/{id}", guard(middleware.BugsUpdate, bugH.Update)).Methods(http.MethodPut)
	api.Handle("/bugs/{id}", guard(middleware.BugsDelete, bugH.Delete)).Methods(http.MethodDelete)
	api.Handle("/bugs/{id}/assign", guard(middleware.BugsAssign, bugH.Assign)).Methods(http.MethodPut)
	api.Handle("/bugs/{id}/verify", guard(middleware.BugsVerify, bugH.Verify)).Methods(http.MethodPut)

	api.Handle("/comments/bug/{bugId}", guard(middleware.BugsComment, commentH.ListByBug)).Methods(http.MethodGet)
	api.Handle("/comments/bug/{bugId}", guard(middleware.BugsComment, commentH.Create)).Methods(http.MethodPost)
	api.Handle("/comments/{id}", guard(middleware.BugsComment, commentH.Update)).Methods(http.MethodPut)
	api.Handle("/comments/{id}", guard(middleware.BugsComment, commentH.Delete)).Methods(http.MethodDelete)

	api.Handle("/projects", guard(middleware.ProjectsRead, projectH.List)).Methods(http.MethodGet)
	api.Handle("/projects", guard(middleware.ProjectsCreate, projectH.Create)).Methods(http.MethodPost)
	api.Handle("/projects/{id}", guard(middleware.ProjectsRead, projectH.Get)).Methods(http.MethodGet)
	api.Handle("/projects/{id}", guard(middleware.ProjectsUpdate, projectH.Update)).Methods(http.MethodPut)
	api.Handle("/projects/{id}", guard(middleware.ProjectsDelete, projectH.Delete)).Methods(http.MethodDelete)
	api.Handle("/projects/{id}/team", guard(middleware.ProjectsTeam, projectH.AddTeamMember)).Methods(http.MethodPost)
	api.Handle("/projects/{id}/team/{userId}", guard(middleware.ProjectsTeam, projectH.RemoveTeamMember)).Methods(http.MethodDelete)

	api.Handle("/users", guard(middleware.UsersList, userH.List)).Methods(http.MethodGet)
	api.Handle("/users/role/{role}", guard(middleware.UsersRead, userH.ByRole)).Methods(http.MethodGet)
	api.Handle("/users/{id}", guard(middleware.UsersRead, userH.Get)).Methods(http.MethodGet)
	api.Handle("/users/{id}", guard(middleware.UsersUpdate, userH.Update)).Methods(http.MethodPut)
	api.Handle("/users/{id}", guard(middleware.UsersAdmin, userH.Delete)).Methods(http.MethodDelete)
	api.Handle("/users/{id}/toggle-active", guard(middleware.UsersAdmin, userH.ToggleActive)).Methods(http.MethodPut)

	api.Handle("/notifications", guard(middleware.Notifications, notificationH.List)).Methods(http.MethodGet)
	api.Handle("/notifications/unread-count", guard(middleware.Notifications, notificationH.UnreadCount)).Methods(http.MethodGet)
	api.Handle("/notifications/mark-all-read", guard(middleware.Notifications, notificationH.MarkAllRead)).Methods(http.MethodPut)
	api.Handle("/notifications/{id}/read", guard(middleware.Notifications, notificationH.MarkRead)).Methods(http.MethodPut)
	api.Handle("/notifications/{id}", guard(middleware.Notifications, notificationH.Delete)).Methods(http.MethodDelete)

	api.Handle("/messages/conversations", guard(middleware.Messages, messageH.Conversations)).Methods(http.MethodGet)
	api.Handle("/messages/users/all", guard(middleware.Messages, messageH.Contacts)).Methods(http.MethodGet)
	api.Handle("/messages", guard(middleware.Messages, messageH.Send)).Methods(http.MethodPost)
	api.Handle("/messages/read/{userId}", guard(middleware.Messages, messageH.MarkRead)).Methods(http.MethodPut)
	api.Handle("/messages/{userId}", guard(middleware.Messages, messageH.Thread)).Methods(http.MethodGet)

	return middleware.Recover(middleware.RequestLogger(middleware.CORS(d.CORSOrigin)(r)))
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func serveUpload(files *uploads.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, ok := files.Path(mux.Vars(r)["filename"])
		if !ok {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	})
}
