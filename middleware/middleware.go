package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/YNikhil188/BugCrew/logging"
	"github.com/YNikhil188/BugCrew/models"
)

type ctxKey int

const actorKey ctxKey = iota

func WithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the caller placed on the context by JWTAuth.
func ActorFrom(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(models.Actor)
	return actor, ok
}

// Authenticator resolves a bearer token to the user making the request.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"code": code, "message": message})
}

// JWTAuth rejects requests without a valid bearer token and stores the
// current state of the token's user on the context.
func JWTAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
				writeError(w, http.StatusUnauthorized, models.ErrorCodeUnauthorized, "authorization header missing")
				return
			}
			tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenStr == "" {
				logging.Logger.Warnf("Event ID: JWT_AUTH_BEARER_PREFIX_MISSING, Description: Bearer prefix missing for request to %s %s", r.Method, r.URL.Path)
				writeError(w, http.StatusUnauthorized, models.ErrorCodeUnauthorized, "bearer token required")
				return
			}

			user, err := auth.Authenticate(r.Context(), tokenStr)
			if err != nil {
				code := models.ErrorCode(err)
				if code != models.ErrorCodeUnauthorized {
					logging.Logger.Errorf("Event ID: JWT_AUTH_LOOKUP_FAILED, Description: Could not authenticate %s %s: %v", r.Method, r.URL.Path, err)
					writeError(w, http.StatusInternalServerError, models.ErrorCodeInternal, err.Error())
					return
				}
				logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token for request to %s %s: %v", r.Method, r.URL.Path, err)
				writeError(w, http.StatusUnauthorized, code, err.Error())
				return
			}

			logging.Logger.Debugf("Event ID: JWT_AUTH_SUCCESS, Description: %s (%s) authenticated for %s %s", user.Email, user.Role, r.Method, r.URL.Path)
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), models.ActorFromUser(user))))
		})
	}
}

// CORS answers preflight requests and tags every response for origin.
func CORS(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
