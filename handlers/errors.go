package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/YNikhil188/BugCrew/logging"
	"github.com/YNikhil188/BugCrew/middleware"
	"github.com/YNikhil188/BugCrew/models"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxJSONBody = 1 << 20

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger.Errorf("Event ID: WRITE_RESPONSE_FAILED, Description: Could not encode response: %v", err)
	}
}

func statusFor(code string) int {
	switch code {
	case models.ErrorCodeNotFound:
		return http.StatusNotFound
	case models.ErrorCodeForbidden:
		return http.StatusForbidden
	case models.ErrorCodeValidation:
		return http.StatusBadRequest
	case models.ErrorCodeConflict:
		return http.StatusConflict
	case models.ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// WriteError maps err's domain code to a status and writes the error body.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code := models.ErrorCode(err)
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %s %s failed: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return models.Validation("request body is required")
		}
		return models.Validation("invalid request payload: %v", err)
	}
	return nil
}

func parseID(raw, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, models.Validation("invalid %s id %q", what, raw)
	}
	return id, nil
}

func pathID(r *http.Request, key, what string) (primitive.ObjectID, error) {
	return parseID(mux.Vars(r)[key], what)
}

func actorOf(r *http.Request) models.Actor {
	actor, _ := middleware.ActorFrom(r.Context())
	return actor
}

// optionalBool reads a JSON flag that defaults to true when absent.
func optionalBool(b *bool) bool {
	return b == nil || *b
}
