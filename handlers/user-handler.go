package handlers

import (
	"net/http"

	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/services"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) ByRole(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ByRole(r.Context(), models.Role(mux.Vars(r)["role"]))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "user")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "user")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req struct {
		Name       *string      `json:"name"`
		Email      *string      `json:"email"`
		Phone      *string      `json:"phone"`
		Department *string      `json:"department"`
		Avatar     *string      `json:"avatar"`
		Role       *models.Role `json:"role"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	user, err := h.service.Update(r.Context(), actorOf(r), id, services.UserUpdate{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
		Avatar:     req.Avatar,
		Role:       req.Role,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "user")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	user, err := h.service.ToggleActive(r.Context(), actorOf(r), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	state := "deactivated"
	if user.IsActive {
		state = "activated"
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "User " + state, "isActive": user.IsActive})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "user")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User removed"})
}
