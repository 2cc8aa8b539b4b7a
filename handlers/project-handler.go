package handlers

import (
	"net/http"
	"time"

	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.Views(r.Context(), projects))
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "project")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	project, err := h.service.Get(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.View(r.Context(), project))
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string               `json:"name"`
		Description string               `json:"description"`
		Manager     string               `json:"manager"`
		Status      models.ProjectStatus `json:"status"`
		Priority    models.Priority      `json:"priority"`
		Progress    int                  `json:"progress"`
		StartDate   *time.Time           `json:"startDate"`
		EndDate     *time.Time           `json:"endDate"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	var manager *primitive.ObjectID
	if req.Manager != "" {
		id, err := parseID(req.Manager, "manager")
		if err != nil {
			WriteError(w, r, err)
			return
		}
		manager = &id
	}
	project, err := h.service.Create(r.Context(), actorOf(r), services.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Manager:     manager,
		Status:      req.Status,
		Priority:    req.Priority,
		Progress:    req.Progress,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.service.View(r.Context(), project))
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "project")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req struct {
		Name        *string               `json:"name"`
		Description *string               `json:"description"`
		Status      *models.ProjectStatus `json:"status"`
		Priority    *models.Priority      `json:"priority"`
		Progress    *int                  `json:"progress"`
		StartDate   *time.Time            `json:"startDate"`
		EndDate     *time.Time            `json:"endDate"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	project, err := h.service.Update(r.Context(), actorOf(r), id, services.ProjectUpdate{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Progress:    req.Progress,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.View(r.Context(), project))
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "project")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Project removed"})
}

func (h *ProjectHandler) AddTeamMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "project")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req struct {
		UserID    string      `json:"userId"`
		Role      models.Role `json:"role"`
		SendEmail *bool       `json:"sendEmail"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	userID, err := parseID(req.UserID, "user")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	project, err := h.service.AddTeamMember(r.Context(), id, userID, req.Role, optionalBool(req.SendEmail))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.View(r.Context(), project))
}

func (h *ProjectHandler) RemoveTeamMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "project")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	userID, err := pathID(r, "userId", "user")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	project, err := h.service.RemoveTeamMember(r.Context(), id, userID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.View(r.Context(), project))
}
