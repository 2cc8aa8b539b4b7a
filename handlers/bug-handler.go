package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/YNikhil188/BugCrew/logging"
	"github.com/YNikhil188/BugCrew/models"
	"github.com/YNikhil188/BugCrew/services"
	"github.com/YNikhil188/BugCrew/uploads"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxScreenshots  = 5
	maxMultipartMem = 32 << 20
)

type BugHandler struct {
	service *services.BugService
	files   *uploads.Store
}

func NewBugHandler(service *services.BugService, files *uploads.Store) *BugHandler {
	return &BugHandler{service: service, files: files}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// formFiles parses a multipart body and returns the files sent under field.
func formFiles(w http.ResponseWriter, r *http.Request, field string) ([]*multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartMem+maxScreenshots*uploads.MaxFileSize)
	if err := r.ParseMultipartForm(maxMultipartMem); err != nil {
		return nil, models.Validation("invalid multipart form: %v", err)
	}
	return r.MultipartForm.File[field], nil
}

func (h *BugHandler) List(w http.ResponseWriter, r *http.Request) {
	var project *primitive.ObjectID
	if raw := r.URL.Query().Get("project"); raw != "" {
		id, err := parseID(raw, "project")
		if err != nil {
			WriteError(w, r, err)
			return
		}
		project = &id
	}
	bugs, err := h.service.List(r.Context(), actorOf(r), project)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.Views(r.Context(), bugs))
}

func (h *BugHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *BugHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "bug")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	bug, err := h.service.Get(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.View(r.Context(), bug))
}

type createBugRequest struct {
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Project          string          `json:"project"`
	Priority         models.Priority `json:"priority"`
	Severity         models.Severity `json:"severity"`
	Type             models.BugType  `json:"type"`
	StepsToReproduce string          `json:"stepsToReproduce"`
	Environment      string          `json:"environment"`
}

// Create accepts a multipart form with up to five screenshots, or plain JSON.
func (h *BugHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBugRequest
	var files []*multipart.FileHeader
	if isMultipart(r) {
		var err error
		if files, err = formFiles(w, r, "screenshots"); err != nil {
			WriteError(w, r, err)
			return
		}
		req = createBugRequest{
			Title:            r.FormValue("title"),
			Description:      r.FormValue("description"),
			Project:          r.FormValue("project"),
			Priority:         models.Priority(r.FormValue("priority")),
			Severity:         models.Severity(r.FormValue("severity")),
			Type:             models.BugType(r.FormValue("type")),
			StepsToReproduce: r.FormValue("stepsToReproduce"),
			Environment:      r.FormValue("environment"),
		}
	} else if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	if req.Project == "" {
		WriteError(w, r, models.Validation("project is required"))
		return
	}
	projectID, err := parseID(req.Project, "project")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	screenshots, err := h.files.Save(files, maxScreenshots)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	bug, err := h.service.Create(r.Context(), actorOf(r), services.CreateBugInput{
		Title:            req.Title,
		Description:      req.Description,
		Project:          projectID,
		Priority:         req.Priority,
		Severity:         req.Severity,
		Type:             req.Type,
		StepsToReproduce: req.StepsToReproduce,
		Environment:      req.Environment,
		Screenshots:      screenshots,
	})
	if err != nil {
		h.files.Remove(screenshots...)
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.service.View(r.Context(), bug))
}

func (h *BugHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "bug")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req struct {
		Title            *string           `json:"title"`
		Description      *string           `json:"description"`
		Status           *models.BugStatus `json:"status"`
		Priority         *models.Priority  `json:"priority"`
		Severity         *models.Severity  `json:"severity"`
		Type             *models.BugType   `json:"type"`
		StepsToReproduce *string           `json:"stepsToReproduce"`
		Environment      *string           `json:"environment"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	bug, err := h.service.Update(r.Context(), actorOf(r), id, services.BugUpdate{
		Title:            req.Title,
		Description:      req.Description,
		Status:           req.Status,
		Priority:         req.Priority,
		Severity:         req.Severity,
		Type:             req.Type,
		StepsToReproduce: req.StepsToReproduce,
		Environment:      req.Environment,
	})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.View(r.Context(), bug))
}

func (h *BugHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "bug")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	bug, err := h.service.Get(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		WriteError(w, r, err)
		return
	}
	h.files.Remove(bug.Screenshots...)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Bug removed"})
}

func (h *BugHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "bug")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req struct {
		UserID    string `json:"userId"`
		SendEmail *bool  `json:"sendEmail"`
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
	bug, err := h.service.Assign(r.Context(), actorOf(r), id, userID, optionalBool(req.SendEmail))
	if err != nil {
		logging.Logger.Warnf("Event ID: ASSIGN_BUG_FAILED, Description: Assigning bug %s to %s failed: %v", id.Hex(), req.UserID, err)
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.View(r.Context(), bug))
}

func (h *BugHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "bug")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req struct {
		Action models.VerifyAction `json:"action"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	bug, err := h.service.Verify(r.Context(), actorOf(r), id, req.Action)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.View(r.Context(), bug))
}
