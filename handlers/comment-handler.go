package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/YNikhil188/BugCrew/services"
	"github.com/YNikhil188/BugCrew/uploads"
)

const maxAttachments = 3

type CommentHandler struct {
	service *services.CommentService
	files   *uploads.Store
}

func NewCommentHandler(service *services.CommentService, files *uploads.Store) *CommentHandler {
	return &CommentHandler{service: service, files: files}
}

func (h *CommentHandler) ListByBug(w http.ResponseWriter, r *http.Request) {
	bugID, err := pathID(r, "bugId", "bug")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	comments, err := h.service.ListByBug(r.Context(), bugID)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.Views(r.Context(), comments))
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	bugID, err := pathID(r, "bugId", "bug")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var content string
	var files []*multipart.FileHeader
	if isMultipart(r) {
		if files, err = formFiles(w, r, "attachments"); err != nil {
			WriteError(w, r, err)
			return
		}
		content = r.FormValue("content")
	} else {
		var req struct {
			Content string `json:"content"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			WriteError(w, r, err)
			return
		}
		content = req.Content
	}

	attachments, err := h.files.Save(files, maxAttachments)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	comment, err := h.service.Create(r.Context(), actorOf(r), bugID, content, attachments)
	if err != nil {
		h.files.Remove(attachments...)
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.service.View(r.Context(), comment))
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "comment")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	comment, err := h.service.Update(r.Context(), actorOf(r), id, req.Content)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.View(r.Context(), comment))
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "comment")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	comment, err := h.service.Delete(r.Context(), actorOf(r), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	h.files.Remove(comment.Attachments...)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Comment removed"})
}
