package handlers

import (
	"net/http"

	"github.com/YNikhil188/BugCrew/services"
)

type MessageHandler struct {
	service *services.MessageService
	users   *services.UserService
}

func NewMessageHandler(service *services.MessageService, users *services.UserService) *MessageHandler {
	return &MessageHandler{service: service, users: users}
}

func (h *MessageHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.service.Conversations(r.Context(), actorOf(r))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

func (h *MessageHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.Contacts(r.Context(), actorOf(r))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	partner, err := pathID(r, "userId", "user")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	msgs, err := h.service.Thread(r.Context(), actorOf(r), partner)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.service.Views(r.Context(), msgs))
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReceiverID string `json:"receiverId"`
		Content    string `json:"content"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err)
		return
	}
	receiver, err := parseID(req.ReceiverID, "receiver")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	msg, err := h.service.Send(r.Context(), actorOf(r), receiver, req.Content)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.service.View(r.Context(), msg))
}

func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	partner, err := pathID(r, "userId", "user")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if _, err := h.service.MarkRead(r.Context(), actorOf(r), partner); err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Messages marked as read"})
}
