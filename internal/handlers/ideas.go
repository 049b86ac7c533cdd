package handlers

import (
	"net/http"

	"github.com/t3ratech/bantora-web/internal/services"
)

// IdeaHandler serves the idea API
type IdeaHandler struct {
	ideaService services.IdeaService
}

// NewIdeaHandler creates a new idea handler
func NewIdeaHandler(ideaService services.IdeaService) *IdeaHandler {
	return &IdeaHandler{ideaService: ideaService}
}

// List handles GET /api/ideas?status=PENDING&category=&hashtag=
func (h *IdeaHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ideas, err := h.ideaService.List(r.Context(), q.Get("status"), q.Get("category"), q.Get("hashtag"))
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, ideas)
}

// Get handles GET /api/ideas/{id}
func (h *IdeaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		sendError(w, err)
		return
	}

	idea, err := h.ideaService.Get(r.Context(), id)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, idea)
}

// Create handles POST /api/ideas
func (h *IdeaHandler) Create(w http.ResponseWriter, r *http.Request) {
	phone, ok := UserPhone(r.Context())
	if !ok {
		sendErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req services.CreateIdeaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, err)
		return
	}

	idea, err := h.ideaService.Create(r.Context(), phone, req)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, idea)
}

// Upvote handles POST /api/ideas/{id}/upvote
func (h *IdeaHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		sendError(w, err)
		return
	}

	idea, err := h.ideaService.Upvote(r.Context(), id)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, idea)
}
