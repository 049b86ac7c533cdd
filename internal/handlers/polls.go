package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/t3ratech/bantora-web/internal/repository"
	"github.com/t3ratech/bantora-web/internal/services"
)

// PollHandler serves the poll API
type PollHandler struct {
	pollService services.PollService
}

// NewPollHandler creates a new poll handler
func NewPollHandler(pollService services.PollService) *PollHandler {
	return &PollHandler{pollService: pollService}
}

// List handles GET /api/polls?category=&sort=created|votes&limit=
func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sort := strings.ToLower(strings.TrimSpace(q.Get("sort")))
	switch sort {
	case "":
		sort = repository.SortCreated
	case repository.SortCreated, repository.SortVotes:
	default:
		sendErrorResponse(w, "sort must be created or votes", http.StatusBadRequest)
		return
	}

	limit, ok := parseLimit(w, q.Get("limit"))
	if !ok {
		return
	}

	polls, err := h.pollService.ListActive(r.Context(), repository.PollFilter{
		Category: strings.TrimSpace(q.Get("category")),
		Sort:     sort,
		Limit:    limit,
	})
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, polls)
}

// Popular handles GET /api/polls/popular?category=&limit=
func (h *PollHandler) Popular(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r.URL.Query().Get("limit"))
	if !ok {
		return
	}

	polls, err := h.pollService.Popular(r.Context(), strings.TrimSpace(r.URL.Query().Get("category")), limit)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, polls)
}

// Get handles GET /api/polls/{id}
func (h *PollHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		sendError(w, err)
		return
	}

	poll, err := h.pollService.Get(r.Context(), id)
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, poll)
}

// parseLimit reads an optional non-negative limit, answering 400 when malformed
func parseLimit(w http.ResponseWriter, raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		sendErrorResponse(w, "limit must be a non-negative integer", http.StatusBadRequest)
		return 0, false
	}
	return limit, true
}
