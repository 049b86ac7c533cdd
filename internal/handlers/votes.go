package handlers

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/t3ratech/bantora-web/internal/services"
)

// VoteHandler serves ballot submission
type VoteHandler struct {
	voteService services.VoteService
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(voteService services.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

// VoteBody is the request body of POST /api/votes
type VoteBody struct {
	PollID    uuid.UUID `json:"pollId"`
	OptionID  uuid.UUID `json:"optionId"`
	Anonymous bool      `json:"anonymous"`
}

// Submit handles POST /api/votes
func (h *VoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	phone, ok := UserPhone(r.Context())
	if !ok {
		sendErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var body VoteBody
	if err := decodeJSON(w, r, &body); err != nil {
		sendError(w, err)
		return
	}
	if body.PollID == uuid.Nil || body.OptionID == uuid.Nil {
		sendErrorResponse(w, "pollId and optionId are required", http.StatusBadRequest)
		return
	}

	poll, err := h.voteService.SubmitVote(r.Context(), services.VoteRequest{
		PollID:    body.PollID,
		OptionID:  body.OptionID,
		UserPhone: phone,
		Anonymous: body.Anonymous,
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		sendError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, poll)
}

// clientIP returns the first X-Forwarded-For entry, else the remote address without its port
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
