package models

import (
	"time"

	"github.com/google/uuid"
)

// Vote is a single ballot cast on a poll
type Vote struct {
	ID        uuid.UUID
	PollID    uuid.UUID
	OptionID  uuid.UUID
	UserPhone string
	Anonymous bool
	VotedAt   time.Time
	IPAddress string
	UserAgent string
}

// NewVote creates a vote cast now
func NewVote(pollID, optionID uuid.UUID, userPhone string, anonymous bool, ipAddress, userAgent string) *Vote {
	return &Vote{
		ID:        uuid.New(),
		PollID:    pollID,
		OptionID:  optionID,
		UserPhone: userPhone,
		Anonymous: anonymous,
		VotedAt:   time.Now(),
		IPAddress: truncate(ipAddress, 45),
		UserAgent: truncate(userAgent, 500),
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
