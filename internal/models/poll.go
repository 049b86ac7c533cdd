package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PollStatus represents valid poll states
type PollStatus string

// Poll statuses
const (
	PollStatusPending   PollStatus = "PENDING"
	PollStatusActive    PollStatus = "ACTIVE"
	PollStatusClosed    PollStatus = "CLOSED"
	PollStatusCancelled PollStatus = "CANCELLED"
)

// PollScope is the audience a poll is addressed to
type PollScope string

// Poll scopes
const (
	PollScopeNational    PollScope = "NATIONAL"
	PollScopeRegional    PollScope = "REGIONAL"
	PollScopeContinental PollScope = "CONTINENTAL"
)

// MinPollOptions is the smallest number of options a poll can be created with
const MinPollOptions = 2

// Poll represents a poll and its options
type Poll struct {
	ID                 uuid.UUID    `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	CreatorPhone       string       `json:"creatorPhone"`
	Category           string       `json:"category,omitempty"`
	Scope              PollScope    `json:"scope"`
	Status             PollStatus   `json:"status"`
	StartTime          time.Time    `json:"startTime"`
	EndTime            time.Time    `json:"endTime"`
	AllowMultipleVotes bool         `json:"allowMultipleVotes"`
	TotalVotes         int64        `json:"totalVotes"`
	Options            []PollOption `json:"options"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`
}

// PollOption is one answer of a poll
type PollOption struct {
	ID          uuid.UUID `json:"id"`
	PollID      uuid.UUID `json:"pollId"`
	OptionText  string    `json:"optionText"`
	OptionOrder int       `json:"optionOrder"`
	VotesCount  int64     `json:"votesCount"`
}

// Domain errors
var (
	ErrPollNotFound            = errors.New("poll not found")
	ErrOptionNotInPoll         = errors.New("option does not belong to poll")
	ErrPollNotActive           = errors.New("poll is not accepting votes")
	ErrAlreadyVoted            = errors.New("user has already voted")
	ErrInvalidPollTitle        = errors.New("poll title cannot be empty")
	ErrInvalidPollOptions      = errors.New("poll needs at least two non-empty options")
	ErrInvalidPollWindow       = errors.New("poll end time must be after start time")
	ErrInvalidPollScope        = errors.New("invalid poll scope")
	ErrInvalidStatusTransition = errors.New("invalid poll status transition")
)

// NewPoll creates a pending poll with validation
func NewPoll(title, description, creatorPhone string, scope PollScope, optionTexts []string, start, end time.Time) (*Poll, error) {
	if err := validatePollInput(title, scope, optionTexts, start, end); err != nil {
		return nil, err
	}

	now := time.Now()
	poll := &Poll{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(title),
		Description:  strings.TrimSpace(description),
		CreatorPhone: creatorPhone,
		Scope:        scope,
		Status:       PollStatusPending,
		StartTime:    start,
		EndTime:      end,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for i, text := range optionTexts {
		poll.Options = append(poll.Options, PollOption{
			ID:          uuid.New(),
			PollID:      poll.ID,
			OptionText:  strings.TrimSpace(text),
			OptionOrder: i + 1,
		})
	}

	return poll, nil
}

// validatePollInput validates poll creation parameters
func validatePollInput(title string, scope PollScope, optionTexts []string, start, end time.Time) error {
	if strings.TrimSpace(title) == "" {
		return ErrInvalidPollTitle
	}
	switch scope {
	case PollScopeNational, PollScopeRegional, PollScopeContinental:
	default:
		return ErrInvalidPollScope
	}
	if len(optionTexts) < MinPollOptions {
		return ErrInvalidPollOptions
	}
	for _, text := range optionTexts {
		if strings.TrimSpace(text) == "" {
			return ErrInvalidPollOptions
		}
	}
	if !end.After(start) {
		return ErrInvalidPollWindow
	}
	return nil
}

// Activate opens a pending poll for voting
func (p *Poll) Activate() error {
	if p.Status != PollStatusPending {
		return fmt.Errorf("%w: cannot activate poll with status %s", ErrInvalidStatusTransition, p.Status)
	}

	p.Status = PollStatusActive
	p.UpdatedAt = time.Now()
	return nil
}

// IsActive returns true if the poll accepts votes at the given time
func (p *Poll) IsActive(now time.Time) bool {
	return p.Status == PollStatusActive && p.EndTime.After(now)
}

// Option returns the option with the given id
func (p *Poll) Option(optionID uuid.UUID) (*PollOption, bool) {
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			return &p.Options[i], true
		}
	}
	return nil, false
}

// RecordVote counts one vote for the given option.
// The option is checked before the poll state.
func (p *Poll) RecordVote(optionID uuid.UUID, now time.Time) error {
	option, ok := p.Option(optionID)
	if !ok {
		return ErrOptionNotInPoll
	}
	if !p.IsActive(now) {
		return ErrPollNotActive
	}

	option.VotesCount++
	p.TotalVotes++
	p.UpdatedAt = now
	return nil
}

// MatchesQuery reports whether the poll title or description contains the query, ignoring case
func (p *Poll) MatchesQuery(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), query) ||
		strings.Contains(strings.ToLower(p.Description), query)
}
