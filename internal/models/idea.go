package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// IdeaStatus represents valid idea states
type IdeaStatus string

// Idea statuses
const (
	IdeaStatusPending   IdeaStatus = "PENDING"
	IdeaStatusProcessed IdeaStatus = "PROCESSED"
	IdeaStatusRejected  IdeaStatus = "REJECTED"
)

// MaxHashtagLength is the longest hashtag accepted after normalization
const MaxHashtagLength = 64

// Idea is a raw suggestion that may later be turned into a poll
type Idea struct {
	ID        uuid.UUID  `json:"id"`
	UserPhone string     `json:"userPhone"`
	Content   string     `json:"content"`
	Category  string     `json:"category,omitempty"`
	Hashtags  []string   `json:"hashtags"`
	Status    IdeaStatus `json:"status"`
	Summary   string     `json:"aiSummary,omitempty"`
	Upvotes   int64      `json:"upvotes"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Domain errors
var (
	ErrIdeaNotFound       = errors.New("idea not found")
	ErrInvalidIdeaContent = errors.New("missing required field: content")
	ErrMissingHashtags    = errors.New("missing required field: hashtags")
	ErrHashtagTooLong     = fmt.Errorf("hashtag too long (max %d)", MaxHashtagLength)
	ErrInvalidIdeaStatus  = errors.New("invalid status")
	ErrIdeaNotPending     = errors.New("idea is not pending")
)

// NewIdea creates a pending idea with validation
func NewIdea(userPhone, content, category string, hashtags []string) (*Idea, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalidIdeaContent
	}

	tags, err := NormalizeHashtags(hashtags)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, ErrMissingHashtags
	}

	return &Idea{
		ID:        uuid.New(),
		UserPhone: userPhone,
		Content:   content,
		Category:  strings.TrimSpace(category),
		Hashtags:  tags,
		Status:    IdeaStatusPending,
		CreatedAt: time.Now(),
	}, nil
}

// ParseIdeaStatus parses a status name, ignoring case and surrounding space
func ParseIdeaStatus(raw string) (IdeaStatus, error) {
	status := IdeaStatus(strings.ToUpper(strings.TrimSpace(raw)))
	switch status {
	case IdeaStatusPending, IdeaStatusProcessed, IdeaStatusRejected:
		return status, nil
	default:
		return "", ErrInvalidIdeaStatus
	}
}

// NormalizeHashtag lower-cases a tag and strips one leading '#'.
// An empty result means the tag should be ignored.
func NormalizeHashtag(raw string) (string, error) {
	tag := strings.TrimSpace(raw)
	tag = strings.TrimPrefix(tag, "#")
	tag = strings.ToLower(strings.TrimSpace(tag))
	if len(tag) > MaxHashtagLength {
		return "", ErrHashtagTooLong
	}
	return tag, nil
}

// NormalizeHashtags normalizes every tag, dropping blanks and keeping the
// first occurrence of duplicates
func NormalizeHashtags(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, r := range raw {
		tag, err := NormalizeHashtag(r)
		if err != nil {
			return nil, err
		}
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags, nil
}

// Process marks a pending idea as turned into a poll
func (i *Idea) Process(summary string) error {
	if i.Status != IdeaStatusPending {
		return fmt.Errorf("%w: status %s", ErrIdeaNotPending, i.Status)
	}
	i.Status = IdeaStatusProcessed
	i.Summary = summary
	return nil
}

// MatchesQuery reports whether the idea content contains the query, ignoring case
func (i *Idea) MatchesQuery(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Content), query)
}
