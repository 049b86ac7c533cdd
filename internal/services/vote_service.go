package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/t3ratech/bantora-web/internal/metrics"
	"github.com/t3ratech/bantora-web/internal/models"
)

// VoteRequest carries one ballot and the client details recorded with it
type VoteRequest struct {
	PollID    uuid.UUID
	OptionID  uuid.UUID
	UserPhone string
	Anonymous bool
	IPAddress string
	UserAgent string
}

// VoteService handles ballot submission
type VoteService interface {
	SubmitVote(ctx context.Context, req VoteRequest) (*models.Poll, error)
}

// VoteServiceImpl implements VoteService
type VoteServiceImpl struct {
	pollRepo PollRepository
	now      func() time.Time
}

// NewVoteService creates a new vote service
func NewVoteService(pollRepo PollRepository) VoteService {
	return &VoteServiceImpl{
		pollRepo: pollRepo,
		now:      time.Now,
	}
}

// SubmitVote validates and records a vote, returning the poll with updated counts
func (s *VoteServiceImpl) SubmitVote(ctx context.Context, req VoteRequest) (*models.Poll, error) {
	poll, err := s.submit(ctx, req)
	switch {
	case err == nil:
		metrics.VotesTotal.WithLabelValues("accepted").Inc()
	case isVoteRejection(err):
		metrics.VotesTotal.WithLabelValues("rejected").Inc()
	default:
		metrics.VotesTotal.WithLabelValues("error").Inc()
		log.Printf("Error recording vote on poll %s: %v", req.PollID, err)
	}
	return poll, err
}

func (s *VoteServiceImpl) submit(ctx context.Context, req VoteRequest) (*models.Poll, error) {
	poll, err := s.pollRepo.GetByID(ctx, req.PollID)
	if err != nil {
		return nil, err
	}

	// Validated on the loaded snapshot, which then carries this vote.
	if err := poll.RecordVote(req.OptionID, s.now()); err != nil {
		return nil, err
	}

	if req.UserPhone != "" && !poll.AllowMultipleVotes {
		voted, err := s.pollRepo.HasVoted(ctx, poll.ID, req.UserPhone)
		if err != nil {
			return nil, err
		}
		if voted {
			return nil, models.ErrAlreadyVoted
		}
	}

	vote := models.NewVote(poll.ID, req.OptionID, req.UserPhone, req.Anonymous, req.IPAddress, req.UserAgent)
	if err := s.pollRepo.RecordVote(ctx, vote); err != nil {
		return nil, err
	}

	updated, err := s.pollRepo.GetByID(ctx, poll.ID)
	if err != nil {
		log.Printf("Vote recorded but poll %s could not be reloaded: %v", poll.ID, err)
		return poll, nil
	}
	return updated, nil
}

func isVoteRejection(err error) bool {
	return errors.Is(err, models.ErrPollNotFound) ||
		errors.Is(err, models.ErrOptionNotInPoll) ||
		errors.Is(err, models.ErrPollNotActive) ||
		errors.Is(err, models.ErrAlreadyVoted)
}
