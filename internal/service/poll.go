package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/internal/event"
	"github.com/freshmarket/freshmarket/internal/repository"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
)

// minPollChoices is the fewest choices a poll may carry.
const minPollChoices = 2

// PollService implements the business logic for polls and voting.
type PollService struct {
	polls    repository.PollRepository
	votes    repository.VoteRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewPollService creates a new poll service.
func NewPollService(polls repository.PollRepository, votes repository.VoteRepository, producer *event.Producer, logger *slog.Logger) *PollService {
	return &PollService{
		polls:    polls,
		votes:    votes,
		producer: producer,
		logger:   logger,
	}
}

// CreatePollInput holds the parameters for creating a poll. Choices keep
// their declaration order.
type CreatePollInput struct {
	Title       string
	Description string
	CreatedBy   string
	Choices     []string
}

// CreatePoll creates a poll with its choices.
func (s *PollService) CreatePoll(ctx context.Context, input *CreatePollInput) (*domain.Poll, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.FieldError("title", "Title cannot be empty.")
	}
	if len(input.Choices) < minPollChoices {
		return nil, apperrors.FieldError("choices", fmt.Sprintf("A poll needs at least %d choices.", minPollChoices))
	}
	for _, c := range input.Choices {
		if strings.TrimSpace(c) == "" {
			return nil, apperrors.FieldError("choices", "Choice titles cannot be empty.")
		}
	}

	pollID := uuid.New().String()
	choices := make([]domain.PollChoice, 0, len(input.Choices))
	for i, title := range input.Choices {
		choices = append(choices, domain.PollChoice{
			ID:        uuid.New().String(),
			PollID:    pollID,
			Title:     strings.TrimSpace(title),
			SortOrder: i,
		})
	}

	poll := &domain.Poll{
		ID:          pollID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		CreatedBy:   input.CreatedBy,
		Choices:     choices,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.polls.Create(ctx, poll); err != nil {
		return nil, fmt.Errorf("create poll: %w", err)
	}

	s.logger.InfoContext(ctx, "poll created",
		slog.String("poll_id", poll.ID),
		slog.Int("choices", len(poll.Choices)),
	)

	return poll, nil
}

// GetPoll retrieves a poll with its choices.
func (s *PollService) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	poll, err := s.polls.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get poll by id: %w", err)
	}
	return poll, nil
}

// ListPolls returns polls, newest first, with the total count.
func (s *PollService) ListPolls(ctx context.Context, page, perPage int) ([]domain.Poll, int, error) {
	polls, total, err := s.polls.List(ctx, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list polls: %w", err)
	}
	return polls, total, nil
}

// DeletePoll removes a poll. Only its creator may delete it.
func (s *PollService) DeletePoll(ctx context.Context, id, userID string) error {
	poll, err := s.polls.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get poll for delete: %w", err)
	}

	if poll.CreatedBy != userID {
		return apperrors.Forbidden("only the poll creator can delete it")
	}

	if err := s.polls.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete poll: %w", err)
	}

	return nil
}

// CastVote records a user's vote. A second vote on the same poll is rejected.
func (s *PollService) CastVote(ctx context.Context, pollID, choiceID, userID string) (*domain.Vote, error) {
	poll, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("get poll for vote: %w", err)
	}

	valid := false
	for _, c := range poll.Choices {
		if c.ID == choiceID {
			valid = true
			break
		}
	}
	if !valid {
		return nil, apperrors.FieldError("choice", "Choice does not belong to this poll.")
	}

	vote := &domain.Vote{
		ID:        uuid.New().String(),
		PollID:    pollID,
		ChoiceID:  choiceID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.votes.Create(ctx, vote); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, apperrors.Conflict("user has already voted on this poll")
		}
		return nil, fmt.Errorf("create vote: %w", err)
	}

	if err := s.producer.PublishPollVoteCast(ctx, vote); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish poll.vote_cast event",
			slog.String("poll_id", pollID),
			slog.String("error", err.Error()),
		)
	}

	return vote, nil
}

// Tally returns per-choice vote counts in choice declaration order.
func (s *PollService) Tally(ctx context.Context, pollID string) ([]domain.TallyEntry, error) {
	if _, err := s.polls.GetByID(ctx, pollID); err != nil {
		return nil, fmt.Errorf("get poll for tally: %w", err)
	}

	entries, err := s.votes.Tally(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("tally votes: %w", err)
	}

	return entries, nil
}
