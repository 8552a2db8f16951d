package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/freshmarket/freshmarket/internal/domain"
	"github.com/freshmarket/freshmarket/pkg/database"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
)

// PollRepository implements repository.PollRepository using PostgreSQL.
type PollRepository struct {
	db database.DBTX
}

// NewPollRepository creates a new PostgreSQL-backed poll repository.
func NewPollRepository(db database.DBTX) *PollRepository {
	return &PollRepository{db: db}
}

// Create inserts a poll and its choices inside one transaction.
func (r *PollRepository) Create(ctx context.Context, p *domain.Poll) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin poll create: %w", err)
	}
	defer tx.Rollback(ctx)

	pollQuery := `
		INSERT INTO polls (id, title, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.Exec(ctx, pollQuery, p.ID, p.Title, p.Description, p.CreatedBy, p.CreatedAt); err != nil {
		return fmt.Errorf("insert poll: %w", err)
	}

	choiceQuery := `
		INSERT INTO poll_choices (id, poll_id, title, sort_order)
		VALUES ($1, $2, $3, $4)`

	for _, c := range p.Choices {
		if _, err := tx.Exec(ctx, choiceQuery, c.ID, c.PollID, c.Title, c.SortOrder); err != nil {
			return fmt.Errorf("insert poll choice: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit poll create: %w", err)
	}

	return nil
}

// GetByID retrieves a poll with its choices in declaration order.
func (r *PollRepository) GetByID(ctx context.Context, id string) (*domain.Poll, error) {
	query := `
		SELECT id, title, description, created_by, created_at
		FROM polls
		WHERE id = $1`

	var p domain.Poll
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.CreatedBy,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("poll", id)
		}
		return nil, fmt.Errorf("scan poll: %w", err)
	}

	choices, err := r.listChoices(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Choices = choices

	return &p, nil
}

// List returns polls newest first with the total count. Choices are loaded
// per poll.
func (r *PollRepository) List(ctx context.Context, page, perPage int) ([]domain.Poll, int, error) {
	if perPage <= 0 {
		perPage = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * perPage
	}

	query := `
		SELECT id, title, description, created_by, created_at, count(*) OVER() AS total_count
		FROM polls
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list polls: %w", err)
	}
	defer rows.Close()

	var (
		polls      []domain.Poll
		totalCount int
	)

	for rows.Next() {
		var p domain.Poll
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.CreatedBy, &p.CreatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan poll row: %w", err)
		}
		polls = append(polls, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate poll rows: %w", err)
	}

	for i := range polls {
		choices, err := r.listChoices(ctx, polls[i].ID)
		if err != nil {
			return nil, 0, err
		}
		polls[i].Choices = choices
	}

	if polls == nil {
		polls = []domain.Poll{}
	}

	return polls, totalCount, nil
}

// Delete removes a poll. Choices and votes go with it via ON DELETE CASCADE.
func (r *PollRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete poll: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("poll", id)
	}

	return nil
}

func (r *PollRepository) listChoices(ctx context.Context, pollID string) ([]domain.PollChoice, error) {
	query := `
		SELECT id, poll_id, title, sort_order
		FROM poll_choices
		WHERE poll_id = $1
		ORDER BY sort_order ASC`

	rows, err := r.db.Query(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("list poll choices: %w", err)
	}
	defer rows.Close()

	var choices []domain.PollChoice
	for rows.Next() {
		var c domain.PollChoice
		if err := rows.Scan(&c.ID, &c.PollID, &c.Title, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan poll choice row: %w", err)
		}
		choices = append(choices, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate poll choice rows: %w", err)
	}

	if choices == nil {
		choices = []domain.PollChoice{}
	}

	return choices, nil
}

// VoteRepository implements repository.VoteRepository using PostgreSQL. The
// votes table carries UNIQUE (poll_id, user_id), which enforces one vote per
// user per poll.
type VoteRepository struct {
	db database.DBTX
}

// NewVoteRepository creates a new PostgreSQL-backed vote repository.
func NewVoteRepository(db database.DBTX) *VoteRepository {
	return &VoteRepository{db: db}
}

// Create inserts a vote.
func (r *VoteRepository) Create(ctx context.Context, v *domain.Vote) error {
	query := `
		INSERT INTO votes (id, poll_id, choice_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query, v.ID, v.PollID, v.ChoiceID, v.UserID, v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("vote", "poll", v.PollID)
		}
		return fmt.Errorf("insert vote: %w", err)
	}

	return nil
}

// Tally returns per-choice vote counts in choice declaration order. Choices
// with no votes appear with a zero count, so the counts always sum to the
// poll's total votes.
func (r *VoteRepository) Tally(ctx context.Context, pollID string) ([]domain.TallyEntry, error) {
	query := `
		SELECT c.id, c.title, count(v.id)
		FROM poll_choices c
		LEFT JOIN votes v ON v.choice_id = c.id
		WHERE c.poll_id = $1
		GROUP BY c.id, c.title, c.sort_order
		ORDER BY c.sort_order ASC`

	rows, err := r.db.Query(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("tally votes: %w", err)
	}
	defer rows.Close()

	var entries []domain.TallyEntry
	for rows.Next() {
		var e domain.TallyEntry
		if err := rows.Scan(&e.ChoiceID, &e.Title, &e.Count); err != nil {
			return nil, fmt.Errorf("scan tally row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tally rows: %w", err)
	}

	if entries == nil {
		entries = []domain.TallyEntry{}
	}

	return entries, nil
}
