package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/t3ratech/bantora-web/internal/database"
	"github.com/t3ratech/bantora-web/internal/models"
)

// IdeaFilter narrows an idea listing
type IdeaFilter struct {
	Status   models.IdeaStatus
	Category string
	Hashtag  string
}

// IdeaRepository handles database operations for ideas
type IdeaRepository struct {
	db *sql.DB
}

// NewIdeaRepository creates a new idea repository
func NewIdeaRepository() *IdeaRepository {
	return &IdeaRepository{
		db: database.DB,
	}
}

// NewIdeaRepositoryWithDB creates a new idea repository with a specific database connection
func NewIdeaRepositoryWithDB(db *sql.DB) *IdeaRepository {
	return &IdeaRepository{
		db: db,
	}
}

const ideaColumns = `id, user_phone, content, category, hashtags, status, summary, upvotes, created_at`

// List returns ideas with the given status, newest first
func (r *IdeaRepository) List(ctx context.Context, filter IdeaFilter) ([]models.Idea, error) {
	var (
		where = []string{"status = $1"}
		args  = []interface{}{string(filter.Status)}
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Hashtag != "" {
		args = append(args, filter.Hashtag)
		where = append(where, fmt.Sprintf("$%d = ANY(hashtags)", len(args)))
	}

	query := fmt.Sprintf("SELECT %s FROM bantora_ideas WHERE %s ORDER BY created_at DESC",
		ideaColumns, strings.Join(where, " AND "))

	return r.query(ctx, query, args...)
}

// ListPromotable returns pending ideas with at least the given number of upvotes, most upvoted first
func (r *IdeaRepository) ListPromotable(ctx context.Context, threshold int64) ([]models.Idea, error) {
	query := fmt.Sprintf(`SELECT %s FROM bantora_ideas
		WHERE status = 'PENDING' AND upvotes >= $1
		ORDER BY upvotes DESC, created_at ASC`, ideaColumns)

	return r.query(ctx, query, threshold)
}

// GetByID retrieves an idea by its id
func (r *IdeaRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	query := fmt.Sprintf("SELECT %s FROM bantora_ideas WHERE id = $1", ideaColumns)

	idea, err := scanIdea(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrIdeaNotFound
	}
	if err != nil {
		return nil, err
	}
	return idea, nil
}

// Create inserts a new idea
func (r *IdeaRepository) Create(ctx context.Context, idea *models.Idea) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bantora_ideas (id, user_phone, content, category, hashtags, status, summary, upvotes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		idea.ID, idea.UserPhone, idea.Content, idea.Category, pq.Array(idea.Hashtags),
		string(idea.Status), idea.Summary, idea.Upvotes, idea.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create idea: %w", err)
	}
	return nil
}

// Upvote increments an idea's upvote count and returns the updated idea
func (r *IdeaRepository) Upvote(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	query := fmt.Sprintf(`UPDATE bantora_ideas SET upvotes = upvotes + 1 WHERE id = $1 RETURNING %s`, ideaColumns)

	idea, err := scanIdea(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrIdeaNotFound
	}
	if err != nil {
		return nil, err
	}
	return idea, nil
}

// PromoteToPoll marks a pending idea PROCESSED with summary and stores poll in the same
// transaction. An idea that is no longer pending yields ErrIdeaNotPending and no poll is written.
func (r *IdeaRepository) PromoteToPoll(ctx context.Context, id uuid.UUID, summary string, poll *models.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE bantora_ideas SET status = 'PROCESSED', summary = $1 WHERE id = $2 AND status = 'PENDING'`,
		summary, id)
	if err != nil {
		return fmt.Errorf("failed to mark idea processed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return models.ErrIdeaNotPending
	}

	if err := insertPoll(ctx, tx, poll); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit promotion: %w", err)
	}
	return nil
}

func (r *IdeaRepository) query(ctx context.Context, query string, args ...interface{}) ([]models.Idea, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	defer rows.Close()

	var ideas []models.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, err
		}
		ideas = append(ideas, *idea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ideas: %w", err)
	}
	return ideas, nil
}

func scanIdea(row rowScanner) (*models.Idea, error) {
	var (
		idea   models.Idea
		status string
	)
	err := row.Scan(
		&idea.ID,
		&idea.UserPhone,
		&idea.Content,
		&idea.Category,
		pq.Array(&idea.Hashtags),
		&status,
		&idea.Summary,
		&idea.Upvotes,
		&idea.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan idea: %w", err)
	}
	idea.Status = models.IdeaStatus(status)
	return &idea, nil
}
