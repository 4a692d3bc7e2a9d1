// Package note manages plant notes and their persistence.
package note

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Note is a free-form note attached to a plant by its owner.
type Note struct {
	ID        string    `json:"id"`
	PlantID   string    `json:"plantId"`
	UserID    string    `json:"-"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ErrNotFound is returned when a note does not exist or is not owned by the caller.
var ErrNotFound = errors.New("note not found")

// Repository handles all note database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListByPlant returns all notes for the plant owned by userID, oldest first.
func (r *Repository) ListByPlant(ctx context.Context, plantID, userID string) ([]Note, error) {
	rows, err := r.db.Query(ctx,
		`SELECT n.id, n.plant_id, n.user_id, n.content, n.created_at, n.updated_at
		 FROM notes n
		 JOIN plants p ON p.id = n.plant_id
		 WHERE n.plant_id = $1 AND p.user_id = $2
		 ORDER BY n.created_at`,
		plantID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	out := []Note{}
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.PlantID, &n.UserID, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Create inserts a note for the plant owned by userID. The ownership check
// happens in the same statement as the insert.
func (r *Repository) Create(ctx context.Context, plantID, userID, content string) (*Note, error) {
	n := &Note{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO notes (plant_id, user_id, content)
		 SELECT p.id, $2, $3 FROM plants p
		 WHERE p.id = $1 AND p.user_id = $2
		 RETURNING id, plant_id, user_id, content, created_at, updated_at`,
		plantID, userID, content,
	).Scan(&n.ID, &n.PlantID, &n.UserID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

// Update replaces the content of a note owned by userID.
func (r *Repository) Update(ctx context.Context, noteID, userID, content string) (*Note, error) {
	n := &Note{}
	err := r.db.QueryRow(ctx,
		`UPDATE notes SET content = $3, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, plant_id, user_id, content, created_at, updated_at`,
		noteID, userID, content,
	).Scan(&n.ID, &n.PlantID, &n.UserID, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return n, nil
}

// Delete removes a note owned by userID.
func (r *Repository) Delete(ctx context.Context, noteID, userID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM notes WHERE id = $1 AND user_id = $2`,
		noteID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
