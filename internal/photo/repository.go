// Package photo implements the image upload pipeline: blob storage, capture
// date resolution, and transactional persistence of photo and growth-stage
// records.
package photo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a photo does not exist or belongs to a plant
// the caller does not own.
var ErrNotFound = errors.New("photo not found")

// ErrPlantNotFound is returned when the owning plant does not exist for the caller.
var ErrPlantNotFound = errors.New("plant not found")

// ErrMissingFields is returned when an upload lacks required input.
var ErrMissingFields = errors.New("missing required fields")

// Photo is a stored photo record. ObjectKey is the bare storage key; public
// URLs are built at the HTTP boundary only.
type Photo struct {
	ID           string    `json:"id"`
	PlantID      string    `json:"plantId"`
	StageID      *int      `json:"stageId"`
	ObjectKey    string    `json:"key"`
	OriginalName string    `json:"originalName"`
	DateTaken    time.Time `json:"dateTaken"`
	DateUploaded time.Time `json:"dateUploaded"`
	URL          string    `json:"url,omitempty"`
}

// GrowthStage is a stored lifecycle event, optionally backed by an image.
type GrowthStage struct {
	ID        string    `json:"stageId"`
	PlantID   string    `json:"plantId"`
	Status    string    `json:"status"`
	StageDate time.Time `json:"date"`
	ObjectKey *string   `json:"key"`
	URL       string    `json:"url,omitempty"`
}

// Repository handles photo and growth-stage database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// PlantOwned reports whether plantID exists and belongs to userID.
func (r *Repository) PlantOwned(ctx context.Context, plantID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM plants WHERE id = $1 AND user_id = $2)`,
		plantID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check plant ownership: %w", err)
	}
	return exists, nil
}

// InsertPhoto inserts a photo record and touches the owning plant's
// updated_at inside one transaction. Either both rows change or neither does.
func (r *Repository) InsertPhoto(ctx context.Context, plantID string, stageID *int, objectKey, originalName string, dateTaken time.Time) (*Photo, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	p := &Photo{}
	err = tx.QueryRow(ctx,
		`INSERT INTO photos (plant_id, stage_id, object_key, original_name, date_taken)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, plant_id, stage_id, object_key, original_name, date_taken, date_uploaded`,
		plantID, stageID, objectKey, originalName, dateTaken,
	).Scan(&p.ID, &p.PlantID, &p.StageID, &p.ObjectKey, &p.OriginalName, &p.DateTaken, &p.DateUploaded)
	if err != nil {
		return nil, fmt.Errorf("insert photo: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE plants SET updated_at = NOW() WHERE id = $1`, plantID,
	); err != nil {
		return nil, fmt.Errorf("touch plant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit photo insert: %w", err)
	}
	return p, nil
}

// InsertGrowthStage inserts a growth-stage record and touches the owning
// plant's updated_at inside one transaction.
func (r *Repository) InsertGrowthStage(ctx context.Context, plantID, status string, stageDate time.Time, objectKey *string) (*GrowthStage, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	g := &GrowthStage{}
	err = tx.QueryRow(ctx,
		`INSERT INTO growth_stages (plant_id, status, stage_date, object_key)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, plant_id, status, stage_date, object_key`,
		plantID, status, stageDate, objectKey,
	).Scan(&g.ID, &g.PlantID, &g.Status, &g.StageDate, &g.ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("insert growth stage: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE plants SET updated_at = NOW() WHERE id = $1`, plantID,
	); err != nil {
		return nil, fmt.Errorf("touch plant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit growth stage insert: %w", err)
	}
	return g, nil
}

// UpdatePhoto applies the non-nil fields to a photo whose plant is owned by userID.
func (r *Repository) UpdatePhoto(ctx context.Context, photoID, userID string, dateTaken *time.Time, stageID *int) (*Photo, error) {
	p := &Photo{}
	err := r.db.QueryRow(ctx,
		`UPDATE photos ph SET
		     date_taken = COALESCE($3, ph.date_taken),
		     stage_id   = COALESCE($4, ph.stage_id)
		 FROM plants pl
		 WHERE ph.id = $1 AND ph.plant_id = pl.id AND pl.user_id = $2
		 RETURNING ph.id, ph.plant_id, ph.stage_id, ph.object_key, ph.original_name, ph.date_taken, ph.date_uploaded`,
		photoID, userID, dateTaken, stageID,
	).Scan(&p.ID, &p.PlantID, &p.StageID, &p.ObjectKey, &p.OriginalName, &p.DateTaken, &p.DateUploaded)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update photo: %w", err)
	}
	return p, nil
}

// DeletePhoto removes the photo row owned by userID and returns the object
// key it referenced, so the caller can clean up the blob afterwards.
// Returns ErrNotFound when no row matched; nothing else is touched then.
func (r *Repository) DeletePhoto(ctx context.Context, photoID, userID string) (string, error) {
	var key string
	err := r.db.QueryRow(ctx,
		`DELETE FROM photos ph
		 USING plants pl
		 WHERE ph.id = $1 AND ph.plant_id = pl.id AND pl.user_id = $2
		 RETURNING ph.object_key`,
		photoID, userID,
	).Scan(&key)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("delete photo: %w", err)
	}
	return key, nil
}
