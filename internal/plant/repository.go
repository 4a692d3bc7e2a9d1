package plant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// aggregateSelect is the single read statement the assembler consumes. The
// sub-document columns arrive as JSON built by the database, which is the
// fixed contract: the Go side never re-joins these tables itself.
const aggregateSelect = `
SELECT p.id, p.name, p.description, p.sensitivities, p.date_planted, p.updated_at,
       (SELECT to_json(v) FROM varieties v WHERE v.id = p.variety_id) AS variety,
       (SELECT to_json(s) FROM stages s
          JOIN growth_stages g ON g.status = s.name
         WHERE g.plant_id = p.id
         ORDER BY g.stage_date DESC
         LIMIT 1) AS stage,
       (SELECT to_json(l) FROM locations l WHERE l.id = p.location_id) AS location,
       (SELECT json_agg(json_build_object(
               'id', ph.id,
               'key', ph.object_key,
               'date_taken', ph.date_taken,
               'date_uploaded', ph.date_uploaded,
               'stage', ph.stage_id) ORDER BY ph.date_taken)
          FROM photos ph WHERE ph.plant_id = p.id) AS photos,
       (SELECT json_agg(json_build_object(
               'id', g.id,
               'status', g.status,
               'date', g.stage_date,
               'key', g.object_key) ORDER BY g.stage_date)
          FROM growth_stages g WHERE g.plant_id = p.id) AS growth_stages,
       (SELECT json_agg(json_build_object(
               'id', n.id,
               'content', n.content,
               'created_at', n.created_at) ORDER BY n.created_at)
          FROM notes n WHERE n.plant_id = p.id) AS notes,
       (SELECT json_build_object('cold', MIN(s.cold_tolerance), 'heat', MAX(s.heat_tolerance))
          FROM stage_projections sp
          JOIN stages s ON s.id = sp.stage_id
         WHERE sp.plant_id = p.id
           AND sp.expected_start <= CURRENT_DATE
           AND sp.expected_end >= CURRENT_DATE) AS warning,
       (SELECT json_agg(json_build_object(
               'stage_id', sp.stage_id,
               'stage_name', s.name,
               'expected_start', sp.expected_start,
               'expected_end', sp.expected_end,
               'cold_tolerance', s.cold_tolerance,
               'heat_tolerance', s.heat_tolerance) ORDER BY sp.expected_start)
          FROM stage_projections sp
          JOIN stages s ON s.id = sp.stage_id
         WHERE sp.plant_id = p.id) AS projections
  FROM plants p`

// Repository handles all plant database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanRawRow(row pgx.Row) (*RawRow, error) {
	r := &RawRow{}
	err := row.Scan(
		&r.ID, &r.Name, &r.Description, &r.Sensitivities, &r.DatePlanted, &r.UpdatedAt,
		&r.Variety, &r.Stage, &r.Location, &r.Photos, &r.GrowthStages,
		&r.Notes, &r.Warning, &r.Projections,
	)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// AggregateRow fetches the raw aggregate row for one plant owned by userID.
func (r *Repository) AggregateRow(ctx context.Context, plantID, userID string) (*RawRow, error) {
	row, err := scanRawRow(r.db.QueryRow(ctx,
		aggregateSelect+` WHERE p.id = $1 AND p.user_id = $2`,
		plantID, userID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plant aggregate: %w", err)
	}
	return row, nil
}

// AggregateRows fetches raw aggregate rows for every plant owned by userID,
// oldest first.
func (r *Repository) AggregateRows(ctx context.Context, userID string) ([]RawRow, error) {
	rows, err := r.db.Query(ctx,
		aggregateSelect+` WHERE p.user_id = $1 ORDER BY p.created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list plant aggregates: %w", err)
	}
	defer rows.Close()

	var out []RawRow
	for rows.Next() {
		raw, err := scanRawRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plant aggregate: %w", err)
		}
		out = append(out, *raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plant aggregates: %w", err)
	}
	return out, nil
}

// CreateParams are the inputs for creating a plant.
type CreateParams struct {
	UserID        string
	Name          string
	Description   string
	VarietyID     *int
	LocationID    *int
	Sensitivities []string
	DatePlanted   *time.Time
}

// Create inserts a new plant and returns the created record.
func (r *Repository) Create(ctx context.Context, p CreateParams) (*Plant, error) {
	if p.Sensitivities == nil {
		p.Sensitivities = []string{}
	}
	pl := &Plant{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO plants (user_id, name, description, variety_id, location_id, sensitivities, date_planted)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, user_id, name, description, variety_id, location_id, sensitivities, date_planted, created_at, updated_at`,
		p.UserID, p.Name, p.Description, p.VarietyID, p.LocationID, p.Sensitivities, p.DatePlanted,
	).Scan(&pl.ID, &pl.UserID, &pl.Name, &pl.Description, &pl.VarietyID, &pl.LocationID,
		&pl.Sensitivities, &pl.DatePlanted, &pl.CreatedAt, &pl.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create plant: %w", err)
	}
	return pl, nil
}

// UpdateParams are the optional fields of a plant metadata update. Nil fields
// keep their current value; concurrent updates are last-write-wins.
type UpdateParams struct {
	Name          *string
	Description   *string
	VarietyID     *int
	LocationID    *int
	Sensitivities []string
	DatePlanted   *time.Time
}

// Update applies the non-nil fields of upd to the plant owned by userID.
func (r *Repository) Update(ctx context.Context, plantID, userID string, upd UpdateParams) (*Plant, error) {
	pl := &Plant{}
	err := r.db.QueryRow(ctx,
		`UPDATE plants SET
		     name          = COALESCE($3, name),
		     description   = COALESCE($4, description),
		     variety_id    = COALESCE($5, variety_id),
		     location_id   = COALESCE($6, location_id),
		     sensitivities = COALESCE($7, sensitivities),
		     date_planted  = COALESCE($8, date_planted),
		     updated_at    = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, name, description, variety_id, location_id, sensitivities, date_planted, created_at, updated_at`,
		plantID, userID, upd.Name, upd.Description, upd.VarietyID, upd.LocationID,
		upd.Sensitivities, upd.DatePlanted,
	).Scan(&pl.ID, &pl.UserID, &pl.Name, &pl.Description, &pl.VarietyID, &pl.LocationID,
		&pl.Sensitivities, &pl.DatePlanted, &pl.CreatedAt, &pl.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update plant: %w", err)
	}
	return pl, nil
}

// ListVarieties returns the variety catalog ordered by name.
func (r *Repository) ListVarieties(ctx context.Context) ([]Variety, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM varieties ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list varieties: %w", err)
	}
	defer rows.Close()

	out := []Variety{}
	for rows.Next() {
		var v Variety
		if err := rows.Scan(&v.ID, &v.Name); err != nil {
			return nil, fmt.Errorf("scan variety: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// CreateVariety inserts a new variety. Varieties are immutable once created.
func (r *Repository) CreateVariety(ctx context.Context, name string) (*Variety, error) {
	v := &Variety{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO varieties (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id, name`,
		name,
	).Scan(&v.ID, &v.Name)
	if err != nil {
		return nil, fmt.Errorf("create variety: %w", err)
	}
	return v, nil
}

// ListStages returns the stage catalog in lifecycle order.
func (r *Repository) ListStages(ctx context.Context) ([]Stage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, stage_order, cold_tolerance, heat_tolerance
		 FROM stages ORDER BY stage_order`)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	out := []Stage{}
	for rows.Next() {
		var s Stage
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.StageOrder, &s.ColdTolerance, &s.HeatTolerance); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListLocations returns the location catalog ordered by name.
func (r *Repository) ListLocations(ctx context.Context) ([]Location, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, sun_exposure FROM locations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	out := []Location{}
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.SunExposure); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
