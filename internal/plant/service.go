package plant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repo is the persistence surface the service depends on. The aggregate
// methods hand back raw rows exactly as the database built them; everything
// else returns structured records.
type Repo interface {
	AggregateRow(ctx context.Context, plantID, userID string) (*RawRow, error)
	AggregateRows(ctx context.Context, userID string) ([]RawRow, error)
	Create(ctx context.Context, p CreateParams) (*Plant, error)
	Update(ctx context.Context, plantID, userID string, upd UpdateParams) (*Plant, error)
	ListVarieties(ctx context.Context) ([]Variety, error)
	CreateVariety(ctx context.Context, name string) (*Variety, error)
	ListStages(ctx context.Context) ([]Stage, error)
	ListLocations(ctx context.Context) ([]Location, error)
}

// Service contains business logic for plant management and aggregate reads.
type Service struct {
	repo Repo
}

// NewService creates a new plant Service.
func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// GetAggregate returns the assembled aggregate for one plant owned by userID.
func (s *Service) GetAggregate(ctx context.Context, plantID, userID string) (*Aggregate, error) {
	raw, err := s.repo.AggregateRow(ctx, plantID, userID)
	if err != nil {
		return nil, err
	}
	agg := assemble(*raw)
	return &agg, nil
}

// ListAggregates returns assembled aggregates for every plant owned by userID.
func (s *Service) ListAggregates(ctx context.Context, userID string) ([]Aggregate, error) {
	rows, err := s.repo.AggregateRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	return assembleMany(rows), nil
}

// Create validates and stores a new plant.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Plant, error) {
	if strings.TrimSpace(p.Name) == "" || p.UserID == "" {
		return nil, ErrMissingFields
	}
	pl, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create plant: %w", err)
	}
	return pl, nil
}

// Update applies a metadata update to the plant owned by userID.
// Concurrent updates are last-write-wins; there is no conflict detection.
func (s *Service) Update(ctx context.Context, plantID, userID string, upd UpdateParams) (*Plant, error) {
	if plantID == "" || userID == "" {
		return nil, ErrMissingFields
	}
	return s.repo.Update(ctx, plantID, userID, upd)
}

// Varieties returns the variety catalog.
func (s *Service) Varieties(ctx context.Context) ([]Variety, error) {
	return s.repo.ListVarieties(ctx)
}

// CreateVariety validates and stores a new variety.
func (s *Service) CreateVariety(ctx context.Context, name string) (*Variety, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingFields
	}
	return s.repo.CreateVariety(ctx, strings.TrimSpace(name))
}

// Stages returns the stage catalog.
func (s *Service) Stages(ctx context.Context) ([]Stage, error) {
	return s.repo.ListStages(ctx)
}

// Locations returns the location catalog.
func (s *Service) Locations(ctx context.Context) ([]Location, error) {
	return s.repo.ListLocations(ctx)
}

// IsNotFound returns true when the error indicates a missing plant.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ParseDate parses a caller-supplied YYYY-MM-DD date.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s, err)
	}
	return &t, nil
}
