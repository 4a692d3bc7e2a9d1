package note

import (
	"context"
	"errors"
	"strings"
)

// ErrMissingFields is returned when a note request lacks required input.
var ErrMissingFields = errors.New("missing required fields")

// Repo is the persistence surface the service depends on.
type Repo interface {
	ListByPlant(ctx context.Context, plantID, userID string) ([]Note, error)
	Create(ctx context.Context, plantID, userID, content string) (*Note, error)
	Update(ctx context.Context, noteID, userID, content string) (*Note, error)
	Delete(ctx context.Context, noteID, userID string) error
}

// Service contains business logic for plant notes.
type Service struct {
	repo Repo
}

// NewService creates a new note Service.
func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// List returns all notes for the plant owned by userID.
func (s *Service) List(ctx context.Context, plantID, userID string) ([]Note, error) {
	return s.repo.ListByPlant(ctx, plantID, userID)
}

// Create validates and stores a new note.
func (s *Service) Create(ctx context.Context, plantID, userID, content string) (*Note, error) {
	if strings.TrimSpace(content) == "" || plantID == "" {
		return nil, ErrMissingFields
	}
	return s.repo.Create(ctx, plantID, userID, content)
}

// Update validates and replaces a note's content.
func (s *Service) Update(ctx context.Context, noteID, userID, content string) (*Note, error) {
	if strings.TrimSpace(content) == "" || noteID == "" {
		return nil, ErrMissingFields
	}
	return s.repo.Update(ctx, noteID, userID, content)
}

// Delete removes a note owned by userID.
func (s *Service) Delete(ctx context.Context, noteID, userID string) error {
	return s.repo.Delete(ctx, noteID, userID)
}

// IsNotFound returns true when the error indicates a missing note or plant.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
