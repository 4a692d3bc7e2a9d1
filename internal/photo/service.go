package photo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/verdant/service/internal/imagemeta"
	"github.com/verdant/service/internal/storage"
)

// Repo is the persistence surface the upload pipeline depends on.
type Repo interface {
	PlantOwned(ctx context.Context, plantID, userID string) (bool, error)
	InsertPhoto(ctx context.Context, plantID string, stageID *int, objectKey, originalName string, dateTaken time.Time) (*Photo, error)
	InsertGrowthStage(ctx context.Context, plantID, status string, stageDate time.Time, objectKey *string) (*GrowthStage, error)
	UpdatePhoto(ctx context.Context, photoID, userID string, dateTaken *time.Time, stageID *int) (*Photo, error)
	DeletePhoto(ctx context.Context, photoID, userID string) (string, error)
}

// Service orchestrates photo uploads: blob first, then the relational record.
//
// Ordering is deliberate. A blob upload that succeeds before a failed insert
// leaves an orphaned blob behind — the object-store write has already
// committed and is not part of the relational transaction, so it is not
// rolled back. The reverse (a row pointing at a blob that was never stored)
// can never happen.
type Service struct {
	repo     Repo
	store    storage.Storage
	buildKey func(userID, plantID, originalName string) string
	capture  func(r io.Reader) time.Time
}

// NewService creates a new photo Service.
func NewService(repo Repo, store storage.Storage) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		buildKey: storage.BuildKey,
		capture:  imagemeta.CaptureDate,
	}
}

// UploadInput carries one upload request through the pipeline.
type UploadInput struct {
	PlantID      string
	UserID       string
	OriginalName string
	ContentType  string
	Data         []byte
	DateTaken    *time.Time // caller-supplied date wins over EXIF
	StageID      *int
	Status       string // required for the growth-stage flow only
}

// Upload validates in, stores the blob, resolves the capture date, and
// persists a photo record transactionally. No relational write happens if
// the blob upload fails.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*Photo, error) {
	if len(in.Data) == 0 || in.PlantID == "" || in.UserID == "" {
		return nil, ErrMissingFields
	}

	owned, err := s.repo.PlantOwned(ctx, in.PlantID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrPlantNotFound
	}

	key := s.buildKey(in.UserID, in.PlantID, in.OriginalName)
	if err := s.store.Upload(ctx, key, bytes.NewReader(in.Data), int64(len(in.Data)), in.ContentType); err != nil {
		return nil, fmt.Errorf("upload blob: %w", err)
	}

	dateTaken := s.resolveDate(in)

	p, err := s.repo.InsertPhoto(ctx, in.PlantID, in.StageID, key, in.OriginalName, dateTaken)
	if err != nil {
		return nil, fmt.Errorf("persist photo: %w", err)
	}
	return p, nil
}

// AddStage runs the legacy stage-with-image flow: same pipeline as Upload,
// but the record is a growth-stage event and a status label is required.
func (s *Service) AddStage(ctx context.Context, in UploadInput) (*GrowthStage, error) {
	if len(in.Data) == 0 || in.PlantID == "" || in.UserID == "" || in.Status == "" {
		return nil, ErrMissingFields
	}

	owned, err := s.repo.PlantOwned(ctx, in.PlantID, in.UserID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ErrPlantNotFound
	}

	key := s.buildKey(in.UserID, in.PlantID, in.OriginalName)
	if err := s.store.Upload(ctx, key, bytes.NewReader(in.Data), int64(len(in.Data)), in.ContentType); err != nil {
		return nil, fmt.Errorf("upload blob: %w", err)
	}

	stageDate := s.resolveDate(in)

	g, err := s.repo.InsertGrowthStage(ctx, in.PlantID, in.Status, stageDate, &key)
	if err != nil {
		return nil, fmt.Errorf("persist growth stage: %w", err)
	}
	return g, nil
}

// resolveDate picks the caller-supplied date when present, otherwise reads
// the capture time out of the image metadata (falling back to now).
func (s *Service) resolveDate(in UploadInput) time.Time {
	if in.DateTaken != nil {
		return *in.DateTaken
	}
	return s.capture(bytes.NewReader(in.Data))
}

// Update changes a photo's date_taken and/or stage assignment.
func (s *Service) Update(ctx context.Context, photoID, userID string, dateTaken *time.Time, stageID *int) (*Photo, error) {
	if photoID == "" || userID == "" {
		return nil, ErrMissingFields
	}
	return s.repo.UpdatePhoto(ctx, photoID, userID, dateTaken, stageID)
}

// Delete removes a photo record and then its backing blob, in that order.
// The database is authoritative: when no row matches, the blob is never
// touched. A failed blob delete after a successful row delete is logged and
// swallowed — the dangling blob is a cleanup candidate, not a request error.
func (s *Service) Delete(ctx context.Context, photoID, userID string) error {
	key, err := s.repo.DeletePhoto(ctx, photoID, userID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, key); err != nil {
		log.Printf("photo %s deleted but blob %q cleanup failed: %v", photoID, key, err)
	}
	return nil
}

// IsNotFound returns true when the error indicates a missing photo or plant.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrPlantNotFound)
}
