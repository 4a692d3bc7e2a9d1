package note

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	notes map[string]*Note
	seq   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{notes: map[string]*Note{}}
}

func (f *fakeRepo) ListByPlant(_ context.Context, plantID, userID string) ([]Note, error) {
	out := []Note{}
	for _, n := range f.notes {
		if n.PlantID == plantID && n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, plantID, userID, content string) (*Note, error) {
	f.seq++
	n := &Note{
		ID:        string(rune('a' + f.seq)),
		PlantID:   plantID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.notes[n.ID] = n
	return n, nil
}

func (f *fakeRepo) Update(_ context.Context, noteID, userID, content string) (*Note, error) {
	n, ok := f.notes[noteID]
	if !ok || n.UserID != userID {
		return nil, ErrNotFound
	}
	n.Content = content
	return n, nil
}

func (f *fakeRepo) Delete(_ context.Context, noteID, userID string) error {
	n, ok := f.notes[noteID]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}
	delete(f.notes, noteID)
	return nil
}

func TestCreateRequiresContent(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), "p1", "u1", "   ")

	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestNoteLifecycle(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	n, err := svc.Create(ctx, "p1", "u1", "first true leaves")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, n.ID, "u1", "first true leaves, repotted")
	require.NoError(t, err)
	assert.Equal(t, "first true leaves, repotted", updated.Content)

	_, err = svc.Update(ctx, n.ID, "someone-else", "hijack")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, n.ID, "u1"))
	assert.ErrorIs(t, svc.Delete(ctx, n.ID, "u1"), ErrNotFound)
}
