package plant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	rows   map[string]RawRow // plantID -> raw aggregate row
	owners map[string]string // plantID -> userID
	plants map[string]*Plant
	seq    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rows:   map[string]RawRow{},
		owners: map[string]string{},
		plants: map[string]*Plant{},
	}
}

func (f *fakeRepo) AggregateRow(_ context.Context, plantID, userID string) (*RawRow, error) {
	if f.owners[plantID] != userID {
		return nil, ErrNotFound
	}
	row := f.rows[plantID]
	return &row, nil
}

func (f *fakeRepo) AggregateRows(_ context.Context, userID string) ([]RawRow, error) {
	out := []RawRow{}
	for id, owner := range f.owners {
		if owner == userID {
			out = append(out, f.rows[id])
		}
	}
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, p CreateParams) (*Plant, error) {
	f.seq++
	pl := &Plant{
		ID:            p.Name + "-id",
		UserID:        p.UserID,
		Name:          p.Name,
		Description:   p.Description,
		Sensitivities: p.Sensitivities,
		DatePlanted:   p.DatePlanted,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	f.plants[pl.ID] = pl
	f.owners[pl.ID] = p.UserID
	f.rows[pl.ID] = RawRow{ID: pl.ID, Name: pl.Name}
	return pl, nil
}

func (f *fakeRepo) Update(_ context.Context, plantID, userID string, upd UpdateParams) (*Plant, error) {
	pl, ok := f.plants[plantID]
	if !ok || f.owners[plantID] != userID {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		pl.Name = *upd.Name
	}
	return pl, nil
}

func (f *fakeRepo) ListVarieties(context.Context) ([]Variety, error)  { return []Variety{}, nil }
func (f *fakeRepo) ListStages(context.Context) ([]Stage, error)       { return []Stage{}, nil }
func (f *fakeRepo) ListLocations(context.Context) ([]Location, error) { return []Location{}, nil }

func (f *fakeRepo) CreateVariety(_ context.Context, name string) (*Variety, error) {
	return &Variety{ID: 1, Name: name}, nil
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateParams{UserID: "u1", Name: "  "})

	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestGetAggregateAssemblesRawRow(t *testing.T) {
	repo := newFakeRepo()
	repo.owners["42"] = "u1"
	repo.rows["42"] = RawRow{
		ID:      "42",
		Name:    "tomato",
		Variety: `{"id": 7, "name": "cherry tomato"}`,
		Photos:  `[{"id": "ph1", "key": "u1/42/k-leaf.jpg", "date_taken": "2024-03-01T08:00:00Z", "date_uploaded": "2024-03-02T08:00:00Z", "stage": 2}]`,
	}
	svc := NewService(repo)

	agg, err := svc.GetAggregate(context.Background(), "42", "u1")

	require.NoError(t, err)
	assert.Equal(t, "cherry tomato", agg.Variety.Name)
	require.Len(t, agg.Photos, 1)
	assert.Equal(t, "u1/42/k-leaf.jpg", agg.Photos[0].Key)
	assert.Equal(t, "2024-03-01", agg.Photos[0].DateTaken)
	// Aggregates carry keys, never URLs; URL stays empty until the boundary.
	assert.Empty(t, agg.Photos[0].URL)
}

func TestGetAggregateOwnership(t *testing.T) {
	repo := newFakeRepo()
	repo.owners["42"] = "u1"
	svc := NewService(repo)

	_, err := svc.GetAggregate(context.Background(), "42", "intruder")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, svc.IsNotFound(err))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *d)

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseDate("01/03/2024")
	assert.Error(t, err)
}
