package plant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleDefaults(t *testing.T) {
	agg := assemble(RawRow{ID: "p1", Name: "basil"})

	assert.Equal(t, "p1", agg.ID)
	assert.Equal(t, Variety{}, agg.Variety)
	assert.Equal(t, Stage{}, agg.Stage)
	assert.Equal(t, Location{}, agg.Location)
	assert.Equal(t, Warning{}, agg.Warning)
	assert.NotNil(t, agg.Photos)
	assert.Empty(t, agg.Photos)
	assert.NotNil(t, agg.Notes)
	assert.NotNil(t, agg.GrowthStages)
	assert.NotNil(t, agg.Projections)
	assert.NotNil(t, agg.Sensitivities)
	assert.Nil(t, agg.DatePlanted)
}

func TestAssembleMalformedSubDocumentKeepsSiblings(t *testing.T) {
	planted := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	row := RawRow{
		ID:          "p1",
		Name:        "tomato",
		DatePlanted: &planted,
		Variety:     "{not json",
		Location:    `{"id": 2, "name": "balcony", "sun_exposure": "full"}`,
		Photos:      `[{"id": "ph1", "key": "u1/p1/abc-leaf.jpg", "date_taken": "2024-03-01T14:00:00Z", "date_uploaded": "2024-03-02T09:00:00Z", "stage": 3}]`,
	}

	agg := assemble(row)

	// The corrupt variety collapses to its default; nothing else is affected.
	assert.Equal(t, Variety{}, agg.Variety)
	assert.Equal(t, "balcony", agg.Location.Name)
	require.Len(t, agg.Photos, 1)
	assert.Equal(t, "u1/p1/abc-leaf.jpg", agg.Photos[0].Key)
	require.NotNil(t, agg.DatePlanted)
	assert.Equal(t, "2024-05-01", *agg.DatePlanted)
}

func TestAssembleAcceptsPreParsedAndEncodedFields(t *testing.T) {
	tests := []struct {
		name    string
		variety any
	}{
		{"json string", `{"id": 7, "name": "cherry tomato"}`},
		{"raw bytes", []byte(`{"id": 7, "name": "cherry tomato"}`)},
		{"pre-parsed map", map[string]any{"id": 7, "name": "cherry tomato"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := assemble(RawRow{ID: "p1", Variety: tt.variety})
			assert.Equal(t, 7, agg.Variety.ID)
			assert.Equal(t, "cherry tomato", agg.Variety.Name)
		})
	}
}

func TestAssembleNormalizesPhotoDates(t *testing.T) {
	row := RawRow{
		ID:     "p1",
		Photos: `[{"id": "ph1", "key": "k", "date_taken": "2024-03-01T14:00:00+00:00", "date_uploaded": "2024-03-02T09:30:00Z", "stage": null}]`,
	}

	agg := assemble(row)

	require.Len(t, agg.Photos, 1)
	assert.Equal(t, "2024-03-01", agg.Photos[0].DateTaken)
	assert.Equal(t, "2024-03-02", agg.Photos[0].DateUploaded)
	assert.Nil(t, agg.Photos[0].Stage)
}

func TestAssembleStageTolerances(t *testing.T) {
	agg := assemble(RawRow{
		ID:    "p1",
		Stage: `{"id": 3, "name": "seedling", "stage_order": 2, "cold_tolerance": 12, "heat_tolerance": 28}`,
	})

	assert.Equal(t, "seedling", agg.Stage.Name)
	require.NotNil(t, agg.Stage.ColdTolerance)
	assert.InEpsilon(t, 12.0, *agg.Stage.ColdTolerance, 1e-9)
}

func TestAssembleManyPreservesOrderAndTolerance(t *testing.T) {
	rows := []RawRow{
		{ID: "a", Variety: `{"id": 1, "name": "basil"}`},
		{ID: "b", Variety: "][ broken"},
		{ID: "c", Variety: `{"id": 3, "name": "mint"}`},
	}

	aggs := assembleMany(rows)

	require.Len(t, aggs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{aggs[0].ID, aggs[1].ID, aggs[2].ID})
	assert.Equal(t, "basil", aggs[0].Variety.Name)
	assert.Equal(t, Variety{}, aggs[1].Variety)
	assert.Equal(t, "mint", aggs[2].Variety.Name)
}

func TestDecodeSub(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want bool
	}{
		{"nil", nil, false},
		{"empty string", "", false},
		{"json null", "null", false},
		{"whitespace", "   ", false},
		{"broken json", "{oops", false},
		{"valid object", `{"id": 1}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Variety
			assert.Equal(t, tt.want, decodeSub(tt.raw, &v))
		})
	}
}

func TestCalendarDate(t *testing.T) {
	assert.Equal(t, "2024-03-01", calendarDate("2024-03-01T14:00:00Z"))
	assert.Equal(t, "2024-03-01", calendarDate("2024-03-01 14:00:00"))
	assert.Equal(t, "2024-03-01", calendarDate("2024-03-01"))
	assert.Equal(t, "", calendarDate(""))
	assert.Equal(t, "next tuesday", calendarDate("next tuesday"))
}
