// Package plant manages plant records and assembles their API-facing aggregates.
package plant

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a plant does not exist or is not owned by the caller.
var ErrNotFound = errors.New("plant not found")

// ErrMissingFields is returned when a create/update request lacks required input.
var ErrMissingFields = errors.New("missing required fields")

// Plant is the bare relational record, used for create/update responses.
// Reads go through Aggregate instead.
type Plant struct {
	ID            string     `json:"id"`
	UserID        string     `json:"-"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	VarietyID     *int       `json:"varietyId,omitempty"`
	LocationID    *int       `json:"locationId,omitempty"`
	Sensitivities []string   `json:"sensitivities"`
	DatePlanted   *time.Time `json:"datePlanted,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Variety is a plant variety sub-document.
type Variety struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Stage is a growth-stage catalog entry. The tolerance fields stay present
// (null) even on the empty default, which is the shape clients expect.
type Stage struct {
	ID            int      `json:"id,omitempty"`
	Name          string   `json:"name,omitempty"`
	Description   string   `json:"description,omitempty"`
	StageOrder    int      `json:"stage_order,omitempty"`
	ColdTolerance *float64 `json:"cold_tolerance"`
	HeatTolerance *float64 `json:"heat_tolerance"`
}

// Location is a plant location sub-document.
type Location struct {
	ID          int    `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	SunExposure string `json:"sun_exposure,omitempty"`
}

// Photo is the canonical photo sub-document inside an aggregate. Key is the
// bare object key; public URLs are attached only at the HTTP boundary.
type Photo struct {
	ID           string `json:"id"`
	Key          string `json:"key"`
	DateTaken    string `json:"date_taken"`
	DateUploaded string `json:"date_uploaded"`
	Stage        *int   `json:"stage"`
	URL          string `json:"url,omitempty"`
}

// GrowthStage is a logged lifecycle event inside an aggregate.
type GrowthStage struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Date   string  `json:"date"`
	Key    *string `json:"key"`
	URL    string  `json:"url,omitempty"`
}

// Note is a note sub-document inside an aggregate.
type Note struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// Warning carries temperature bounds to watch for the currently projected
// stage window, when one exists.
type Warning struct {
	Cold *float64 `json:"cold,omitempty"`
	Heat *float64 `json:"heat,omitempty"`
}

// Projection forecasts when the plant should reach a future stage.
type Projection struct {
	StageID       int      `json:"stage_id"`
	StageName     string   `json:"stage_name,omitempty"`
	ExpectedStart string   `json:"expected_start"`
	ExpectedEnd   string   `json:"expected_end"`
	ColdTolerance *float64 `json:"cold_tolerance"`
	HeatTolerance *float64 `json:"heat_tolerance"`
}

// Aggregate is the composed, API-facing view of a plant with its related
// sub-documents. Every sub-document is non-null: absent or malformed source
// data collapses to the empty default, never to JSON null.
type Aggregate struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Sensitivities []string      `json:"sensitivities"`
	DatePlanted   *string       `json:"date_planted"`
	DateUpdated   *string       `json:"date_updated"`
	Variety       Variety       `json:"variety"`
	Stage         Stage         `json:"stage"`
	Location      Location      `json:"location"`
	Photos        []Photo       `json:"photos"`
	GrowthStages  []GrowthStage `json:"growth_stages"`
	Notes         []Note        `json:"notes"`
	Warning       Warning       `json:"warning"`
	Projections   []Projection  `json:"projections"`
}

// RawRow is one row of the aggregate read query. The sub-document columns are
// typed any because the data layer hands them back inconsistently: pre-parsed
// objects, JSON-encoded strings, raw bytes, or NULL. The assembler normalizes
// all of them; nothing outside this package should see the ambiguity.
type RawRow struct {
	ID            string
	Name          string
	Description   string
	Sensitivities []string
	DatePlanted   *time.Time
	UpdatedAt     time.Time
	Variety       any
	Stage         any
	Location      any
	Photos        any
	GrowthStages  any
	Notes         any
	Warning       any
	Projections   any
}
