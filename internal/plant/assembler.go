package plant

import (
	"bytes"
	"encoding/json"
	"time"
)

// assemble turns one raw aggregate row into a fully structured Aggregate.
// Each sub-document is decoded independently; a malformed or absent field
// keeps its empty default and never aborts assembly of the remaining fields.
func assemble(row RawRow) Aggregate {
	agg := Aggregate{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		Sensitivities: row.Sensitivities,
		Photos:        []Photo{},
		GrowthStages:  []GrowthStage{},
		Notes:         []Note{},
		Projections:   []Projection{},
	}
	if agg.Sensitivities == nil {
		agg.Sensitivities = []string{}
	}
	if row.DatePlanted != nil {
		d := row.DatePlanted.Format("2006-01-02")
		agg.DatePlanted = &d
	}
	if !row.UpdatedAt.IsZero() {
		d := row.UpdatedAt.Format("2006-01-02")
		agg.DateUpdated = &d
	}

	// Decode into locals so a decode that fails midway cannot leave a
	// half-written sub-document on the aggregate.
	var variety Variety
	if decodeSub(row.Variety, &variety) {
		agg.Variety = variety
	}
	var stage Stage
	if decodeSub(row.Stage, &stage) {
		agg.Stage = stage
	}
	var location Location
	if decodeSub(row.Location, &location) {
		agg.Location = location
	}
	var warning Warning
	if decodeSub(row.Warning, &warning) {
		agg.Warning = warning
	}

	var photos []Photo
	if decodeSub(row.Photos, &photos) {
		for i := range photos {
			photos[i].DateTaken = calendarDate(photos[i].DateTaken)
			photos[i].DateUploaded = calendarDate(photos[i].DateUploaded)
		}
		agg.Photos = photos
	}

	var stages []GrowthStage
	if decodeSub(row.GrowthStages, &stages) {
		for i := range stages {
			stages[i].Date = calendarDate(stages[i].Date)
		}
		agg.GrowthStages = stages
	}

	var notes []Note
	if decodeSub(row.Notes, &notes) {
		agg.Notes = notes
	}

	var projections []Projection
	if decodeSub(row.Projections, &projections) {
		for i := range projections {
			projections[i].ExpectedStart = calendarDate(projections[i].ExpectedStart)
			projections[i].ExpectedEnd = calendarDate(projections[i].ExpectedEnd)
		}
		agg.Projections = projections
	}

	return agg
}

// assembleMany assembles each row in order. A bad sub-document in one row
// affects only that row's field, never its siblings.
func assembleMany(rows []RawRow) []Aggregate {
	aggs := make([]Aggregate, 0, len(rows))
	for _, row := range rows {
		aggs = append(aggs, assemble(row))
	}
	return aggs
}

// decodeSub normalizes the data layer's string-or-object ambiguity in one
// place. raw may be a pre-parsed value, a JSON-encoded string, raw bytes, or
// nil; dst is only written on a clean decode. Returns whether dst was filled.
func decodeSub(raw any, dst any) bool {
	var buf []byte
	switch v := raw.(type) {
	case nil:
		return false
	case []byte:
		buf = v
	case string:
		buf = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return false
		}
		buf = b
	}

	buf = bytes.TrimSpace(buf)
	if len(buf) == 0 || string(buf) == "null" {
		return false
	}
	return json.Unmarshal(buf, dst) == nil
}

// calendarDate reduces a timestamp string to its YYYY-MM-DD calendar date.
// Unparseable input passes through untouched.
func calendarDate(s string) string {
	if s == "" {
		return s
	}
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
