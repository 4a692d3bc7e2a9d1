// Package imagemeta extracts capture timestamps from image metadata.
package imagemeta

import (
	"io"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// CaptureDate returns the embedded EXIF capture time of the image read from r.
// Missing metadata or an unparseable timestamp falls back to the current
// wall-clock time — extraction never fails, it only decides which date gets
// recorded.
func CaptureDate(r io.Reader) time.Time {
	x, err := exif.Decode(r)
	if err != nil {
		return time.Now()
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		tag, err = x.Get(exif.DateTime)
		if err != nil {
			return time.Now()
		}
	}

	raw, err := tag.StringVal()
	if err != nil {
		return time.Now()
	}

	if t, ok := parseTimestamp(raw); ok {
		return t
	}
	return time.Now()
}

// parseTimestamp parses an EXIF-style timestamp. EXIF writes the date segment
// with colons ("2023:05:10 14:00:00"); the colons are normalized to dashes
// before parsing so plain "2023-05-10" values also round-trip.
func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	parts := strings.SplitN(raw, " ", 2)
	normalized := strings.ReplaceAll(parts[0], ":", "-")
	if len(parts) == 2 {
		normalized += " " + parts[1]
	}

	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
