package imagemeta

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureDateFallsBackToNow(t *testing.T) {
	before := time.Now()
	got := CaptureDate(bytes.NewReader([]byte("definitely not a jpeg")))
	after := time.Now()

	assert.False(t, got.Before(before.Add(-time.Second)))
	assert.False(t, got.After(after.Add(time.Second)))
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
		ok   bool
	}{
		{
			name: "exif colons",
			in:   "2023:05:10 14:00:00",
			want: time.Date(2023, 5, 10, 14, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "already dashed",
			in:   "2023-05-10 14:00:00",
			want: time.Date(2023, 5, 10, 14, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "date only",
			in:   "2024:03:01",
			want: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{name: "empty", in: "", ok: false},
		{name: "garbage", in: "last thursday", ok: false},
		{name: "padded", in: "  2023:05:10 14:00:00  ", want: time.Date(2023, 5, 10, 14, 0, 0, 0, time.UTC), ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTimestamp(tt.in)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
			}
		})
	}
}
