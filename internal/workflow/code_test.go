package workflow

import (
	"testing"
	"time"

	"workshop-backend/internal/apperrors"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextCode(t *testing.T) {
	cases := []struct {
		name     string
		day      time.Time
		lastCode string
		want     string
	}{
		{"first of day", day(2025, time.January, 2), "", "RJD-20250102-0001"},
		{"increments", day(2025, time.January, 1), "RJD-20250101-0007", "RJD-20250101-0008"},
		{"re-pads", day(2025, time.January, 1), "RJD-20250101-0099", "RJD-20250101-0100"},
		{"crosses thousand", day(2025, time.March, 15), "RJD-20250315-0999", "RJD-20250315-1000"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := NextCode(c.day, c.lastCode)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != c.want {
				t.Errorf("NextCode(%s, %q) = %q, want %q", c.day.Format("2006-01-02"), c.lastCode, got, c.want)
			}
		})
	}
}

func TestNextCode_MalformedDegradesToFirst(t *testing.T) {
	for _, last := range []string{
		"RJD-0007",
		"XYZ-20250101-0007",
		"RJD-20250101-7",
		"garbage",
	} {
		got, err := NextCode(day(2025, time.January, 1), last)
		if !apperrors.IsKind(err, apperrors.KindMalformedCode) {
			t.Errorf("NextCode(_, %q): expected MalformedCode, got %v", last, err)
		}
		if got != "RJD-20250101-0001" {
			t.Errorf("NextCode(_, %q) = %q, want day's 0001 fallback", last, got)
		}
	}
}

func TestFormatCode(t *testing.T) {
	got := FormatCode(day(2025, time.December, 31), 42)
	if got != "RJD-20251231-0042" {
		t.Errorf("FormatCode = %q", got)
	}
}
