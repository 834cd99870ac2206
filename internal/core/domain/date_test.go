package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseDay_UTCMidnight(t *testing.T) {
	day, err := ParseDay("2025-06-01")
	if err != nil {
		t.Fatalf("ParseDay returned error: %v", err)
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !day.Equal(want) {
		t.Fatalf("expected %v, got %v", want, day)
	}
	if day.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", day.Location())
	}
}

func TestParseDay_Invalid(t *testing.T) {
	for _, s := range []string{"", "01-06-2025", "2025/06/01", "2025-13-01", "yesterday"} {
		if _, err := ParseDay(s); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("ParseDay(%q): expected ErrInvalidDate, got %v", s, err)
		}
	}
}

func TestEndOfDay(t *testing.T) {
	day, _ := ParseDay("2025-06-01")
	end := EndOfDay(day)
	want := time.Date(2025, 6, 1, 23, 59, 59, 999_000_000, time.UTC)
	if !end.Equal(want) {
		t.Fatalf("expected %v, got %v", want, end)
	}
}

func TestTruncateToDay_DropsTimeAndZone(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	in := time.Date(2025, 6, 1, 1, 30, 0, 0, loc) // 2025-05-31T20:00Z
	got := TruncateToDay(in)
	want := time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFormatDay_RoundTrip(t *testing.T) {
	day, _ := ParseDay("2025-12-31")
	if s := FormatDay(day); s != "2025-12-31" {
		t.Fatalf("expected 2025-12-31, got %s", s)
	}
}
