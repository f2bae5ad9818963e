package daterange

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRejectsReversedRange(t *testing.T) {
	_, err := New(date(2026, 1, 3), date(2026, 1, 1))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestDays(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"two full days", date(2026, 1, 1), date(2026, 1, 3), 2},
		{"same instant", date(2026, 1, 1), date(2026, 1, 1), 0},
		{"partial day rounds up", date(2026, 1, 1), date(2026, 1, 1).Add(25 * time.Hour), 2},
		{"single day", date(2026, 1, 1), date(2026, 1, 2), 1},
		{"week", date(2026, 1, 1), date(2026, 1, 8), 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dr := DateRange{Start: tc.start, End: tc.end}
			if got := dr.Days(); got != tc.want {
				t.Fatalf("Days() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	base := DateRange{Start: date(2026, 1, 10), End: date(2026, 1, 12)}
	cases := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"identical", base, true},
		{"contained", DateRange{Start: date(2026, 1, 10), End: date(2026, 1, 11)}, true},
		{"straddles start", DateRange{Start: date(2026, 1, 9), End: date(2026, 1, 11)}, true},
		{"straddles end", DateRange{Start: date(2026, 1, 11), End: date(2026, 1, 13)}, true},
		{"back to back after", DateRange{Start: date(2026, 1, 12), End: date(2026, 1, 14)}, false},
		{"back to back before", DateRange{Start: date(2026, 1, 8), End: date(2026, 1, 10)}, false},
		{"disjoint", DateRange{Start: date(2026, 2, 1), End: date(2026, 2, 3)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			if got := tc.other.Overlaps(base); got != tc.want {
				t.Fatalf("Overlaps (reversed) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSingleSpansOneDay(t *testing.T) {
	dr := Single(date(2026, 3, 5))
	if dr.Days() != 1 {
		t.Fatalf("Days() = %d, want 1", dr.Days())
	}
	if !dr.ContainsDate(date(2026, 3, 5)) {
		t.Fatal("expected start date to be contained")
	}
	if dr.ContainsDate(date(2026, 3, 6)) {
		t.Fatal("end is exclusive")
	}
}
