package timeslot

import (
	"errors"
	"testing"
)

func TestParseKnownSlots(t *testing.T) {
	for _, s := range All() {
		got, err := Parse(s.Label)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s.Label, err)
		}
		if got.Hours != s.Hours {
			t.Fatalf("Parse(%q).Hours = %d, want %d", s.Label, got.Hours, s.Hours)
		}
	}
}

func TestParseRejectsFreeText(t *testing.T) {
	for _, label := range []string{"", "5 hours", "1 Hour", "half day", "90 minutes"} {
		if _, err := Parse(label); !errors.Is(err, ErrUnknownSlot) {
			t.Fatalf("Parse(%q) = %v, want ErrUnknownSlot", label, err)
		}
	}
}

func TestHalfAndFullDayHours(t *testing.T) {
	half, err := Parse("half day (6 hours)")
	if err != nil || half.Hours != 6 {
		t.Fatalf("half day = %+v, %v", half, err)
	}
	full, err := Parse("full day (12 hours)")
	if err != nil || full.Hours != 12 {
		t.Fatalf("full day = %+v, %v", full, err)
	}
}
