package timeslot

import "errors"

var ErrUnknownSlot = errors.New("timeslot: unknown time slot")

// Slot is a discrete duration choice for hourly listings. The set is closed;
// free-text durations are rejected at the boundary.
type Slot struct {
	Hours int
	Label string
}

var catalog = []Slot{
	{Hours: 1, Label: "1 hour"},
	{Hours: 2, Label: "2 hours"},
	{Hours: 3, Label: "3 hours"},
	{Hours: 4, Label: "4 hours"},
	{Hours: 6, Label: "half day (6 hours)"},
	{Hours: 12, Label: "full day (12 hours)"},
}

// Parse resolves a slot label against the closed vocabulary.
func Parse(label string) (Slot, error) {
	for _, s := range catalog {
		if s.Label == label {
			return s, nil
		}
	}
	return Slot{}, ErrUnknownSlot
}

// All returns the slot vocabulary for rendering pick lists.
func All() []Slot {
	out := make([]Slot, len(catalog))
	copy(out, catalog)
	return out
}

func (s Slot) IsZero() bool {
	return s.Hours == 0
}
