package schedule

import (
	"testing"
	"time"
)

func TestSlotsForDayDefaultPolicy(t *testing.T) {
	slots := SlotsForDay(DefaultOpen, DefaultClose, DefaultStep)

	if slots[0] != "13:30" {
		t.Fatalf("expected first slot 13:30, got %s", slots[0])
	}
	if last := slots[len(slots)-1]; last != "23:30" {
		t.Fatalf("expected last slot 23:30, got %s", last)
	}
	if len(slots) != 21 {
		t.Fatalf("expected 21 slots, got %d", len(slots))
	}
	for i := 1; i < len(slots); i++ {
		if ToMinutes(slots[i]) <= ToMinutes(slots[i-1]) {
			t.Fatalf("slots not ascending at %d: %s then %s", i, slots[i-1], slots[i])
		}
	}
}

func TestSlotsForDayBoundaries(t *testing.T) {
	cases := []struct {
		name            string
		open, close, st int
		expected        []string
	}{
		{"close on boundary", 9 * 60, 10 * 60, 30, []string{"09:00", "09:30", "10:00"}},
		{"close off boundary", 9 * 60, 10*60 + 10, 30, []string{"09:00", "09:30", "10:00"}},
		{"single slot", 9 * 60, 9 * 60, 15, []string{"09:00"}},
		{"zero step", 9 * 60, 10 * 60, 0, []string{}},
		{"inverted", 10 * 60, 9 * 60, 30, []string{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := SlotsForDay(c.open, c.close, c.st)
			if len(got) != len(c.expected) {
				t.Fatalf("expected %v, got %v", c.expected, got)
			}
			for i := range got {
				if got[i] != c.expected[i] {
					t.Fatalf("expected %v, got %v", c.expected, got)
				}
			}
		})
	}
}

func TestToMinutes(t *testing.T) {
	cases := []struct {
		in       string
		expected int
	}{
		{"00:15", 15},
		{"09:05", 545},
		{"14:35", 875},
		{"23:30", 1410},
		{"2:30 PM", 870},
		{"02:30pm", 870},
		{"12:00 AM", 0},
		{"12:15 PM", 735},
		{" 13:30 ", 810},
		{"", -1},
		{"1330", -1},
		{"ab:cd", -1},
		{"10:75", -1},
		{"25:00", -1},
	}

	for _, c := range cases {
		if got := ToMinutes(c.in); got != c.expected {
			t.Fatalf("ToMinutes(%q): expected %d, got %d", c.in, c.expected, got)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := map[int]string{15: "00:15", 90: "01:30", 545: "09:05", 1020: "17:00"}
	for m, expected := range cases {
		if got := FormatMinutes(m); got != expected {
			t.Fatalf("FormatMinutes(%d): expected %s, got %s", m, expected, got)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("13:30", "23:30", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != DefaultPolicy() {
		t.Fatalf("expected default policy, got %+v", p)
	}

	if _, err := ParsePolicy("nope", "23:30", 30); err == nil {
		t.Fatal("expected error for bad opening time")
	}
	if _, err := ParsePolicy("13:30", "09:00", 30); err == nil {
		t.Fatal("expected error for inverted bounds")
	}
	if _, err := ParsePolicy("13:30", "23:30", 0); err == nil {
		t.Fatal("expected error for zero step")
	}
}

func TestClockTodayUsesClinicOffset(t *testing.T) {
	// 22:30 UTC on Jan 9 is already Jan 10 at UTC+3.
	fixed := time.Date(2025, 1, 9, 22, 30, 0, 0, time.UTC)
	clock := NewClock(3, func() time.Time { return fixed })

	if got := clock.Today(); got != "2025-01-10" {
		t.Fatalf("expected 2025-01-10, got %s", got)
	}
	if _, offset := clock.Now().Zone(); offset != 3*3600 {
		t.Fatalf("expected +3h offset, got %d", offset)
	}
}

func TestValidDate(t *testing.T) {
	if !ValidDate("2025-02-28") {
		t.Fatal("expected 2025-02-28 to be valid")
	}
	for _, s := range []string{"2025-02-30", "2025/02/01", "", "tomorrow"} {
		if ValidDate(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}
