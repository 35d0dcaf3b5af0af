package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// Default clinic day: first slot 13:30, last slot 23:30, every 30 minutes.
const (
	DefaultOpen  = 13*60 + 30
	DefaultClose = 23*60 + 30
	DefaultStep  = 30
)

// SlotsForDay returns the bookable "HH:MM" slots starting at open and stepping
// by step minutes. close is included when it lands on a step boundary.
func SlotsForDay(open, close, step int) []string {
	slots := []string{}
	if step <= 0 || open < 0 || close < open {
		return slots
	}
	for m := open; m <= close; m += step {
		slots = append(slots, FormatMinutes(m))
	}
	return slots
}

// FormatMinutes renders minutes since midnight as "HH:MM".
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ToMinutes parses "HH:MM" or "HH:MM AM/PM" into minutes since midnight.
// Malformed input yields -1; callers must treat negative values as missing.
func ToMinutes(s string) int {
	t := strings.ToUpper(strings.TrimSpace(s))
	if t == "" {
		return -1
	}

	period := ""
	if strings.HasSuffix(t, "AM") || strings.HasSuffix(t, "PM") {
		period = t[len(t)-2:]
		t = strings.TrimSpace(t[:len(t)-2])
	}

	parts := strings.Split(t, ":")
	if len(parts) < 2 {
		return -1
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return -1
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minutes < 0 || minutes > 59 {
		return -1
	}

	switch period {
	case "PM":
		if hours < 12 {
			hours += 12
		}
	case "AM":
		if hours == 12 {
			hours = 0
		}
	}
	if hours < 0 || hours > 23 {
		return -1
	}
	return hours*60 + minutes
}

// Policy is the slot grid for one clinic day.
type Policy struct {
	Open  int
	Close int
	Step  int
}

func DefaultPolicy() Policy {
	return Policy{Open: DefaultOpen, Close: DefaultClose, Step: DefaultStep}
}

// ParsePolicy builds a Policy from "HH:MM" bounds.
func ParsePolicy(open, close string, step int) (Policy, error) {
	o := ToMinutes(open)
	if o < 0 {
		return Policy{}, fmt.Errorf("schedule: invalid opening time %q", open)
	}
	c := ToMinutes(close)
	if c < 0 {
		return Policy{}, fmt.Errorf("schedule: invalid closing time %q", close)
	}
	if c < o {
		return Policy{}, fmt.Errorf("schedule: closing time %q before opening time %q", close, open)
	}
	if step <= 0 {
		return Policy{}, fmt.Errorf("schedule: slot step must be positive, got %d", step)
	}
	return Policy{Open: o, Close: c, Step: step}, nil
}

func (p Policy) Slots() []string {
	return SlotsForDay(p.Open, p.Close, p.Step)
}
