package schedule

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// ClinicZone is the clinic's fixed offset zone. It does not follow DST.
func ClinicZone(offsetHours int) *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
}

// Clock reports the current time in the clinic zone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a clock for the given offset. A nil now uses time.Now.
func NewClock(offsetHours int, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{loc: ClinicZone(offsetHours), now: now}
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today is the clinic-local date as "2006-01-02".
func (c *Clock) Today() string {
	return c.Now().Format(DateLayout)
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// ValidDate reports whether s is a real "2006-01-02" calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
