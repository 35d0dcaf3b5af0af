package appointments

import (
	"fmt"
	"time"

	"github.com/harentsoaR/clinic-api/internal/models"
	"github.com/harentsoaR/clinic-api/internal/schedule"
)

// 09:00 UTC on Jan 9 is 12:00 at the clinic, so "today" is 2025-01-09.
var fixedNow = time.Date(2025, 1, 9, 9, 0, 0, 0, time.UTC)

func fixedClock() *schedule.Clock {
	return schedule.NewClock(3, func() time.Time { return fixedNow })
}

func newTestController() *Controller {
	c := NewController(fixedClock())
	n := 0
	c.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return c
}

func validInput() Input {
	return Input{
		FullName:      "X",
		Mobile:        "5555550000",
		Age:           "30",
		Date:          "2025-01-10",
		Time:          "14:00",
		Status:        models.StatusActive,
		PatientStatus: models.PatientGeneral,
	}
}

func appt(id, date, tm string, status models.AppointmentStatus) models.Appointment {
	return models.Appointment{ID: id, FullName: "Patient " + id, Mobile: "555000" + id, Date: date, Time: tm, Status: status}
}
