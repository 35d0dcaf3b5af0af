package dashboard

import (
	"sort"

	"github.com/harentsoaR/clinic-api/internal/models"
	"github.com/harentsoaR/clinic-api/internal/schedule"
)

type Totals struct {
	Patients     int `json:"patients"`
	Appointments int `json:"appointments"`
	Completed    int `json:"completed"`
	Cancelled    int `json:"cancelled"`
	Active       int `json:"active"`
	Today        int `json:"today"`
}

type StatusCounts struct {
	Active    int `json:"Active"`
	Completed int `json:"Completed"`
	Cancelled int `json:"Cancelled"`
}

type Summary struct {
	Date          string               `json:"date"`
	Totals        Totals               `json:"totals"`
	TodayByStatus StatusCounts         `json:"todayByStatus"`
	Today         []models.Appointment `json:"today"`
}

// Summarize computes the dashboard for the clinic-local date today.
// Today's list runs earliest first; unparseable times go last.
func Summarize(patients []models.Patient, appts []models.Appointment, today string) Summary {
	s := Summary{
		Date:   today,
		Totals: Totals{Patients: len(patients), Appointments: len(appts)},
		Today:  []models.Appointment{},
	}
	for _, a := range appts {
		count(&s.Totals, a.Status)
		if a.Date != today {
			continue
		}
		s.Totals.Today++
		s.Today = append(s.Today, a)
		switch a.Status {
		case models.StatusActive:
			s.TodayByStatus.Active++
		case models.StatusCompleted:
			s.TodayByStatus.Completed++
		case models.StatusCancelled:
			s.TodayByStatus.Cancelled++
		}
	}

	sort.SliceStable(s.Today, func(i, j int) bool {
		mi, mj := schedule.ToMinutes(s.Today[i].Time), schedule.ToMinutes(s.Today[j].Time)
		if mi < 0 || mj < 0 {
			return mj < 0 && mi >= 0
		}
		return mi < mj
	})
	return s
}

func count(t *Totals, status models.AppointmentStatus) {
	switch status {
	case models.StatusActive:
		t.Active++
	case models.StatusCompleted:
		t.Completed++
	case models.StatusCancelled:
		t.Cancelled++
	}
}
