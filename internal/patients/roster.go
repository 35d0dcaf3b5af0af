package patients

import (
	"sort"
	"strings"

	"github.com/harentsoaR/clinic-api/internal/models"
)

// PatientView is a patient joined with the appointments sharing its mobile.
type PatientView struct {
	models.Patient
	Appointments          []models.Appointment `json:"appointments"`
	LatestAppointmentDate string               `json:"latestAppointmentDate,omitempty"`
}

// Exists reports whether a patient with exactly this name, mobile and age is
// already on file.
func Exists(patients []models.Patient, fullName, mobile, age string) bool {
	for _, p := range patients {
		if p.FullName == fullName && p.Mobile == mobile && p.Age == age {
			return true
		}
	}
	return false
}

// Merge joins appointments onto patients by mobile, keeps the ones whose name
// or mobile matches search, and orders them by most recent appointment.
// Patients without appointments sort last.
func Merge(patients []models.Patient, appts []models.Appointment, search string) []PatientView {
	byMobile := make(map[string][]models.Appointment)
	for _, a := range appts {
		byMobile[a.Mobile] = append(byMobile[a.Mobile], a)
	}

	term := strings.TrimSpace(search)
	lower := strings.ToLower(term)
	out := make([]PatientView, 0, len(patients))
	for _, p := range patients {
		if term != "" &&
			!strings.Contains(strings.ToLower(p.FullName), lower) &&
			!strings.Contains(p.Mobile, term) {
			continue
		}
		view := PatientView{Patient: p, Appointments: byMobile[p.Mobile]}
		if view.Appointments == nil {
			view.Appointments = []models.Appointment{}
		}
		for _, a := range view.Appointments {
			if a.Date > view.LatestAppointmentDate {
				view.LatestAppointmentDate = a.Date
			}
		}
		out = append(out, view)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LatestAppointmentDate > out[j].LatestAppointmentDate
	})
	return out
}

func indexOf(patients []models.Patient, id string) int {
	for i := range patients {
		if patients[i].ID == id {
			return i
		}
	}
	return -1
}
