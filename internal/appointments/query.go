package appointments

import (
	"sort"
	"strings"

	"github.com/harentsoaR/clinic-api/internal/models"
)

// All disables a status or patient-type filter.
const All = "All"

type Filter struct {
	Search      string `form:"search"`
	Status      string `form:"status"`
	Date        string `form:"date"`
	PatientType string `form:"patientType"`
}

// Project filters records and orders them newest first (date desc, then time
// desc). It never modifies records.
func Project(records []models.Appointment, f Filter) []models.Appointment {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Appointment, 0, len(records))

	for _, r := range records {
		if search != "" &&
			!strings.Contains(strings.ToLower(r.FullName), search) &&
			!strings.Contains(r.Mobile, strings.TrimSpace(f.Search)) {
			continue
		}
		if f.Status != "" && f.Status != All && string(r.Status) != f.Status {
			continue
		}
		if f.Date != "" && r.Date != f.Date {
			continue
		}
		if f.PatientType != "" && f.PatientType != All && string(r.PatientStatus) != f.PatientType {
			continue
		}
		out = append(out, r)
	}

	// Zero-padded "HH:MM" compares correctly as a string.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].Time > out[j].Time
	})
	return out
}
