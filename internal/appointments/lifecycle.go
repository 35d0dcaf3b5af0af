package appointments

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/harentsoaR/clinic-api/internal/models"
	"github.com/harentsoaR/clinic-api/internal/schedule"
)

// Flow selects which booking surface a request came from. The flows differ
// only in which fields they require and whether the mobile is checked.
type Flow int

const (
	FlowStandard  Flow = iota // appointments page
	FlowCalendar              // calendar booking, also needs age and patientStatus
	FlowQuickBook             // navbar quick-book, also needs age and a 10-digit mobile
)

func (f Flow) String() string {
	switch f {
	case FlowCalendar:
		return "calendar"
	case FlowQuickBook:
		return "quick"
	default:
		return "standard"
	}
}

func ParseFlow(s string) (Flow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return FlowStandard, nil
	case "calendar":
		return FlowCalendar, nil
	case "quick", "quickbook", "quick-book":
		return FlowQuickBook, nil
	}
	return FlowStandard, fmt.Errorf("unknown booking flow %q", s)
}

// Input is the editable part of an appointment as submitted by a form.
type Input struct {
	FullName      string                   `json:"fullName"`
	Mobile        string                   `json:"mobile"`
	Mobile2       string                   `json:"mobile2"`
	Email         string                   `json:"email"`
	Address       string                   `json:"address"`
	Age           string                   `json:"age"`
	Gender        string                   `json:"gender"`
	Notes         string                   `json:"notes"`
	Date          string                   `json:"date"`
	Time          string                   `json:"time"`
	Status        models.AppointmentStatus `json:"status"`
	PatientStatus models.PatientStatus     `json:"patientStatus"`
}

func (in Input) trimmed() Input {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.Mobile2 = strings.TrimSpace(in.Mobile2)
	in.Email = strings.TrimSpace(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	in.Age = strings.TrimSpace(in.Age)
	in.Gender = strings.TrimSpace(in.Gender)
	in.Notes = strings.TrimSpace(in.Notes)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	in.Status = models.AppointmentStatus(strings.TrimSpace(string(in.Status)))
	in.PatientStatus = models.PatientStatus(strings.TrimSpace(string(in.PatientStatus)))
	return in
}

func (in Input) missing(flow Flow) []string {
	var fields []string
	check := func(name, value string) {
		if value == "" {
			fields = append(fields, name)
		}
	}
	check("fullName", in.FullName)
	check("mobile", in.Mobile)
	if flow == FlowCalendar || flow == FlowQuickBook {
		check("age", in.Age)
	}
	check("date", in.Date)
	check("time", in.Time)
	check("status", string(in.Status))
	if flow == FlowCalendar {
		check("patientStatus", string(in.PatientStatus))
	}
	return fields
}

// Controller validates appointment writes and derives the next store state.
type Controller struct {
	today func() string
	now   func() time.Time
	newID func() string
}

func NewController(clock *schedule.Clock) *Controller {
	return &Controller{today: clock.Today, now: clock.Now, newID: uuid.NewString}
}

// Validate checks in against records and returns the record to store.
// existing is nil for a create; for an edit its id and createdAt are kept and
// it is excluded from the duplicate check.
func (c *Controller) Validate(records []models.Appointment, in Input, flow Flow, existing *models.Appointment) (models.Appointment, error) {
	in = in.trimmed()

	// Quick-book checks the mobile before anything else, so an empty one
	// reports as invalid rather than missing.
	if flow == FlowQuickBook {
		in.Mobile = stripSpaces(in.Mobile)
		if !isTenDigits(in.Mobile) {
			return models.Appointment{}, invalid(ErrInvalidMobile, "mobile")
		}
	}
	if fields := in.missing(flow); len(fields) > 0 {
		return models.Appointment{}, invalid(ErrMissingRequiredField, fields...)
	}
	if !in.Status.Valid() {
		return models.Appointment{}, invalid(ErrInvalidValue, "status")
	}
	if in.PatientStatus != "" && !in.PatientStatus.Valid() {
		return models.Appointment{}, invalid(ErrInvalidValue, "patientStatus")
	}
	if !schedule.ValidDate(in.Date) {
		return models.Appointment{}, invalid(ErrInvalidValue, "date")
	}
	// ISO dates order lexicographically; today itself is bookable.
	if in.Date < c.today() {
		return models.Appointment{}, invalid(ErrPastDate, "date")
	}
	minutes := schedule.ToMinutes(in.Time)
	if minutes < 0 {
		return models.Appointment{}, invalid(ErrInvalidValue, "time")
	}
	in.Time = schedule.FormatMinutes(minutes)

	excludeID := ""
	if existing != nil {
		excludeID = existing.ID
	}
	if HasConflict(records, in.Date, in.Time, excludeID) {
		return models.Appointment{}, invalid(ErrDuplicateSlot, "date", "time")
	}

	rec := models.Appointment{
		FullName:      in.FullName,
		Mobile:        in.Mobile,
		Mobile2:       in.Mobile2,
		Email:         in.Email,
		Address:       in.Address,
		Age:           in.Age,
		Gender:        in.Gender,
		Notes:         in.Notes,
		Date:          in.Date,
		Time:          in.Time,
		Status:        in.Status,
		PatientStatus: in.PatientStatus,
	}
	if existing != nil {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.ID = c.newID()
		rec.CreatedAt = c.now().UTC()
	}
	return rec, nil
}

// ChangeStatus replaces the status of one record. Any of the three statuses
// may follow any other.
func ChangeStatus(records []models.Appointment, id string, status models.AppointmentStatus) ([]models.Appointment, error) {
	next := make([]models.Appointment, len(records))
	copy(next, records)
	for i := range next {
		if next[i].ID == id {
			next[i].Status = status
			return next, nil
		}
	}
	return nil, ErrNotFound
}

// DeleteAppointment drops the record with id. Missing ids are not an error.
func DeleteAppointment(records []models.Appointment, id string) []models.Appointment {
	return Remove(records, id)
}

// RemoveByMobile drops every appointment joined to a patient's mobile.
func RemoveByMobile(records []models.Appointment, mobile string) []models.Appointment {
	next := make([]models.Appointment, 0, len(records))
	for _, r := range records {
		if r.Mobile != mobile {
			next = append(next, r)
		}
	}
	return next
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func isTenDigits(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
