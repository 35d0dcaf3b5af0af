package models

import "time"

type AppointmentStatus string

const (
	StatusActive    AppointmentStatus = "Active"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// Valid reports whether s is one of the three known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// PatientStatus is a visit category. No behaviour hangs off it.
type PatientStatus string

const (
	PatientGeneral   PatientStatus = "General"
	PatientPregnancy PatientStatus = "Pregnancy"
	PatientIVF       PatientStatus = "IVF"
)

func (p PatientStatus) Valid() bool {
	switch p {
	case PatientGeneral, PatientPregnancy, PatientIVF:
		return true
	}
	return false
}

// Appointment is a scheduled clinic visit. Date is "2006-01-02" and Time is
// "15:04" in clinic-local time.
type Appointment struct {
	ID            string            `json:"id"`
	FullName      string            `json:"fullName"`
	Mobile        string            `json:"mobile"`
	Mobile2       string            `json:"mobile2,omitempty"`
	Email         string            `json:"email,omitempty"`
	Address       string            `json:"address,omitempty"`
	Age           string            `json:"age,omitempty"`
	Gender        string            `json:"gender,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	Status        AppointmentStatus `json:"status"`
	PatientStatus PatientStatus     `json:"patientStatus,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}
