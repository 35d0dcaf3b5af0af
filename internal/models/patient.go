package models

import "time"

// Patient is the denormalised identity behind appointments. Appointments are
// joined to a patient by mobile string equality, not by id.
type Patient struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Age       string    `json:"age,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	Email     string    `json:"email,omitempty"`
	Mobile    string    `json:"mobile"`
	Mobile2   string    `json:"mobile2,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
