package domain

import "strings"

type Registration struct {
	ID            string `json:"id"`
	EventID       string `json:"eventId"`
	VolunteerID   string `json:"volunteerId"`
	VolunteerName string `json:"volunteerName"`
	PhoneNumber   string `json:"phoneNumber"`
}

// RegistrationForm is what a volunteer fills in to claim a slot.
type RegistrationForm struct {
	VolunteerName string `json:"volunteerName" validate:"required,max=120"`
	PhoneNumber   string `json:"phoneNumber" validate:"required,max=32"`
}

func (f *RegistrationForm) Normalize() {
	f.VolunteerName = strings.TrimSpace(f.VolunteerName)
	f.PhoneNumber = strings.TrimSpace(f.PhoneNumber)
}
