package domain

import "strings"

type Role string

const (
	RoleNGO       Role = "ngo"
	RoleVolunteer Role = "volunteer"
)

func (r Role) Valid() bool {
	return r == RoleNGO || r == RoleVolunteer
}

// User is the single authenticated identity held by the session.
// The JSON shape matches what the backend returns and what is kept in local storage.
type User struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Role             Role   `json:"role"`
	OrganizationName string `json:"organizationName,omitempty"`
	AuthToken        string `json:"token,omitempty"`
}

func (u *User) IsNGO() bool {
	return u != nil && u.Role == RoleNGO
}

func (u *User) IsVolunteer() bool {
	return u != nil && u.Role == RoleVolunteer
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// Signup is the registration form. OrganizationName is required iff Role is ngo.
type Signup struct {
	Name             string `json:"name" validate:"required,max=120"`
	Email            string `json:"email" validate:"required,email,max=254"`
	Password         string `json:"password" validate:"required,min=6,max=128"`
	Role             Role   `json:"role" validate:"required,oneof=ngo volunteer"`
	OrganizationName string `json:"organizationName,omitempty" validate:"required_if=Role ngo,max=200"`
}

// Normalize trims whitespace and lowercases the email.
func (s *Signup) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.OrganizationName = strings.TrimSpace(s.OrganizationName)
	if s.Role != RoleNGO {
		s.OrganizationName = ""
	}
}

func (c *Credentials) Normalize() {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
}
