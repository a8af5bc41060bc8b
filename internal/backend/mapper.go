package backend

import (
	"handsaround/internal/domain"
)

// The backend and the front disagree on the event name field: the backend
// stores it as "title", older payloads and the front's forms call it "name".
// Every translation between the two schemas happens in this file.

type wireUser struct {
	MongoID          string `json:"_id,omitempty"`
	ID               string `json:"id,omitempty"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	OrganizationName string `json:"organizationName,omitempty"`
	Token            string `json:"token,omitempty"`
}

type wireEvent struct {
	MongoID          string   `json:"_id,omitempty"`
	ID               string   `json:"id,omitempty"`
	NGOID            string   `json:"ngoId,omitempty"`
	NGOName          string   `json:"ngoName,omitempty"`
	Title            string   `json:"title"`
	Name             string   `json:"name,omitempty"`
	Type             string   `json:"type"`
	Date             string   `json:"date"`
	Time             string   `json:"time"`
	Location         string   `json:"location"`
	Description      string   `json:"description"`
	VolunteersNeeded int      `json:"volunteersNeeded"`
	PhotoURL         string   `json:"photoUrl"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Role             string `json:"role"`
	OrganizationName string `json:"organizationName,omitempty"`
}

type userResponse struct {
	User *wireUser `json:"user"`
}

type eventsResponse struct {
	Events []wireEvent `json:"events"`
}

type eventResponse struct {
	Event *wireEvent `json:"event"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func toDomainUser(w *wireUser) *domain.User {
	return &domain.User{
		ID:               firstNonEmpty(w.ID, w.MongoID),
		Name:             w.Name,
		Email:            w.Email,
		Role:             domain.Role(w.Role),
		OrganizationName: w.OrganizationName,
		AuthToken:        w.Token,
	}
}

// toDomainEvent reads the backend's "title", falling back to "name" for older records.
func toDomainEvent(w wireEvent) domain.Event {
	return domain.Event{
		ID:             firstNonEmpty(w.ID, w.MongoID),
		OwnerOrgID:     w.NGOID,
		OwnerOrgName:   w.NGOName,
		Title:          firstNonEmpty(w.Title, w.Name),
		Category:       w.Type,
		Date:           w.Date,
		Time:           w.Time,
		Location:       w.Location,
		Description:    w.Description,
		VolunteerSlots: w.VolunteersNeeded,
		PhotoURL:       w.PhotoURL,
		Latitude:       w.Latitude,
		Longitude:      w.Longitude,
	}
}

// toWireEvent writes the title under "title" only; the backend derives nothing from "name".
func toWireEvent(owner domain.User, f domain.EventFields) wireEvent {
	return wireEvent{
		NGOID:            owner.ID,
		NGOName:          owner.OrganizationName,
		Title:            f.Title,
		Type:             f.Category,
		Date:             f.Date,
		Time:             f.Time,
		Location:         f.Location,
		Description:      f.Description,
		VolunteersNeeded: f.VolunteerSlots,
		PhotoURL:         f.PhotoURL,
		Latitude:         f.Latitude,
		Longitude:        f.Longitude,
	}
}

func toDomainEvents(ws []wireEvent) []domain.Event {
	out := make([]domain.Event, 0, len(ws))
	for _, w := range ws {
		out = append(out, toDomainEvent(w))
	}
	return out
}
