package domain

import (
	"sort"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Categories an NGO can choose from when posting an event.
var Categories = []string{
	"Food Distribution",
	"Environmental Cleanup",
	"Education & Teaching",
	"Healthcare",
	"Community Development",
	"Animal Welfare",
	"Other",
}

// DefaultPhotoURLs is used when an NGO posts an event without a photo.
var DefaultPhotoURLs = []string{
	"https://images.unsplash.com/photo-1751666526244-40239a251eae?crop=entropy&cs=tinysrgb&fit=max&fm=jpg&q=80&w=1080",
	"https://images.unsplash.com/photo-1593113630400-ea4288922497?crop=entropy&cs=tinysrgb&fit=max&fm=jpg&q=80&w=1080",
	"https://images.unsplash.com/photo-1713201668195-109a045fb05b?crop=entropy&cs=tinysrgb&fit=max&fm=jpg&q=80&w=1080",
}

func IsCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

type Event struct {
	ID             string   `json:"id"`
	OwnerOrgID     string   `json:"ownerOrgId"`
	OwnerOrgName   string   `json:"ownerOrgName"`
	Title          string   `json:"title"`
	Category       string   `json:"category"`
	Date           string   `json:"date"`
	Time           string   `json:"time"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	VolunteerSlots int      `json:"volunteerSlots"`
	PhotoURL       string   `json:"photoUrl"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether the event carries a real position.
func (e *Event) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// Day parses the event date. Unparseable dates report ok=false.
func (e *Event) Day() (time.Time, bool) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(e.Date), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// EventFields is what an NGO submits when posting an event.
type EventFields struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Category       string   `json:"category" validate:"required,category"`
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time           string   `json:"time" validate:"required,datetime=15:04"`
	Location       string   `json:"location" validate:"required,max=300"`
	Description    string   `json:"description" validate:"required,max=5000"`
	VolunteerSlots int      `json:"volunteerSlots" validate:"required,min=1"`
	PhotoURL       string   `json:"photoUrl,omitempty" validate:"omitempty,max=2048"`
	Latitude       *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude      *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

func (f *EventFields) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Category = strings.TrimSpace(f.Category)
	f.Date = strings.TrimSpace(f.Date)
	f.Time = strings.TrimSpace(f.Time)
	f.Location = strings.TrimSpace(f.Location)
	f.Description = strings.TrimSpace(f.Description)
	f.PhotoURL = strings.TrimSpace(f.PhotoURL)
}

// Upcoming returns events dated today or later, earliest first.
// Events with unparseable dates are left out.
func Upcoming(events []Event, now time.Time) []Event {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	type dated struct {
		day time.Time
		ev  Event
	}
	var kept []dated
	for _, e := range events {
		day, ok := e.Day()
		if !ok || day.Before(today) {
			continue
		}
		kept = append(kept, dated{day: day, ev: e})
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].day.Before(kept[j].day)
	})

	out := make([]Event, 0, len(kept))
	for _, k := range kept {
		out = append(out, k.ev)
	}
	return out
}

// OwnedBy returns the events posted by the given NGO, in directory order.
func OwnedBy(events []Event, ownerID string) []Event {
	var out []Event
	for _, e := range events {
		if e.OwnerOrgID == ownerID {
			out = append(out, e)
		}
	}
	return out
}
