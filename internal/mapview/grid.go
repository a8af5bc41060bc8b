package mapview

import (
	"context"
	"math/rand/v2"
	"time"

	"handsaround/internal/domain"
	"handsaround/internal/logger"
)

// Pin is an event marker on the projected grid. X and Y are percentages of
// the panel, with the base location at (50, 50).
//
// Approximate pins were placed by jittering around the base location because
// the event carries no coordinates. Their position says nothing about where
// the event actually happens.
type Pin struct {
	EventID     string             `json:"eventId"`
	Title       string             `json:"title"`
	Location    string             `json:"location"`
	Position    domain.Coordinates `json:"position"`
	X           float64            `json:"x"`
	Y           float64            `json:"y"`
	Approximate bool               `json:"approximate"`
}

type Grid struct {
	Center     domain.Coordinates `json:"center"`
	UserMarker bool               `json:"userMarker"`
	Pins       []Pin              `json:"pins"`
	// Considered counts the events that were projected, including those outside the panel.
	Considered int            `json:"considered"`
	Notice     *domain.Notice `json:"notice,omitempty"`
}

type GridOptions struct {
	Default domain.Coordinates
	Scale   float64
	Jitter  float64
	MaxPins int
	Timeout time.Duration
}

// GridRenderer projects events linearly around a base location. It is the
// fallback when no tile provider is available.
type GridRenderer struct {
	opts    GridOptions
	locator Locator
	rand    func() float64
}

func NewGridRenderer(opts GridOptions, locator Locator) *GridRenderer {
	return &GridRenderer{opts: opts, locator: locator, rand: rand.Float64}
}

// Render resolves the base location, asking the locator only when the user
// granted location access, and projects events onto the panel.
func (r *GridRenderer) Render(ctx context.Context, events []domain.Event, granted bool) Grid {
	if !granted {
		return r.Project(events, nil)
	}

	pos, err := locate(ctx, r.locator, r.opts.Timeout)
	if err != nil {
		logger.Warn("Geolocation failed, using default location", "error", err)
		base := r.opts.Default
		g := r.Project(events, &base)
		g.Notice = domain.ErrorNotice(err.Error())
		return g
	}
	g := r.Project(events, &pos)
	g.Notice = domain.SuccessNotice("Location detected successfully")
	return g
}

// Project places at most MaxPins events. A nil base projects around the
// default location without a user marker.
func (r *GridRenderer) Project(events []domain.Event, base *domain.Coordinates) Grid {
	center := r.opts.Default
	if base != nil {
		center = *base
	}

	if r.opts.MaxPins > 0 && len(events) > r.opts.MaxPins {
		events = events[:r.opts.MaxPins]
	}

	g := Grid{
		Center:     center,
		UserMarker: base != nil,
		Pins:       make([]Pin, 0, len(events)),
		Considered: len(events),
	}

	for _, e := range events {
		pos, approx := r.position(e, center)
		x := 50 + (pos.Lng-center.Lng)*r.opts.Scale
		y := 50 - (pos.Lat-center.Lat)*r.opts.Scale
		if x < 0 || x > 100 || y < 0 || y > 100 {
			continue
		}
		g.Pins = append(g.Pins, Pin{
			EventID:     e.ID,
			Title:       e.Title,
			Location:    e.Location,
			Position:    pos,
			X:           x,
			Y:           y,
			Approximate: approx,
		})
	}
	return g
}

func (r *GridRenderer) position(e domain.Event, center domain.Coordinates) (domain.Coordinates, bool) {
	if e.HasCoordinates() {
		return domain.Coordinates{Lat: *e.Latitude, Lng: *e.Longitude}, false
	}
	return domain.Coordinates{
		Lat: center.Lat + (r.rand()-0.5)*r.opts.Jitter,
		Lng: center.Lng + (r.rand()-0.5)*r.opts.Jitter,
	}, true
}
