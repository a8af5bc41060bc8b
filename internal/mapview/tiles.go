package mapview

import (
	"context"
	"fmt"
	"time"

	"handsaround/internal/domain"
	"handsaround/internal/logger"
)

type Marker struct {
	EventID  string             `json:"eventId"`
	Title    string             `json:"title"`
	Location string             `json:"location"`
	Position domain.Coordinates `json:"position"`
}

// TileView is what a slippy-map client needs to draw the page.
type TileView struct {
	Center      domain.Coordinates  `json:"center"`
	Zoom        int                 `json:"zoom"`
	TileURL     string              `json:"tileUrl"`
	Attribution string              `json:"attribution"`
	User        *domain.Coordinates `json:"user,omitempty"`
	Markers     []Marker            `json:"markers"`
	Notice      *domain.Notice      `json:"notice,omitempty"`
}

type TileOptions struct {
	Region      domain.Coordinates
	RegionZoom  int
	LocatedZoom int
	TileURL     string
	Attribution string
	Timeout     time.Duration
}

type TileRenderer struct {
	opts    TileOptions
	locator Locator
}

func NewTileRenderer(opts TileOptions, locator Locator) *TileRenderer {
	return &TileRenderer{opts: opts, locator: locator}
}

// Render centers on the device position when it can be resolved and falls
// back to the default region otherwise. Only events with real coordinates
// get a marker.
func (r *TileRenderer) Render(ctx context.Context, events []domain.Event, granted bool) TileView {
	v := TileView{
		Center:      r.opts.Region,
		Zoom:        r.opts.RegionZoom,
		TileURL:     r.opts.TileURL,
		Attribution: r.opts.Attribution,
		Markers:     markers(events),
	}

	var (
		pos domain.Coordinates
		err error
	)
	if granted {
		pos, err = locate(ctx, r.locator, r.opts.Timeout)
	} else {
		err = &GeoError{Code: PermissionDenied}
	}
	if err != nil {
		logger.Info("Showing default map region", "reason", err)
		v.Notice = domain.ErrorNotice(fmt.Sprintf("%s. Showing default area.", err))
		return v
	}

	v.Center = pos
	v.Zoom = r.opts.LocatedZoom
	v.User = &pos
	return v
}

func markers(events []domain.Event) []Marker {
	out := make([]Marker, 0, len(events))
	for _, e := range events {
		if !e.HasCoordinates() {
			continue
		}
		out = append(out, Marker{
			EventID:  e.ID,
			Title:    e.Title,
			Location: e.Location,
			Position: domain.Coordinates{Lat: *e.Latitude, Lng: *e.Longitude},
		})
	}
	return out
}
