package http

import (
	"context"
	"fmt"
	"net/http"

	"handsaround/internal/domain"
	"handsaround/internal/mapview"
	"handsaround/internal/service"
	"handsaround/internal/storage"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LocationReporter receives positions and geolocation failures from the device.
type LocationReporter interface {
	Report(pos domain.Coordinates)
	Fail(code mapview.GeoErrorCode)
}

// Pinger is checked by /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the front is built from.
type Deps struct {
	State    *service.AppState
	Photos   storage.PhotoStore
	Grid     *mapview.GridRenderer
	Tiles    *mapview.TileRenderer
	Reporter LocationReporter
	Store    Pinger
}

type Options struct {
	Development   bool
	AuthRateLimit string
}

// Handler serves the guarded pages and the JSON actions.
type Handler struct {
	state    *service.AppState
	photos   storage.PhotoStore
	grid     *mapview.GridRenderer
	tiles    *mapview.TileRenderer
	reporter LocationReporter
	store    Pinger
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		state:    d.State,
		photos:   d.Photos,
		grid:     d.Grid,
		tiles:    d.Tiles,
		reporter: d.Reporter,
		store:    d.Store,
	}
}

// NewRouter wires every route of the front.
func NewRouter(d Deps, opts Options) (*mux.Router, error) {
	h := NewHandler(d)

	authLimiter, err := newIPRateLimiter(opts.AuthRateLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid auth rate limit %q: %w", opts.AuthRateLimit, err)
	}

	r := mux.NewRouter()
	r.Use(metricsMiddleware, loggingMiddleware, newSecure(opts.Development))

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)

	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.Use(authLimiter)
	auth.HandleFunc("/login", h.login).Methods(http.MethodPost)
	auth.HandleFunc("/register", h.register).Methods(http.MethodPost)
	auth.HandleFunc("/logout", h.logout).Methods(http.MethodPost)
	auth.HandleFunc("/forgot-password", h.forgotPassword).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/events", h.listEvents).Methods(http.MethodGet)
	api.HandleFunc("/events", h.addEvent).Methods(http.MethodPost)
	api.HandleFunc("/events/refresh", h.refreshEvents).Methods(http.MethodPost)
	api.HandleFunc("/events/{id}", h.editEvent).Methods(http.MethodPut)
	api.HandleFunc("/events/{id}", h.deleteEvent).Methods(http.MethodDelete)
	api.HandleFunc("/events/{id}/registrations", h.listRegistrations).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}/registrations", h.registerForEvent).Methods(http.MethodPost)
	api.HandleFunc("/events/{id}/registrations", h.unregisterFromEvent).Methods(http.MethodDelete)
	api.HandleFunc("/preferences/theme", h.setTheme).Methods(http.MethodPut)
	api.HandleFunc("/preferences/location", h.setLocationGranted).Methods(http.MethodPut)
	api.HandleFunc("/location", h.reportLocation).Methods(http.MethodPost)
	api.HandleFunc("/map/tiles", h.tileMap).Methods(http.MethodGet)
	api.HandleFunc("/map/grid", h.gridMap).Methods(http.MethodGet)
	api.HandleFunc("/photos", h.uploadPhoto).Methods(http.MethodPost)
	api.HandleFunc("/photos/{key}", h.deletePhoto).Methods(http.MethodDelete)

	r.HandleFunc("/photos/{key}", h.downloadPhoto).Methods(http.MethodGet)

	// Everything else is a page; unknown paths are redirected by the guards.
	r.PathPrefix("/").HandlerFunc(h.page).Methods(http.MethodGet)

	return r, nil
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}
	status := http.StatusOK
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			checks["storage"] = "down: " + err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["storage"] = "ok"
		}
	}
	state := "ok"
	if status != http.StatusOK {
		state = "unhealthy"
	}
	writeJSON(w, status, map[string]any{"status": state, "checks": checks})
}
