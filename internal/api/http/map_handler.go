package http

import (
	"net/http"

	"handsaround/internal/domain"
	"handsaround/internal/mapview"
)

// locationReport is what the device posts: either a position or an error code.
type locationReport struct {
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	ErrorCode int      `json:"errorCode,omitempty"`
}

func (h *Handler) reportLocation(w http.ResponseWriter, r *http.Request) {
	if h.reporter == nil {
		writeErr(w, r, domain.NewError(domain.KindNotImplemented, "geolocation is not available", nil))
		return
	}
	var req locationReport
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}

	if req.ErrorCode != 0 {
		code := mapview.GeoErrorCode(req.ErrorCode)
		h.reporter.Fail(code)
		err := &mapview.GeoError{Code: code}
		writeOK(w, http.StatusAccepted, nil, domain.ErrorNotice(err.Error()))
		return
	}

	if req.Lat == nil || req.Lng == nil || *req.Lat < -90 || *req.Lat > 90 || *req.Lng < -180 || *req.Lng > 180 {
		writeBadRequest(w, "lat and lng must be valid coordinates")
		return
	}
	pos := domain.Coordinates{Lat: *req.Lat, Lng: *req.Lng}
	h.reporter.Report(pos)
	writeOK(w, http.StatusAccepted, pos, domain.SuccessNotice("Location detected successfully"))
}

func (h *Handler) tileMap(w http.ResponseWriter, r *http.Request) {
	granted := h.state.Preferences.Preferences().LocationGranted
	writeJSON(w, http.StatusOK, h.tiles.Render(r.Context(), h.state.Events.Events(), granted))
}

func (h *Handler) gridMap(w http.ResponseWriter, r *http.Request) {
	granted := h.state.Preferences.Preferences().LocationGranted
	writeJSON(w, http.StatusOK, h.grid.Render(r.Context(), h.state.Events.Events(), granted))
}
