package http

import (
	"fmt"
	"net/http"

	"handsaround/internal/domain"

	"github.com/gorilla/mux"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req domain.Credentials
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	user, err := h.state.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, publicUser(user), domain.SuccessNotice("Login successful!"))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req domain.Signup
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	user, err := h.state.Register(r.Context(), req)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, publicUser(user), domain.SuccessNotice("Registration successful!"))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.state.Logout(r.Context()); err != nil {
		writeErr(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, nil, domain.SuccessNotice("Logged out successfully"))
}

// forgotPassword only acknowledges; password reset is owned by the backend.
func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusAccepted, nil, domain.InfoNotice("Password reset link sent to your email"))
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	writeOK(w, http.StatusOK, h.state.Events.Events(), nil)
}

func (h *Handler) refreshEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.state.FetchEvents(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, events, nil)
}

func (h *Handler) addEvent(w http.ResponseWriter, r *http.Request) {
	var fields domain.EventFields
	if err := decodeJSON(r, &fields); err != nil {
		writeErr(w, r, err)
		return
	}
	ev, err := h.state.AddEvent(r.Context(), fields)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, ev, domain.SuccessNotice("Event posted successfully!"))
}

func (h *Handler) editEvent(w http.ResponseWriter, r *http.Request) {
	var fields domain.EventFields
	if err := decodeJSON(r, &fields); err != nil {
		writeErr(w, r, err)
		return
	}
	ev, err := h.state.EditEvent(r.Context(), mux.Vars(r)["id"], fields)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, ev, nil)
}

func (h *Handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.state.DeleteEvent(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeErr(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, nil, domain.SuccessNotice("Event deleted successfully"))
}

func (h *Handler) listRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := h.state.EventRegistrations(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, regs, nil)
}

func (h *Handler) registerForEvent(w http.ResponseWriter, r *http.Request) {
	var form domain.RegistrationForm
	if err := decodeJSON(r, &form); err != nil {
		writeErr(w, r, err)
		return
	}
	reg, err := h.state.RegisterForEvent(r.Context(), mux.Vars(r)["id"], form)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, reg, domain.SuccessNotice("Successfully registered for the event!"))
}

func (h *Handler) unregisterFromEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.state.UnregisterFromEvent(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeErr(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, nil, domain.SuccessNotice("Successfully unregistered from the event"))
}

type themeRequest struct {
	Theme domain.Theme `json:"theme"`
}

func (h *Handler) setTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.state.Preferences.SetTheme(r.Context(), req.Theme); err != nil {
		writeErr(w, r, err)
		return
	}
	label := "Light"
	if req.Theme == domain.ThemeDark {
		label = "Dark"
	}
	writeOK(w, http.StatusOK, h.state.Preferences.Preferences(), domain.SuccessNotice(fmt.Sprintf("%s mode enabled", label)))
}

type locationGrantRequest struct {
	Granted bool `json:"granted"`
}

func (h *Handler) setLocationGranted(w http.ResponseWriter, r *http.Request) {
	var req locationGrantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.state.Preferences.SetLocationGranted(r.Context(), req.Granted); err != nil {
		writeErr(w, r, err)
		return
	}
	notice := domain.SuccessNotice("Location access granted!")
	if !req.Granted {
		notice = domain.InfoNotice("You can grant location access later from your profile")
	}
	writeOK(w, http.StatusOK, h.state.Preferences.Preferences(), notice)
}
