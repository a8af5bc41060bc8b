package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"handsaround/internal/domain"
	"handsaround/internal/logger"
)

// errorBody is sent as { "error": message, "code": kind, "notice": {...} }.
type errorBody struct {
	Error  string         `json:"error"`
	Code   string         `json:"code"`
	Notice *domain.Notice `json:"notice,omitempty"`
}

// okBody wraps a successful action result with the notice to show.
type okBody struct {
	Data   any            `json:"data,omitempty"`
	Notice *domain.Notice `json:"notice,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, code int, data any, notice *domain.Notice) {
	writeJSON(w, code, okBody{Data: data, Notice: notice})
}

// writeErr maps a typed failure to a status code and a user notice.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)
	notice := noticeFor(kind, err)

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "kind", kind, "error", err)
	} else {
		logger.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "kind", kind, "error", err)
	}
	writeJSON(w, status, errorBody{Error: notice.Message, Code: string(kind), Notice: notice})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		Error:  message,
		Code:   string(domain.KindValidation),
		Notice: domain.ErrorNotice(message),
	})
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuthentication, domain.KindNotAuthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict, domain.KindEventFull, domain.KindAlreadyRegistered, domain.KindNotRegistered, domain.KindInFlight:
		return http.StatusConflict
	case domain.KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusBadGateway
	}
}

func noticeFor(kind domain.ErrorKind, err error) *domain.Notice {
	switch kind {
	case domain.KindAuthentication:
		return domain.ErrorNotice("Invalid credentials. Please try again.")
	case domain.KindConflict:
		return domain.ErrorNotice("Email already exists. Please use a different email.")
	case domain.KindAlreadyRegistered:
		return domain.InfoNotice("You are already registered for this event")
	case domain.KindNotImplemented:
		return domain.InfoNotice("Edit functionality - Coming soon!")
	case domain.KindNotAuthenticated:
		return domain.ErrorNotice("Please sign in to continue")
	case domain.KindBackend:
		return domain.ErrorNotice("Something went wrong. Please try again.")
	}

	var e *domain.Error
	if errors.As(err, &e) && e.Message != "" {
		return domain.ErrorNotice(e.Message)
	}
	return domain.ErrorNotice("Something went wrong. Please try again.")
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return domain.Validationf("invalid request body")
	}
	return nil
}

// publicUser hides the backend token from page payloads.
func publicUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	c.AuthToken = ""
	return &c
}
