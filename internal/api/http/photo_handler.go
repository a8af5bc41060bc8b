package http

import (
	"errors"
	"io"
	"net/http"

	"handsaround/internal/domain"
	"handsaround/internal/logger"
	"handsaround/internal/storage"

	"github.com/gorilla/mux"
)

type photoResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// requireNGO returns a typed error unless an NGO is signed in.
func (h *Handler) requireNGO() error {
	user := h.state.User()
	if user == nil {
		return domain.ErrNotAuthenticated
	}
	if !user.IsNGO() {
		return domain.NewError(domain.KindForbidden, "only NGOs can upload photos", nil)
	}
	return nil
}

// uploadPhoto stores the raw request body; the returned URL is usable as an event photoUrl.
func (h *Handler) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.requireNGO(); err != nil {
		writeErr(w, r, err)
		return
	}

	key, url, err := h.photos.Save(r.Context(), r.Header.Get("Content-Type"), r.Body)
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		writeBadRequest(w, "Please upload a JPEG, PNG or GIF image")
		return
	case errors.Is(err, storage.ErrTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
			Error:  "photo is too large",
			Code:   string(domain.KindValidation),
			Notice: domain.ErrorNotice("Photo is too large"),
		})
		return
	case err != nil:
		writeErr(w, r, domain.NewError(domain.KindBackend, "could not store photo", err))
		return
	}

	logger.InfoContext(r.Context(), "Photo uploaded", "key", key)
	writeOK(w, http.StatusCreated, photoResponse{Key: key, URL: url}, nil)
}

func (h *Handler) downloadPhoto(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	file, contentType, err := h.photos.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		logger.Error("Failed to open photo", "key", key, "error", err)
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, file); err != nil {
		logger.Warn("Photo stream interrupted", "key", key, "error", err)
	}
}

func (h *Handler) deletePhoto(w http.ResponseWriter, r *http.Request) {
	if err := h.requireNGO(); err != nil {
		writeErr(w, r, err)
		return
	}
	key := mux.Vars(r)["key"]
	if err := h.photos.Delete(r.Context(), key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeErr(w, r, domain.NewError(domain.KindNotFound, "photo not found", err))
			return
		}
		writeErr(w, r, domain.NewError(domain.KindBackend, "could not delete photo", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
