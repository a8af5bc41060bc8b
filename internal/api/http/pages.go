package http

import (
	"net/http"

	"handsaround/internal/domain"
	"handsaround/internal/router"
)

type pageView struct {
	Page        router.Page        `json:"page"`
	Path        string             `json:"path"`
	User        *domain.User       `json:"user"`
	Preferences domain.Preferences `json:"preferences"`
	Data        any                `json:"data,omitempty"`
}

type homeData struct {
	Stats  any `json:"stats"`
	Events any `json:"events"`
}

type addPostData struct {
	Categories    []string `json:"categories"`
	DefaultPhotos []string `json:"defaultPhotos"`
}

// page runs the navigation guards and renders the page's view model.
func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	user := h.state.User()
	decision := router.Resolve(r.URL.Path, user)
	if decision.Redirect != "" {
		http.Redirect(w, r, decision.Redirect, http.StatusSeeOther)
		return
	}

	view := pageView{
		Page:        decision.Page,
		Path:        r.URL.Path,
		User:        publicUser(user),
		Preferences: h.state.Preferences.Preferences(),
	}

	switch decision.Page {
	case router.PageHome:
		view.Data = homeData{Stats: h.state.HomeStats(), Events: h.state.UpcomingEvents()}
	case router.PageEvents:
		view.Data = h.state.UpcomingEvents()
	case router.PageNGOPosts:
		view.Data = h.state.MyEvents()
	case router.PageAddPost:
		view.Data = addPostData{Categories: domain.Categories, DefaultPhotos: domain.DefaultPhotoURLs}
	case router.PageProfile:
		view.Data = h.state.HomeStats()
	}

	writeJSON(w, http.StatusOK, view)
}
