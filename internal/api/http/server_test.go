package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"handsaround/internal/domain"
	"handsaround/internal/mapview"
	"handsaround/internal/security"
	"handsaround/internal/service"
	"handsaround/internal/storage"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	ngo  = domain.User{ID: "ngo-1", Name: "Helping Hands", Email: "ngo@example.org", Role: domain.RoleNGO, OrganizationName: "Helping Hands Trust", AuthToken: "tok-ngo"}
	vani = domain.User{ID: "vol-v", Name: "Vani", Email: "vani@example.org", Role: domain.RoleVolunteer, AuthToken: "tok-v"}
	wasi = domain.User{ID: "vol-w", Name: "Wasim", Email: "wasim@example.org", Role: domain.RoleVolunteer, AuthToken: "tok-w"}
)

type fixture struct {
	t       *testing.T
	router  *mux.Router
	backend *MockBackend
	store   *storage.MemoryStore
	state   *service.AppState
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	backend := new(MockBackend)
	store := storage.NewMemoryStore()
	state := service.NewAppState(backend, store, security.NewTokenInspector(0))

	photos, err := storage.NewFilePhotoStore("http://localhost:8080/photos", t.TempDir(), 1024, []string{"image/png", "image/jpeg"})
	require.NoError(t, err)

	loc := mapview.NewReportedLocator(time.Minute)
	grid := mapview.NewGridRenderer(mapview.GridOptions{
		Default: domain.Coordinates{Lat: 28.6139, Lng: 77.2090},
		Scale:   500, Jitter: 0.1, MaxPins: 10, Timeout: 20 * time.Millisecond,
	}, loc)
	tiles := mapview.NewTileRenderer(mapview.TileOptions{
		Region:      domain.Coordinates{Lat: 20.5937, Lng: 78.9629},
		RegionZoom:  5,
		LocatedZoom: 16,
		TileURL:     "https://tiles.example/{z}/{x}/{y}.png",
		Timeout:     20 * time.Millisecond,
	}, loc)

	opts.Development = true
	r, err := NewRouter(Deps{State: state, Photos: photos, Grid: grid, Tiles: tiles, Reporter: loc}, opts)
	require.NoError(t, err)

	return &fixture{t: t, router: r, backend: backend, store: store, state: state}
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) signIn(u domain.User) {
	f.t.Helper()
	f.backend.On("Login", mock.Anything, u.Email, "secret").Return(&u, nil).Once()
	rec := f.do(http.MethodPost, "/api/auth/login", map[string]string{"email": u.Email, "password": "secret"})
	require.Equal(f.t, http.StatusOK, rec.Code, rec.Body.String())
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func notice(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	n, ok := decode(t, rec)["notice"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	return n["message"].(string)
}

func TestPages_Guards(t *testing.T) {
	f := newFixture(t, Options{})

	t.Run("Landing is public", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "landing", decode(t, rec)["page"])
	})

	t.Run("Protected page redirects to auth", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/events", nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/auth", rec.Header().Get("Location"))
	})

	t.Run("Unknown path redirects to landing", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/some/where", nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("Role guard", func(t *testing.T) {
		f.signIn(vani)

		rec := f.do(http.MethodGet, "/events", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "events", body["page"])
		user := body["user"].(map[string]any)
		assert.Equal(t, "vol-v", user["id"])
		assert.NotContains(t, user, "token")

		rec = f.do(http.MethodGet, "/ngo/posts", nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/home", rec.Header().Get("Location"))
	})

	t.Run("Security headers", func(t *testing.T) {
		rec := f.do(http.MethodGet, "/", nil)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	})
}

func TestAuthActions(t *testing.T) {
	t.Run("Wrong password", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.backend.On("Login", mock.Anything, "vani@example.org", "nope").Return(nil, domain.ErrInvalidCredentials)

		rec := f.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "vani@example.org", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "authentication", decode(t, rec)["code"])
		assert.Equal(t, "Invalid credentials. Please try again.", notice(t, rec))
		assert.Nil(t, f.state.User())
		assert.Equal(t, 0, f.store.Writes())
	})

	t.Run("NGO without organization is rejected before the backend", func(t *testing.T) {
		f := newFixture(t, Options{})
		rec := f.do(http.MethodPost, "/api/auth/register", map[string]string{
			"name": "Org", "email": "org@example.org", "password": "secret1", "role": "ngo",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "organization name is required for NGOs", notice(t, rec))
		f.backend.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("Email in use", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.backend.On("Register", mock.Anything, mock.Anything).Return(nil, domain.ErrEmailInUse)
		rec := f.do(http.MethodPost, "/api/auth/register", map[string]string{
			"name": "Vani", "email": "vani@example.org", "password": "secret1", "role": "volunteer",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "conflict", decode(t, rec)["code"])
	})

	t.Run("Logout and forgot password", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.signIn(vani)

		rec := f.do(http.MethodPost, "/api/auth/logout", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, f.state.User())

		rec = f.do(http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "vani@example.org"})
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "Password reset link sent to your email", notice(t, rec))
	})

	t.Run("Rate limited", func(t *testing.T) {
		f := newFixture(t, Options{AuthRateLimit: "1-M"})
		assert.Equal(t, http.StatusAccepted, f.do(http.MethodPost, "/api/auth/forgot-password", nil).Code)
		assert.Equal(t, http.StatusTooManyRequests, f.do(http.MethodPost, "/api/auth/forgot-password", nil).Code)
	})
}

func TestEventActions(t *testing.T) {
	f := newFixture(t, Options{})
	fields := map[string]any{
		"title": "Beach cleanup", "category": "Environmental Cleanup", "date": "2026-12-01", "time": "08:00",
		"location": "Juhu", "description": "Bring gloves", "volunteerSlots": 1, "photoUrl": "https://img.example/b.jpg",
	}
	created := &domain.Event{
		ID: "e1", OwnerOrgID: ngo.ID, OwnerOrgName: ngo.OrganizationName, Title: "Beach cleanup",
		Category: "Environmental Cleanup", Date: "2026-12-01", Time: "08:00", Location: "Juhu",
		Description: "Bring gloves", VolunteerSlots: 1, PhotoURL: "https://img.example/b.jpg",
	}

	t.Run("Volunteer cannot post", func(t *testing.T) {
		f.signIn(vani)
		rec := f.do(http.MethodPost, "/api/events", fields)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("NGO posts", func(t *testing.T) {
		f.signIn(ngo)
		f.backend.On("CreateEvent", mock.Anything, "tok-ngo", mock.Anything, mock.Anything).Return(created, nil).Once()

		rec := f.do(http.MethodPost, "/api/events", fields)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "Event posted successfully!", notice(t, rec))

		rec = f.do(http.MethodGet, "/ngo/posts", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		posts := decode(t, rec)["data"].([]any)
		require.Len(t, posts, 1)
		assert.Equal(t, "Beach cleanup", posts[0].(map[string]any)["title"])
	})

	t.Run("Edit is not implemented", func(t *testing.T) {
		rec := f.do(http.MethodPut, "/api/events/e1", fields)
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
		assert.Equal(t, "Edit functionality - Coming soon!", notice(t, rec))
	})

	t.Run("Capacity scenario", func(t *testing.T) {
		form := map[string]string{"volunteerName": "Vani", "phoneNumber": "98000"}

		f.signIn(vani)
		rec := f.do(http.MethodPost, "/api/events/e1/registrations", form)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = f.do(http.MethodPost, "/api/events/e1/registrations", form)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "already_registered", decode(t, rec)["code"])

		f.signIn(wasi)
		rec = f.do(http.MethodPost, "/api/events/e1/registrations", map[string]string{"volunteerName": "Wasim", "phoneNumber": "98001"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "event_full", decode(t, rec)["code"])

		rec = f.do(http.MethodGet, "/api/events/e1/registrations", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode(t, rec)["data"])
		assert.NotContains(t, rec.Body.String(), "98000")

		rec = f.do(http.MethodDelete, "/api/events/e1/registrations", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "not_registered", decode(t, rec)["code"])

		f.signIn(vani)
		assert.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/api/events/e1/registrations", nil).Code)

		f.signIn(wasi)
		assert.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/events/e1/registrations", map[string]string{"volunteerName": "Wasim", "phoneNumber": "98001"}).Code)
	})

	t.Run("NGO sees registrations then deletes", func(t *testing.T) {
		f.signIn(ngo)
		rec := f.do(http.MethodGet, "/api/events/e1/registrations", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode(t, rec)["data"].([]any), 1)

		f.backend.On("DeleteEvent", mock.Anything, "tok-ngo", "e1").Return(nil).Once()
		rec = f.do(http.MethodDelete, "/api/events/e1", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(http.MethodGet, "/api/events", nil)
		assert.Empty(t, decode(t, rec)["data"])
	})

	t.Run("Refresh failure keeps snapshot", func(t *testing.T) {
		f.backend.On("ListEvents", mock.Anything).Return(nil, domain.BackendError("list events", assert.AnError)).Once()
		rec := f.do(http.MethodPost, "/api/events/refresh", nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "backend", decode(t, rec)["code"])
	})
}

func TestPreferenceActions(t *testing.T) {
	f := newFixture(t, Options{})

	rec := f.do(http.MethodPut, "/api/preferences/theme", map[string]string{"theme": "dark"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dark mode enabled", notice(t, rec))

	rec = f.do(http.MethodPut, "/api/preferences/theme", map[string]string{"theme": "sepia"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPut, "/api/preferences/location", map[string]bool{"granted": false})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "You can grant location access later from your profile", notice(t, rec))
}

func TestMapActions(t *testing.T) {
	t.Run("Tile map without consent falls back", func(t *testing.T) {
		f := newFixture(t, Options{})
		rec := f.do(http.MethodGet, "/api/map/tiles", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.EqualValues(t, 5, body["zoom"])
		assert.Contains(t, body, "notice")
	})

	t.Run("Reported position centers the tile map", func(t *testing.T) {
		f := newFixture(t, Options{})
		require.Equal(t, http.StatusOK, f.do(http.MethodPut, "/api/preferences/location", map[string]bool{"granted": true}).Code)

		rec := f.do(http.MethodPost, "/api/location", map[string]float64{"lat": 19.07, "lng": 72.87})
		require.Equal(t, http.StatusAccepted, rec.Code)

		rec = f.do(http.MethodGet, "/api/map/tiles", nil)
		body := decode(t, rec)
		assert.EqualValues(t, 16, body["zoom"])
		assert.Equal(t, 19.07, body["center"].(map[string]any)["lat"])
	})

	t.Run("Device error produces notice and grid fallback", func(t *testing.T) {
		f := newFixture(t, Options{})
		require.Equal(t, http.StatusOK, f.do(http.MethodPut, "/api/preferences/location", map[string]bool{"granted": true}).Code)

		rec := f.do(http.MethodPost, "/api/location", map[string]int{"errorCode": int(mapview.PermissionDenied)})
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "Location permission denied by browser", notice(t, rec))

		rec = f.do(http.MethodGet, "/api/map/grid", nil)
		body := decode(t, rec)
		assert.Equal(t, 28.6139, body["center"].(map[string]any)["lat"])
		assert.Equal(t, "Location request timed out", body["notice"].(map[string]any)["message"])
	})

	t.Run("Invalid coordinates", func(t *testing.T) {
		f := newFixture(t, Options{})
		rec := f.do(http.MethodPost, "/api/location", map[string]float64{"lat": 91, "lng": 0})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

var pngImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestPhotos(t *testing.T) {
	f := newFixture(t, Options{})
	upload := func(contentType string, body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/photos", bytes.NewReader(body))
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("Signed out", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, upload("image/png", []byte("png")).Code)
	})

	f.signIn(ngo)

	t.Run("Upload and download", func(t *testing.T) {
		rec := upload("image/png", pngImage)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		data := decode(t, rec)["data"].(map[string]any)
		key := data["key"].(string)
		assert.True(t, strings.HasSuffix(data["url"].(string), "/photos/"+key))

		rec = f.do(http.MethodGet, "/photos/"+key, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, pngImage, rec.Body.Bytes())

		assert.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/api/photos/"+key, nil).Code)
		assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/photos/"+key, nil).Code)
	})

	t.Run("Unsupported type", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, upload("application/pdf", []byte("%PDF")).Code)
	})

	t.Run("Too large", func(t *testing.T) {
		body := append([]byte("\xff\xd8\xff\xe0"), bytes.Repeat([]byte("x"), 2048)...)
		assert.Equal(t, http.StatusRequestEntityTooLarge, upload("image/jpeg", body).Code)
	})

	t.Run("Body does not match declared type", func(t *testing.T) {
		rec := upload("image/png", []byte("<script>alert(1)</script>"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Please upload a JPEG, PNG or GIF image", notice(t, rec))

		rec = upload("image/png", []byte("\xff\xd8\xff\xe0jpeg"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t, Options{})
	rec := f.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	f.do(http.MethodGet, "/", nil)
	rec = f.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "handsaround_http_request_duration_seconds")
}
