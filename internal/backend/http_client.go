package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"handsaround/internal/domain"
	"handsaround/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var backendRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "handsaround_backend_requests_total",
		Help: "Requests sent to the REST backend by operation and outcome",
	},
	[]string{"operation", "status"},
)

const maxErrorBody = 4 << 10

// HTTPClient talks JSON to the REST backend.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// Option configures HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the default client (default: 15s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		h.client = c
	}
}

// WithTimeout sets the per-request timeout on the default client.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) {
		h.client.Timeout = d
	}
}

// NewHTTPClient returns a Client rooted at baseURL, e.g. "http://localhost:5000/api".
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	h := &HTTPClient{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTTPClient) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var out userResponse
	status, msg, err := h.do(ctx, "login", http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusNotFound:
		return nil, domain.NewError(domain.KindAuthentication, "invalid credentials", nil)
	case status >= 300:
		return nil, unexpected("login", status, msg)
	case out.User == nil:
		return nil, domain.BackendError("login", fmt.Errorf("response has no user"))
	}
	return toDomainUser(out.User), nil
}

func (h *HTTPClient) Register(ctx context.Context, s domain.Signup) (*domain.User, error) {
	req := registerRequest{
		Name:             s.Name,
		Email:            s.Email,
		Password:         s.Password,
		Role:             string(s.Role),
		OrganizationName: s.OrganizationName,
	}
	var out userResponse
	status, msg, err := h.do(ctx, "register", http.MethodPost, "/auth/register", "", req, &out)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusConflict:
		return nil, domain.NewError(domain.KindConflict, "email already exists", nil)
	case status == http.StatusBadRequest && strings.Contains(strings.ToLower(msg), "exist"):
		return nil, domain.NewError(domain.KindConflict, "email already exists", nil)
	case status == http.StatusBadRequest:
		return nil, domain.Validationf("%s", firstNonEmpty(msg, "registration rejected"))
	case status >= 300:
		return nil, unexpected("register", status, msg)
	case out.User == nil:
		return nil, domain.BackendError("register", fmt.Errorf("response has no user"))
	}
	return toDomainUser(out.User), nil
}

func (h *HTTPClient) ListEvents(ctx context.Context) ([]domain.Event, error) {
	var out eventsResponse
	status, msg, err := h.do(ctx, "list_events", http.MethodGet, "/events", "", nil, &out)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, unexpected("fetch events", status, msg)
	}
	return toDomainEvents(out.Events), nil
}

func (h *HTTPClient) CreateEvent(ctx context.Context, token string, owner domain.User, fields domain.EventFields) (*domain.Event, error) {
	var out eventResponse
	status, msg, err := h.do(ctx, "create_event", http.MethodPost, "/events", token, toWireEvent(owner, fields), &out)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, authAware("add event", status, msg)
	}
	if out.Event == nil {
		return nil, domain.BackendError("add event", fmt.Errorf("response has no event"))
	}
	ev := toDomainEvent(*out.Event)
	return &ev, nil
}

func (h *HTTPClient) DeleteEvent(ctx context.Context, token string, id string) error {
	path := "/events/" + url.PathEscape(id)
	status, msg, err := h.do(ctx, "delete_event", http.MethodDelete, path, token, nil, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return domain.NewError(domain.KindNotFound, "event not found", nil)
	}
	if status >= 300 {
		return authAware("delete event", status, msg)
	}
	return nil
}

// do sends one request. Transport failures come back as err; HTTP failures as
// status plus the server's message so each operation can classify them.
func (h *HTTPClient) do(ctx context.Context, op, method, path, token string, body, out any) (int, string, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, "", domain.BackendError(op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reader)
	if err != nil {
		return 0, "", domain.BackendError(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.BackendCall(method, path)
	resp, err := h.client.Do(req)
	if err != nil {
		logger.BackendResult(method, path, 0, err)
		backendRequests.WithLabelValues(op, "transport_error").Inc()
		return 0, "", domain.BackendError(op, err)
	}
	defer resp.Body.Close()
	backendRequests.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 300 {
		msg := readMessage(resp.Body)
		logger.BackendResult(method, path, resp.StatusCode, fmt.Errorf("%s", firstNonEmpty(msg, resp.Status)))
		return resp.StatusCode, msg, nil
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			logger.BackendResult(method, path, resp.StatusCode, err)
			return 0, "", domain.BackendError(op, fmt.Errorf("decode response: %w", err))
		}
	}
	logger.BackendResult(method, path, resp.StatusCode, nil)
	return resp.StatusCode, "", nil
}

func readMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var e errorResponse
	if json.Unmarshal(raw, &e) == nil {
		if m := firstNonEmpty(e.Message, e.Error); m != "" {
			return m
		}
	}
	return strings.TrimSpace(string(raw))
}

func authAware(op string, status int, msg string) error {
	switch status {
	case http.StatusUnauthorized:
		return domain.NewError(domain.KindNotAuthenticated, "session expired, please sign in again", nil)
	case http.StatusForbidden:
		return domain.NewError(domain.KindForbidden, firstNonEmpty(msg, "not allowed"), nil)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.Validationf("%s", firstNonEmpty(msg, op+" rejected"))
	}
	return unexpected(op, status, msg)
}

func unexpected(op string, status int, msg string) error {
	return domain.BackendError(op, fmt.Errorf("status %d: %s", status, firstNonEmpty(msg, http.StatusText(status))))
}

var _ Client = (*HTTPClient)(nil)
