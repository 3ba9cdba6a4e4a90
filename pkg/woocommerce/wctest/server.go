// Package wctest provides an in-process fake of the store REST API for tests.
package wctest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	// APIPrefix is the route prefix the fake serves, matching the default API version.
	APIPrefix = "/wp-json/wc/v3"

	timeLayout      = "2006-01-02T15:04:05"
	defaultPerPage  = 10
	maxPerPage      = 100
	unknownResource = "rest_no_route"
)

// Request is a recorded call against the fake.
type Request struct {
	Path     string
	Query    url.Values
	User     string
	Password string
}

// Server is a fake store backed by in-memory orders and products.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	orders     []json.RawMessage
	products   map[int64]json.RawMessage
	requests   []Request
	failStatus int
	key        string
	secret     string
}

// Option configures the fake.
type Option func(*Server)

// WithCredentials makes the fake reject requests that do not carry the key pair.
func WithCredentials(key, secret string) Option {
	return func(s *Server) {
		s.key = key
		s.secret = secret
	}
}

// New starts a fake store that is closed when the test ends.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{products: map[int64]json.RawMessage{}}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Use(s.authenticate)
	r.Route(APIPrefix, func(r chi.Router) {
		r.Get("/orders", s.listOrders)
		r.Get("/products/{id}", s.getProduct)
		r.Get("/*", func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusNotFound, unknownResource, "no route was found matching the URL")
		})
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddOrders appends orders; each value is marshaled to JSON as-is.
func (s *Server) AddOrders(t testing.TB, orders ...any) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range orders {
		s.orders = append(s.orders, mustJSON(t, o))
	}
}

// AddProduct registers a product served under /products/{id}.
func (s *Server) AddProduct(t testing.TB, id int64, product any) {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[id] = mustJSON(t, product)
}

// FailWith makes every subsequent request answer with the given status.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

// Requests returns the recorded requests in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestCount returns how many requests hit the given path.
func (s *Server) RequestCount(path string) int {
	count := 0
	for _, req := range s.Requests() {
		if req.Path == path {
			count++
		}
	}
	return count
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Path:     r.URL.Path,
			Query:    r.URL.Query(),
			User:     user,
			Password: pass,
		})
		status := s.failStatus
		s.mu.Unlock()

		if status != 0 {
			writeError(w, status, "fake_failure", http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.key == "" {
			next.ServeHTTP(w, r)
			return
		}
		q := r.URL.Query()
		user, pass, ok := r.BasicAuth()
		switch {
		case ok && user == s.key && pass == s.secret:
		case q.Get("consumer_key") == s.key && q.Get("consumer_secret") == s.secret:
		case q.Get("oauth_consumer_key") == s.key && q.Get("oauth_signature") != "":
		default:
			writeError(w, http.StatusUnauthorized, "woocommerce_rest_cannot_view", "Sorry, you cannot list resources.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	after, okAfter := parseBound(q.Get("after"))
	before, okBefore := parseBound(q.Get("before"))
	page := intParam(q.Get("page"), 1)
	perPage := intParam(q.Get("per_page"), defaultPerPage)
	statuses := statusSet(q.Get("status"))
	if perPage > maxPerPage {
		writeError(w, http.StatusBadRequest, "rest_invalid_param", "per_page must be between 1 and 100")
		return
	}

	s.mu.Lock()
	matched := make([]json.RawMessage, 0, len(s.orders))
	for _, raw := range s.orders {
		created, status, ok := probe(raw)
		if statuses != nil && !statuses[status] {
			continue
		}
		if okAfter && (!ok || created.Before(after)) {
			continue
		}
		if okBefore && (!ok || !created.Before(before)) {
			continue
		}
		matched = append(matched, raw)
	}
	s.mu.Unlock()

	start := (page - 1) * perPage
	if start > len(matched) {
		start = len(matched)
	}
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}

	totalPages := (len(matched) + perPage - 1) / perPage
	w.Header().Set("X-WP-Total", strconv.Itoa(len(matched)))
	w.Header().Set("X-WP-TotalPages", strconv.Itoa(totalPages))
	writeJSON(w, http.StatusOK, matched[start:end])
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "rest_invalid_param", "invalid product id")
		return
	}
	s.mu.Lock()
	product, ok := s.products[id]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "woocommerce_rest_product_invalid_id", "Invalid ID.")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func probe(raw json.RawMessage) (time.Time, string, bool) {
	var fields struct {
		DateCreated string `json:"date_created"`
		Status      string `json:"status"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return time.Time{}, "", false
	}
	created, ok := parseBound(fields.DateCreated)
	return created, fields.Status, ok
}

// statusSet returns nil when every status matches.
func statusSet(value string) map[string]bool {
	if value == "" {
		return nil
	}
	set := map[string]bool{}
	for _, s := range strings.Split(value, ",") {
		s = strings.TrimSpace(s)
		if s == "any" {
			return nil
		}
		if s != "" {
			set[s] = true
		}
	}
	return set
}

func parseBound(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(timeLayout, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func intParam(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func mustJSON(t testing.TB, v any) json.RawMessage {
	t.Helper()
	switch typed := v.(type) {
	case json.RawMessage:
		return typed
	case string:
		return json.RawMessage(typed)
	}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"code":    code,
		"message": message,
		"data":    map[string]int{"status": status},
	})
}
