// Package sheetapi serves a sheet over HTTP.
//
// GET /exec returns every data row of the configured sheet as a JSON array
// of row-value arrays. POST /exec builds a row from form parameters keyed by
// header name, appends it and echoes the submitted data together with the
// built row. Failures are reported as {"error": "..."} with status 200 so
// clients always receive a JSON document.
package sheetapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/grekz/tally/internal/library"
	"github.com/grekz/tally/pkg/sheet"
)

// ErrorResponse is the envelope returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents the JSON response from the /healthz endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Options configures the HTTP listener.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server exposes one sheet of a Store over HTTP.
type Server struct {
	server    *http.Server
	store     sheet.Store
	sheetName string
	books     *library.Resolver
	logger    *zap.Logger
}

// NewServer creates a server for sheetName backed by store.
// A nil logger disables logging.
func NewServer(store sheet.Store, sheetName string, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		store:     store,
		sheetName: sheetName,
		books:     library.NewResolver(),
		logger:    logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/exec", s.handleExec)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/books", s.handleBooks)

	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.logRequests(mux),
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}

	return s
}

// Handler returns the root HTTP handler, for embedding or httptest.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// ListenAndServe blocks serving HTTP until Shutdown is called.
// It returns nil after a graceful shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("Sheet server starting",
		zap.String("addr", s.server.Addr),
		zap.String("sheet", s.sheetName))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("sheet server failed: %w", err)
	}

	s.logger.Info("Sheet server stopped")
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Debug("Shutting down sheet server")
	return s.server.Shutdown(ctx)
}

// handleExec dispatches GET (read rows) and POST (append row) requests.
func (s *Server) handleExec(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGet(w, r)
	case http.MethodPost:
		s.handlePost(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		s.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	}
}

// handleGet returns all data rows of the sheet, header excluded.
//
// Response format:
//   - Success: [["Ada","Lovelace",...], ...]
//   - Failure: {"error": "sheet not found: Sheet1"}
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.Rows(r.Context(), s.sheetName)
	if err != nil {
		s.fail(w, "read rows", err)
		return
	}

	s.writeJSON(w, http.StatusOK, rows)
}

// handlePost appends one row built from the submitted parameters.
//
// Response format:
//   - Success: {"data": {"First": "Ada"}, "holder": ["Ada"," "," "," "," "]}
//   - Failure: {"error": "..."}
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, "parse form", err)
		return
	}

	result, err := sheet.Submit(r.Context(), s.store, s.sheetName, r.Form)
	if err != nil {
		s.fail(w, "append row", err)
		return
	}

	s.logger.Info("Row appended",
		zap.String("sheet", s.sheetName),
		zap.Strings("values", result.Holder))

	s.writeJSON(w, http.StatusOK, result)
}

// handleHealthz reports whether the store is reachable.
// Returns 200 OK if healthy, 503 Service Unavailable otherwise.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("Health check failed", zap.Error(err))
		s.writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unhealthy", Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

// handleBooks lists the book catalog, or one book when ?id= is given.
func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		s.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}

	if id := r.URL.Query().Get("id"); id != "" {
		book, ok := s.books.Book(id)
		if !ok {
			s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("book %s not found", id)})
			return
		}
		s.writeJSON(w, http.StatusOK, book)
		return
	}

	s.writeJSON(w, http.StatusOK, s.books.Books())
}

// fail logs err and writes it as an error envelope with status 200.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.logger.Error("Request failed",
		zap.String("op", op),
		zap.String("sheet", s.sheetName),
		zap.Error(err))
	s.writeJSON(w, http.StatusOK, ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}
