package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"serialsheets/domain/sheet"
	"serialsheets/domain/tabular"
	"serialsheets/internal/errors"
	"serialsheets/ports"
)

// Server is the JSON API surface of the pipeline: upload, run, sheet CRUD,
// export. It owns the per-process sheet collection and the last uploaded
// table. A second upload simply replaces the table — last write wins, there
// is no cancellation of an in-flight run.
type Server struct {
	router *chi.Mux
	sheets *sheet.Collection
	store  ports.MappingStore

	mu         sync.RWMutex
	table      *tabular.Table
	sheetNames []string
}

// NewServer creates the API server around a sheet collection and a mapping
// store.
func NewServer(sheets *sheet.Collection, store ports.MappingStore) *Server {
	s := &Server{
		router: chi.NewRouter(),
		sheets: sheets,
		store:  store,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.Post("/api/pipeline/text", s.handleRunText)
	s.router.Post("/api/upload", s.handleUpload)
	s.router.Post("/api/pipeline/table", s.handleRunTable)

	s.router.Get("/api/sheets", s.handleListSheets)
	s.router.Get("/api/sheets/{index}", s.handleGetSheet)
	s.router.Put("/api/sheets/{index}", s.handleReplaceSheet)
	s.router.Delete("/api/sheets/{index}", s.handleDeleteSheet)
	s.router.Get("/api/sheets/{index}/tsv", s.handleSheetTSV)

	s.router.Get("/api/export", s.handleExport)

	s.router.Get("/api/mappings", s.handleGetMapping)
	s.router.Put("/api/mappings", s.handleSaveMapping)
}

// Handler exposes the router for embedding in another server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	log.Printf("Starting SerialSheets API on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// setTable replaces the cached upload state.
func (s *Server) setTable(t *tabular.Table, sheetNames []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = t
	s.sheetNames = sheetNames
}

// currentTable returns the last uploaded table, or nil when none exists.
func (s *Server) currentTable() *tabular.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// writeJSON renders a JSON response
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] failed to encode response: %v", err)
	}
}

// writeError maps application error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeEmptyInput, errors.CodeInvalidInput, errors.CodeParseError:
		status = http.StatusBadRequest
	case errors.CodeMappingError:
		status = http.StatusUnprocessableEntity
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "code": code})
}
