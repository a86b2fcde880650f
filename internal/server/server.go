// Package server exposes one property sheet over HTTP: the schema for the
// front-end to render, and an endpoint that reconciles edited payloads.
package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-propertysheet/pkg/apidoc"
	"github.com/goliatone/go-propertysheet/pkg/model"
	"github.com/goliatone/go-propertysheet/pkg/sheet"
)

// MaxPayloadBytes caps request bodies accepted by the payload endpoint.
const MaxPayloadBytes = 1 << 20

// ErrNilSheet is returned by New without a sheet.
var ErrNilSheet = errors.New("server: sheet is required")

// Rule post-processes a reconciled value. It receives the value returned by
// Reconcile and reports whether it modified it, in which case the sheet is
// rebound to the modified value.
type Rule func(value any) bool

// Option configures the server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRule installs the host rule applied after each reconcile.
func WithRule(rule Rule) Option {
	return func(s *Server) {
		s.rule = rule
	}
}

// WithTitle sets the title of the published OpenAPI document.
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// Server serialises access to a single sheet.
type Server struct {
	mu     sync.Mutex
	sheet  *sheet.Sheet
	logger *zap.Logger
	rule   Rule
	title  string
	router chi.Router
}

// PayloadResponse is returned by the payload endpoint.
type PayloadResponse struct {
	Value  any          `json:"value"`
	Schema model.Schema `json:"schema"`
}

// InfoResponse is returned by the info endpoint.
type InfoResponse struct {
	Info    any            `json:"info"`
	Example map[string]any `json:"example"`
}

// New builds the server and its router.
func New(s *sheet.Sheet, options ...Option) (*Server, error) {
	if s == nil {
		return nil, ErrNilSheet
	}
	srv := &Server{sheet: s, logger: zap.NewNop(), title: "Property sheet"}
	for _, opt := range options {
		if opt != nil {
			opt(srv)
		}
	}
	srv.logger = srv.logger.Named("server")
	srv.router = srv.routes()
	return srv, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Get("/healthz", s.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/sheet", s.presentation)
		r.Get("/schema", s.schema)
		r.Get("/value", s.value)
		r.Post("/payload", s.payload)
		r.Get("/info", s.info)
		r.Get("/openapi", s.openapi)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) presentation(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	p := s.sheet.Presentation()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) schema(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	bound, schema := s.sheet.Bound(), s.sheet.Schema()
	s.mu.Unlock()
	if !bound {
		s.writeProblem(w, r, http.StatusConflict, "sheet is not bound to a value")
		return
	}
	s.writeJSON(w, http.StatusOK, schema)
}

func (s *Server) value(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	value := s.sheet.Value()
	s.mu.Unlock()
	if value == nil {
		s.writeProblem(w, r, http.StatusConflict, "sheet is not bound to a value")
		return
	}
	s.writeJSON(w, http.StatusOK, value)
}

func (s *Server) payload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxPayloadBytes))
	if err != nil {
		s.writeProblem(w, r, http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
		return
	}
	payload, err := model.DecodePayload(body)
	if err != nil {
		s.writeProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sheet.Bound() {
		s.writeProblem(w, r, http.StatusConflict, "sheet is not bound to a value")
		return
	}
	value := s.sheet.Reconcile(payload)
	if s.rule != nil && s.rule(value) {
		s.logger.Debug("host rule adjusted reconciled value")
		s.sheet.Extract(value)
		value = s.sheet.Value()
	}
	s.writeJSON(w, http.StatusOK, PayloadResponse{Value: value, Schema: s.sheet.Schema()})
}

func (s *Server) info(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, InfoResponse{Info: apidoc.Info(), Example: apidoc.ExamplePayload()})
}

func (s *Server) openapi(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	info := s.sheet.Type()
	title := s.sheet.Presentation().Label
	s.mu.Unlock()
	if info == nil {
		s.writeProblem(w, r, http.StatusConflict, "sheet is not bound to a value")
		return
	}
	if title == "" {
		title = s.title
	}
	doc, err := apidoc.Document(info, "", title, "")
	if err != nil {
		s.logger.Error("build openapi document", zap.Error(err))
		s.writeProblem(w, r, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}
