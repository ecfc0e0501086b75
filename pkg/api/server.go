// Package api serves the OpenAI-compatible kernel HTTP API.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/morezero/kernel-server/pkg/metrics"
	"github.com/morezero/kernel-server/pkg/runner"
)

// DefaultOwnedBy is reported as owned_by in the model list.
const DefaultOwnedBy = "umg-neocore"

// Default kernels used when a request omits model.
const (
	DefaultCompletionModel = "web.html.tag.div"
	DefaultChatModel       = "web.router.map"
)

// Options configures a Server. Zero values use defaults.
type Options struct {
	OwnedBy string
	// NewID returns the random suffix of completion ids.
	NewID   func() string
	Metrics *metrics.Metrics
}

// Server is the HTTP API over a kernel runner.
type Server struct {
	runner  *runner.Runner
	ownedBy string
	newID   func() string
	metrics *metrics.Metrics
	router  *chi.Mux
}

// NewServer creates a Server and wires its routes.
func NewServer(run *runner.Runner, opts Options) *Server {
	s := &Server{
		runner:  run,
		ownedBy: opts.OwnedBy,
		newID:   opts.NewID,
		metrics: opts.Metrics,
		router:  chi.NewRouter(),
	}
	if s.ownedBy == "" {
		s.ownedBy = DefaultOwnedBy
	}
	if s.newID == nil {
		s.newID = shortID
	}
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) now() time.Time {
	return s.runner.Now()
}

// shortID returns the first 8 hex characters of a random UUID.
func shortID() string {
	return uuid.New().String()[:8]
}
