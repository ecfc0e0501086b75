package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const routesLogPrefix = "api:routes"

// Endpoints lists the served routes as "METHOD path".
var Endpoints = []string{
	"GET /v1/models",
	"GET /health",
	"POST /v1/completions",
	"POST /v1/chat/completions",
	"POST /v1/kernels/execute",
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	r := s.router

	r.Use(s.observeRequests)

	r.Get("/v1/models", s.listModels)
	r.Get("/health", s.health)
	r.Post("/v1/completions", s.createCompletion)
	r.Post("/v1/chat/completions", s.createChatCompletion)
	r.Post("/v1/kernels/execute", s.executeKernel)

	// Unknown paths and wrong methods look the same to clients.
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Not Found")
}

// observeRequests logs each request and counts it by route pattern and status.
func (s *Server) observeRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.ObserveRequest(route, ww.Status())
		slog.Debug(fmt.Sprintf("%s - %s %s -> %d (%d bytes)", routesLogPrefix, r.Method, r.URL.Path, ww.Status(), ww.BytesWritten()))
	})
}
