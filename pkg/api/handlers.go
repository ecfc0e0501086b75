package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/morezero/kernel-server/pkg/events"
)

const handlersLogPrefix = "api:handlers"

// missingKernel names an absent or null "kernel" field in error messages.
const missingKernel = "None"

func (s *Server) listModels(w http.ResponseWriter, _ *http.Request) {
	names := s.runner.Registry().List()
	writeJSON(w, http.StatusOK, NewModelList(names, s.now().Unix(), s.ownedBy))
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.runner.Registry().Health(s.now()))
}

func (s *Server) createCompletion(w http.ResponseWriter, r *http.Request) {
	var req CompletionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	model := stringOr(req.Model, DefaultCompletionModel)
	prompt := stringOr(req.Prompt, "")

	text, found := s.runner.Complete(r.Context(), events.EndpointCompletion, model, prompt)
	if !found {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Model '%s' not found", model))
		return
	}

	writeJSON(w, http.StatusOK, NewCompletion(s.newID(), s.now().Unix(), model, prompt, text))
}

func (s *Server) createChatCompletion(w http.ResponseWriter, r *http.Request) {
	var req ChatCompletionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	model := stringOr(req.Model, DefaultChatModel)

	content, found := s.runner.Complete(r.Context(), events.EndpointChatCompletion, model, LastUserContent(req.Messages))
	if !found {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Model '%s' not found", model))
		return
	}

	writeJSON(w, http.StatusOK, NewChatCompletion(s.newID(), s.now().Unix(), model, req.Messages, content))
}

func (s *Server) executeKernel(w http.ResponseWriter, r *http.Request) {
	var req KernelExecutionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	kernel := stringOr(req.Kernel, missingKernel)
	if !s.runner.Registry().Has(kernel) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Kernel '%s' not found", kernel))
		return
	}
	if req.Args == nil {
		req.Args = map[string]any{}
	}

	res := s.runner.Execute(r.Context(), events.EndpointExecute, kernel, req.Args)
	if !res.OK() {
		slog.Warn(fmt.Sprintf("%s - direct execution of %s failed: %s", handlersLogPrefix, kernel, res.Err.Message))
		writeError(w, http.StatusInternalServerError, res.Err.Message)
		return
	}

	writeJSON(w, http.StatusOK, &KernelExecutionResponse{
		Kernel:    kernel,
		Result:    res.Value,
		Timestamp: s.now().Unix(),
	})
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
