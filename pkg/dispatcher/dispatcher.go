package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/morezero/kernel-server/pkg/events"
	"github.com/morezero/kernel-server/pkg/registry"
	"github.com/morezero/kernel-server/pkg/runner"
)

const logPrefix = "dispatcher:dispatch"

// DefaultCompleteModel is used by the complete method when params omit model.
const DefaultCompleteModel = "web.html.tag.div"

// Dispatcher routes COMMS requests to kernel operations.
type Dispatcher struct {
	runner *runner.Runner
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(run *runner.Runner) *Dispatcher {
	return &Dispatcher{runner: run}
}

// Dispatch routes a request to the appropriate handler and returns a response.
func (d *Dispatcher) Dispatch(ctx context.Context, req *KernelRequest) *KernelResponse {
	slog.Debug(fmt.Sprintf("%s - method=%s id=%s", logPrefix, req.Method, req.ID))

	switch req.Method {
	case MethodExecute:
		return d.handleExecute(ctx, req)
	case MethodComplete:
		return d.handleComplete(ctx, req)
	case MethodList:
		return d.handleList(req)
	case MethodHealth:
		return d.handleHealth(req)
	default:
		return errorResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("Unknown method: %s", req.Method), false)
	}
}

func (d *Dispatcher) handleExecute(ctx context.Context, req *KernelRequest) *KernelResponse {
	var params ExecuteParams
	if err := decodeParams(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidArgument, "Failed to parse execute params", false)
	}
	if params.Args == nil {
		params.Args = map[string]interface{}{}
	}

	res := d.runner.Execute(ctx, events.EndpointCommsExecute, params.Kernel, params.Args)
	if !res.OK() {
		return kernelErrorToResponse(req.ID, res.Err)
	}
	return &KernelResponse{ID: req.ID, Ok: true, Result: &ExecuteResult{
		Kernel:    params.Kernel,
		Result:    res.Value,
		Timestamp: d.runner.Now().Unix(),
	}}
}

func (d *Dispatcher) handleComplete(ctx context.Context, req *KernelRequest) *KernelResponse {
	var params CompleteParams
	if err := decodeParams(req.Params, &params); err != nil {
		return errorResponse(req.ID, CodeInvalidArgument, "Failed to parse complete params", false)
	}
	if params.Model == "" {
		params.Model = DefaultCompleteModel
	}

	text, found := d.runner.Complete(ctx, events.EndpointCommsComplete, params.Model, params.Prompt)
	if !found {
		return errorResponse(req.ID, CodeNotFound, fmt.Sprintf("Model '%s' not found", params.Model), false)
	}
	return &KernelResponse{ID: req.ID, Ok: true, Result: &CompleteResult{Model: params.Model, Text: text}}
}

func (d *Dispatcher) handleList(req *KernelRequest) *KernelResponse {
	return &KernelResponse{ID: req.ID, Ok: true, Result: &ListResult{Kernels: d.runner.Registry().Describe()}}
}

func (d *Dispatcher) handleHealth(req *KernelRequest) *KernelResponse {
	return &KernelResponse{ID: req.ID, Ok: true, Result: d.runner.Registry().Health(d.runner.Now())}
}

// --- helpers ---

// decodeParams treats absent params as an empty object.
func decodeParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func errorResponse(id, code, message string, retryable bool) *KernelResponse {
	return &KernelResponse{
		ID: id,
		Ok: false,
		Error: &ErrorDetail{
			Code:      code,
			Message:   message,
			Retryable: retryable,
		},
	}
}

func kernelErrorToResponse(id string, kerr *registry.KernelError) *KernelResponse {
	code := CodeKernelError
	switch {
	case errors.Is(kerr, registry.ErrNotFound):
		code = CodeNotFound
	case errors.Is(kerr, registry.ErrBadArguments):
		code = CodeInvalidArgument
	case errors.Is(kerr, context.DeadlineExceeded):
		return &KernelResponse{ID: id, Ok: false, Error: &ErrorDetail{
			Code:      CodeInternalError,
			Message:   kerr.Message,
			Details:   map[string]string{"kernel": kerr.Kernel},
			Retryable: true,
		}}
	}
	return &KernelResponse{ID: id, Ok: false, Error: &ErrorDetail{
		Code:    code,
		Message: kerr.Message,
		Details: map[string]string{"kernel": kerr.Kernel},
	}}
}
