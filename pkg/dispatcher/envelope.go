// Package dispatcher routes incoming COMMS messages to kernel operations.
package dispatcher

import (
	"encoding/json"

	"github.com/morezero/kernel-server/pkg/registry"
)

// Method names accepted on the execute subject.
const (
	MethodExecute  = "execute"
	MethodComplete = "complete"
	MethodList     = "list"
	MethodHealth   = "health"
)

// Error codes carried in ErrorDetail.
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeMethodNotFound  = "METHOD_NOT_FOUND"
	CodeNotFound        = "NOT_FOUND"
	CodeKernelError     = "KERNEL_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

// KernelRequest is the JSON envelope for incoming COMMS kernel requests.
type KernelRequest struct {
	ID     string             `json:"id"`
	Method string             `json:"method"`
	Params json.RawMessage    `json:"params"`
	Ctx    *InvocationContext `json:"ctx,omitempty"`
}

// KernelResponse is the JSON envelope for COMMS kernel responses.
type KernelResponse struct {
	ID     string       `json:"id"`
	Ok     bool         `json:"ok"`
	Result interface{}  `json:"result,omitempty"`
	Error  *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail holds structured error information.
type ErrorDetail struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	Retryable bool        `json:"retryable"`
}

// InvocationContext holds context from the caller.
type InvocationContext struct {
	RequestID     string `json:"requestId,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
	TimeoutMs     int    `json:"timeoutMs,omitempty"`
}

// ExecuteParams are the params of the execute method.
type ExecuteParams struct {
	Kernel string                 `json:"kernel"`
	Args   map[string]interface{} `json:"args"`
}

// ExecuteResult is the result of the execute method.
type ExecuteResult struct {
	Kernel    string      `json:"kernel"`
	Result    interface{} `json:"result"`
	Timestamp int64       `json:"timestamp"`
}

// CompleteParams are the params of the complete method.
type CompleteParams struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// CompleteResult is the result of the complete method.
type CompleteResult struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

// ListResult is the result of the list method.
type ListResult struct {
	Kernels []registry.KernelInfo `json:"kernels"`
}
