// Package registry implements the read-only kernel registry and kernel invocation.
package registry

import "context"

// Args holds named kernel arguments. Values are JSON-compatible
// (string, float64, bool, nil, []any, map[string]any) or, for arguments
// built in-process, plain Go maps and strings.
type Args map[string]any

// Func is the signature of a kernel implementation. Args always holds exactly
// the kernel's declared Params when Func is called.
type Func func(ctx context.Context, args Args) (any, error)

// Kernel is a named unit of computation.
type Kernel struct {
	// Name is the dotted registry key (e.g., "web.html.tag.div").
	Name string
	// Params lists the parameter names in positional order.
	Params []string
	// Description is a one-line summary shown by listings.
	Description string
	// Version is the kernel's SemVer version; empty means DefaultVersion.
	Version string
	// AliasOf names the kernel this entry is an alias for; empty for
	// canonical kernels.
	AliasOf string
	// Fn runs the kernel.
	Fn Func
}

// KernelInfo is the listing view of a registered kernel.
type KernelInfo struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description,omitempty"`
	Params      []string `json:"params"`
}

// Result is the outcome of a single kernel invocation: either Value or Err.
type Result struct {
	Value any
	Err   *KernelError
}

// OK reports whether the kernel completed without error.
func (r Result) OK() bool {
	return r.Err == nil
}

// KernelError describes a failed invocation. Cause is the underlying error,
// if any (ErrNotFound, ErrBadArguments, or the kernel's own error).
type KernelError struct {
	Kernel  string `json:"kernel"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *KernelError) Error() string {
	return e.Message
}

func (e *KernelError) Unwrap() error {
	return e.Cause
}

// HealthOutput holds the result of the health check.
type HealthOutput struct {
	Status        string `json:"status"`
	Timestamp     int64  `json:"timestamp"`
	KernelsLoaded int    `json:"kernels_loaded"`
}
