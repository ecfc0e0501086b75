package registry

import (
	"context"
	"fmt"
	"log/slog"
)

const invokeLogPrefix = "registry:invoke"

// Call runs the named kernel, binding positional values to its Params in order.
func (r *Registry) Call(ctx context.Context, name string, positional ...any) Result {
	k, ok := r.kernels[name]
	if !ok {
		return notFound(name)
	}
	if len(positional) > len(k.Params) {
		return failure(name, ErrBadArguments,
			fmt.Sprintf("%s() takes %d positional arguments but %d were given", name, len(k.Params), len(positional)))
	}
	if len(positional) < len(k.Params) {
		return failure(name, ErrBadArguments,
			fmt.Sprintf("%s() missing required argument %q", name, k.Params[len(positional)]))
	}

	args := make(Args, len(k.Params))
	for i, p := range k.Params {
		args[p] = positional[i]
	}
	return run(ctx, k, args)
}

// CallNamed runs the named kernel with args bound by parameter name. Every
// declared parameter must be present and no other names are accepted.
func (r *Registry) CallNamed(ctx context.Context, name string, args Args) Result {
	k, ok := r.kernels[name]
	if !ok {
		return notFound(name)
	}

	declared := make(map[string]bool, len(k.Params))
	for _, p := range k.Params {
		declared[p] = true
	}
	for key := range args {
		if !declared[key] {
			return failure(name, ErrBadArguments, fmt.Sprintf("%s() got an unexpected argument %q", name, key))
		}
	}

	bound := make(Args, len(k.Params))
	for _, p := range k.Params {
		v, ok := args[p]
		if !ok {
			return failure(name, ErrBadArguments, fmt.Sprintf("%s() missing required argument %q", name, p))
		}
		bound[p] = v
	}
	return run(ctx, k, bound)
}

// run executes a kernel, converting returned errors and panics into a KernelError.
func run(ctx context.Context, k Kernel, args Args) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error(fmt.Sprintf("%s - kernel %s panicked: %v", invokeLogPrefix, k.Name, rec))
			res = failure(k.Name, nil, fmt.Sprintf("panic: %v", rec))
		}
	}()

	value, err := k.Fn(ctx, args)
	if err != nil {
		return failure(k.Name, err, err.Error())
	}
	return Result{Value: value}
}

func notFound(name string) Result {
	return failure(name, ErrNotFound, fmt.Sprintf("kernel %q not found", name))
}

func failure(name string, cause error, message string) Result {
	return Result{Err: &KernelError{Kernel: name, Message: message, Cause: cause}}
}
