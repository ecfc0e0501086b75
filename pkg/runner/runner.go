// Package runner invokes registered kernels on behalf of a transport and
// reports every invocation to metrics and the event publisher.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/morezero/kernel-server/pkg/adapter"
	"github.com/morezero/kernel-server/pkg/events"
	"github.com/morezero/kernel-server/pkg/metrics"
	"github.com/morezero/kernel-server/pkg/registry"
)

const logPrefix = "runner:runner"

// Options configures a Runner. Zero values use defaults.
type Options struct {
	Publisher events.EventPublisher
	Metrics   *metrics.Metrics
	Now       func() time.Time
}

// Runner wraps a registry with observation.
type Runner struct {
	reg       *registry.Registry
	publisher events.EventPublisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

// New creates a Runner over reg.
func New(reg *registry.Registry, opts Options) *Runner {
	r := &Runner{
		reg:       reg,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
	if r.publisher == nil {
		r.publisher = &events.NoOpPublisher{}
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Registry returns the underlying registry.
func (r *Runner) Registry() *registry.Registry {
	return r.reg
}

// Now returns the current time from the configured clock.
func (r *Runner) Now() time.Time {
	return r.now()
}

// Complete runs kernel against a free-text payload through the adapter and
// returns the completion text. found is false when no such kernel is registered;
// nothing is invoked or reported in that case.
func (r *Runner) Complete(ctx context.Context, endpoint, kernel, payload string) (text string, found bool) {
	if !r.reg.Has(kernel) {
		return "", false
	}
	res := r.observe(ctx, endpoint, kernel, func() registry.Result {
		return adapter.Invoke(ctx, r.reg, kernel, payload)
	})
	return adapter.Text(res), true
}

// Execute runs kernel with named arguments. The caller checks existence first
// when it needs to tell a missing kernel apart from a failed one.
func (r *Runner) Execute(ctx context.Context, endpoint, kernel string, args registry.Args) registry.Result {
	if !r.reg.Has(kernel) {
		return r.reg.CallNamed(ctx, kernel, args)
	}
	return r.observe(ctx, endpoint, kernel, func() registry.Result {
		return r.reg.CallNamed(ctx, kernel, args)
	})
}

func (r *Runner) observe(ctx context.Context, endpoint, kernel string, call func() registry.Result) registry.Result {
	start := time.Now()
	res := call()
	elapsed := time.Since(start)

	r.metrics.ObserveInvocation(kernel, res.OK(), elapsed)

	event := &events.KernelExecutedEvent{
		Kernel:     kernel,
		Endpoint:   endpoint,
		Ok:         res.OK(),
		DurationMs: float64(elapsed.Microseconds()) / 1000,
		Timestamp:  r.now().UTC().Format(time.RFC3339Nano),
	}
	if !res.OK() {
		event.Error = res.Err.Message
	}
	if err := r.publisher.PublishExecuted(ctx, event); err != nil {
		slog.Warn(fmt.Sprintf("%s - failed to publish execution event for %s: %v", logPrefix, kernel, err))
	}

	slog.Debug(fmt.Sprintf("%s - %s %s ok=%t in %s", logPrefix, endpoint, kernel, res.OK(), elapsed))
	return res
}
