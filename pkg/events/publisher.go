// Package events reports kernel invocations to interested parties.
//
// The runner emits one KernelExecutedEvent per invocation, from both the HTTP
// API and the NATS bridge. With COMMS_URL set, CommsPublisher forwards them onto
// kernel.executed and kernel.executed.<kernel> for external consumers such as
// usage dashboards or audit subscribers. Without a broker the events are
// dropped by NoOpPublisher. Tests and embedding programs capture them in
// process with CallbackPublisher.
package events

import "context"

// EventPublisher receives execution events. Implementations must be safe for
// concurrent use: HTTP requests and NATS messages publish in parallel.
type EventPublisher interface {
	PublishExecuted(ctx context.Context, event *KernelExecutedEvent) error
}

// NoOpPublisher drops every event.
type NoOpPublisher struct{}

// PublishExecuted is a no-op.
func (p *NoOpPublisher) PublishExecuted(_ context.Context, _ *KernelExecutedEvent) error {
	return nil
}

// CallbackPublisher hands each event to an in-process function. Its error
// is returned to the runner, which logs it and carries on.
type CallbackPublisher func(ctx context.Context, event *KernelExecutedEvent) error

// NewCallbackPublisher wraps cb as an EventPublisher.
func NewCallbackPublisher(cb func(ctx context.Context, event *KernelExecutedEvent) error) CallbackPublisher {
	return CallbackPublisher(cb)
}

// PublishExecuted calls the callback.
func (f CallbackPublisher) PublishExecuted(ctx context.Context, event *KernelExecutedEvent) error {
	return f(ctx, event)
}
