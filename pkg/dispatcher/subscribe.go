package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/kernel-server/pkg/commsutil"
)

const subscribeLogPrefix = "dispatcher:subscribe"

// Subscribe answers envelope requests published to subject until the
// subscription is drained or ctx is cancelled. Each request runs under a
// timeout of requestTimeout, or the caller's shorter ctx.timeoutMs.
func (d *Dispatcher) Subscribe(ctx context.Context, nc *comms.Conn, subject string, requestTimeout time.Duration) (*comms.Subscription, error) {
	sub, err := nc.Subscribe(subject, d.handleMsg(ctx, requestTimeout))
	if err != nil {
		return nil, fmt.Errorf("%s - failed to subscribe to %s: %w", subscribeLogPrefix, subject, err)
	}
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", subscribeLogPrefix, subject))
	return sub, nil
}

func (d *Dispatcher) handleMsg(ctx context.Context, requestTimeout time.Duration) comms.MsgHandler {
	return func(msg *comms.Msg) {
		var req KernelRequest
		if err := commsutil.DecodePayload(msg.Data, &req); err != nil {
			slog.Error(fmt.Sprintf("%s - failed to decode request: %v", subscribeLogPrefix, err))
			respond(msg, errorResponse("", CodeInvalidRequest, "Failed to decode request", false))
			return
		}

		timeout := requestTimeout
		if req.Ctx != nil && req.Ctx.TimeoutMs > 0 {
			if t := time.Duration(req.Ctx.TimeoutMs) * time.Millisecond; timeout <= 0 || t < timeout {
				timeout = t
			}
		}
		reqCtx, cancel := ctx, context.CancelFunc(func() {})
		if timeout > 0 {
			reqCtx, cancel = context.WithTimeout(ctx, timeout)
		}
		defer cancel()

		respond(msg, d.Dispatch(reqCtx, &req))
	}
}

func respond(msg *comms.Msg, resp *KernelResponse) {
	if msg.Reply == "" {
		return
	}
	data, err := commsutil.EncodePayload(resp)
	if err != nil {
		slog.Error(fmt.Sprintf("%s - failed to encode response: %v", subscribeLogPrefix, err))
		data, _ = commsutil.EncodePayload(errorResponse(resp.ID, CodeInternalError, err.Error(), false))
	}
	if err := msg.Respond(data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to respond: %v", subscribeLogPrefix, err))
	}
}
