package events

// KernelExecutedEvent is emitted after every kernel invocation.
type KernelExecutedEvent struct {
	Kernel     string  `json:"kernel"`
	Endpoint   string  `json:"endpoint"`
	Ok         bool    `json:"ok"`
	Error      string  `json:"error,omitempty"`
	DurationMs float64 `json:"durationMs"`
	Timestamp  string  `json:"timestamp"`
}

// Endpoint values carried by KernelExecutedEvent.
const (
	EndpointCompletion     = "completion"
	EndpointChatCompletion = "chat.completion"
	EndpointExecute        = "execute"
	EndpointCommsExecute   = "comms.execute"
	EndpointCommsComplete  = "comms.complete"
)
