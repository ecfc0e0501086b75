package commsutil

// Default COMMS subjects.
const (
	SubjectExecute       = "kernel.execute.v1"
	SubjectExecutedEvent = "kernel.executed"
)

// BuildExecutedSubject builds the per-kernel execution event subject. Kernel
// name segments become subject tokens, so "kernel.executed.web.html.>" matches
// every html kernel.
func BuildExecutedSubject(global, kernel string) string {
	return global + "." + kernel
}
