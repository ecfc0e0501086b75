package registry

import (
	"time"
)

// Health reports the service health. The registry is immutable, so a built
// registry is always healthy.
func (r *Registry) Health(now time.Time) *HealthOutput {
	return &HealthOutput{
		Status:        "healthy",
		Timestamp:     now.Unix(),
		KernelsLoaded: r.Len(),
	}
}
