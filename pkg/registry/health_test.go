package registry

import (
	"encoding/json"
	"testing"
	"time"
)

const healthTestPrefix = "registry:health_test"

func TestHealth_CountsKernels(t *testing.T) {
	reg, err := New(echoKernel("a.b"), echoKernel("a.c"))
	if err != nil {
		t.Fatalf("%s - New failed: %v", healthTestPrefix, err)
	}
	now := time.Unix(1700000000, 0)

	out := reg.Health(now)

	if out.Status != "healthy" {
		t.Errorf("%s - Status = %q, want healthy", healthTestPrefix, out.Status)
	}
	if out.KernelsLoaded != 2 {
		t.Errorf("%s - KernelsLoaded = %d, want 2", healthTestPrefix, out.KernelsLoaded)
	}
	if out.Timestamp != 1700000000 {
		t.Errorf("%s - Timestamp = %d", healthTestPrefix, out.Timestamp)
	}
}

func TestHealth_OutputShape(t *testing.T) {
	reg, err := New()
	if err != nil {
		t.Fatalf("%s - New failed: %v", healthTestPrefix, err)
	}

	data, err := json.Marshal(reg.Health(time.Unix(1, 0)))
	if err != nil {
		t.Fatalf("%s - marshal failed: %v", healthTestPrefix, err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("%s - unmarshal failed: %v", healthTestPrefix, err)
	}
	for _, key := range []string{"status", "timestamp", "kernels_loaded"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("%s - missing key %q in %s", healthTestPrefix, key, data)
		}
	}
}
