package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/morezero/kernel-server/pkg/registry"
)

const mainTestPrefix = "cmd/kernel-server:main_test"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestKernelsCommand_Table(t *testing.T) {
	t.Setenv("KERNEL_CATALOG_FILE", "")

	out, err := execute(t, "kernels")
	if err != nil {
		t.Fatalf("%s - kernels failed: %v", mainTestPrefix, err)
	}
	for _, want := range []string{
		"NAME", "web.html.tag.div", "web.html.tag.span", "text.parse.markdown",
		"io.fs.readfile", "io.fs.writefile", "web.router.map", "attributes,children", "path,content",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("%s - output should contain %q:\n%s", mainTestPrefix, want, out)
		}
	}
}

func TestKernelsCommand_JSON(t *testing.T) {
	t.Setenv("KERNEL_CATALOG_FILE", "")

	out, err := execute(t, "kernels", "--json")
	if err != nil {
		t.Fatalf("%s - kernels --json failed: %v", mainTestPrefix, err)
	}
	var kernels []registry.KernelInfo
	if err := json.Unmarshal([]byte(out), &kernels); err != nil {
		t.Fatalf("%s - output is not JSON: %v\n%s", mainTestPrefix, err, out)
	}
	if len(kernels) != 6 || kernels[0].Name != "web.html.tag.div" {
		t.Errorf("%s - unexpected kernels %+v", mainTestPrefix, kernels)
	}
}

func TestKernelsCommand_BadCatalog(t *testing.T) {
	t.Setenv("KERNEL_CATALOG_FILE", "/nonexistent/catalog.json")

	if _, err := execute(t, "kernels"); err == nil {
		t.Errorf("%s - expected error for missing catalog file", mainTestPrefix)
	}
}

func TestHelp(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("%s - --help failed: %v", mainTestPrefix, err)
	}
	for _, want := range []string{"serve", "kernels", "--host", "--port", "KERNEL_PORT"} {
		if !strings.Contains(out, want) {
			t.Errorf("%s - help should contain %q", mainTestPrefix, want)
		}
	}
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("KERNEL_HOST", "10.0.0.1")
	t.Setenv("KERNEL_PORT", "9000")

	tests := []struct {
		name     string
		args     []string
		wantHost string
		wantPort int
	}{
		{"env only", nil, "10.0.0.1", 9000},
		{"port flag", []string{"--port", "7000"}, "10.0.0.1", 7000},
		{"both flags", []string{"--host", "0.0.0.0", "--port", "7001"}, "0.0.0.0", 7001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := newRootCmd()
			if err := root.ParseFlags(tt.args); err != nil {
				t.Fatalf("%s - parse flags: %v", mainTestPrefix, err)
			}

			cfg, err := loadConfig(root.Flags())
			if err != nil {
				t.Fatalf("%s - loadConfig failed: %v", mainTestPrefix, err)
			}
			if cfg.Host != tt.wantHost || cfg.Port != tt.wantPort {
				t.Errorf("%s - got %s:%d, want %s:%d", mainTestPrefix, cfg.Host, cfg.Port, tt.wantHost, tt.wantPort)
			}
		})
	}
}
