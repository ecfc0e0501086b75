package builtin

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/morezero/kernel-server/pkg/registry"
)

const builtinTestPrefix = "builtin:builtin_test"

func newBuiltinRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New(Kernels()...)
	if err != nil {
		t.Fatalf("%s - registry.New failed: %v", builtinTestPrefix, err)
	}
	return reg
}

func TestKernels_Register(t *testing.T) {
	reg := newBuiltinRegistry(t)
	want := []string{TagDiv, TagSpan, Markdown, ReadFile, WriteFile, RouterMap}
	got := reg.List()
	if len(got) != len(want) {
		t.Fatalf("%s - got %d kernels, want %d", builtinTestPrefix, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s - kernel[%d] = %q, want %q", builtinTestPrefix, i, got[i], want[i])
		}
	}
	if len(ByName()) != len(want) {
		t.Errorf("%s - ByName has %d entries", builtinTestPrefix, len(ByName()))
	}
}

func TestTagKernels(t *testing.T) {
	reg := newBuiltinRegistry(t)
	ctx := context.Background()

	tests := []struct {
		kernel   string
		attrs    string
		children string
		want     string
	}{
		{TagDiv, "class='c'", "Hi", "<div class='c'>Hi</div>"},
		{TagDiv, "", "", "<div ></div>"},
		{TagSpan, "style='x'", "y", "<span style='x'>y</span>"},
	}
	for _, tt := range tests {
		res := reg.CallNamed(ctx, tt.kernel, registry.Args{"attributes": tt.attrs, "children": tt.children})
		if !res.OK() {
			t.Fatalf("%s - %s failed: %v", builtinTestPrefix, tt.kernel, res.Err)
		}
		if res.Value != tt.want {
			t.Errorf("%s - %s = %q, want %q", builtinTestPrefix, tt.kernel, res.Value, tt.want)
		}
	}
}

func TestTagKernel_ScalarArguments(t *testing.T) {
	reg := newBuiltinRegistry(t)
	ctx := context.Background()

	tests := []struct {
		children any
		want     string
	}{
		{5.0, "<span x>5</span>"},
		{2.5, "<span x>2.5</span>"},
		{-0.125, "<span x>-0.125</span>"},
		{true, "<span x>True</span>"},
		{false, "<span x>False</span>"},
		{nil, "<span x>None</span>"},
	}
	for _, tt := range tests {
		res := reg.CallNamed(ctx, TagSpan, registry.Args{"attributes": "x", "children": tt.children})
		if !res.OK() {
			t.Fatalf("%s - children %v failed: %v", builtinTestPrefix, tt.children, res.Err)
		}
		if res.Value != tt.want {
			t.Errorf("%s - children %v = %q, want %q", builtinTestPrefix, tt.children, res.Value, tt.want)
		}
	}
}

func TestTagKernel_CompositeArgument(t *testing.T) {
	reg := newBuiltinRegistry(t)

	for _, v := range []any{[]any{"a"}, map[string]any{"a": "b"}} {
		res := reg.CallNamed(context.Background(), TagDiv, registry.Args{"attributes": v, "children": "x"})
		if res.OK() {
			t.Fatalf("%s - expected failure for attributes %v", builtinTestPrefix, v)
		}
		if !strings.Contains(res.Err.Message, `"attributes"`) {
			t.Errorf("%s - Message = %q", builtinTestPrefix, res.Err.Message)
		}
	}
}

func TestMarkdownKernel(t *testing.T) {
	reg := newBuiltinRegistry(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "heading and bold",
			input: "# Welcome\n\nThis is **bold** text.",
			want:  "<h1>Welcome</h1>\n\nThis is <strong>bold</strong> text.",
		},
		{
			name:  "plain text",
			input: "nothing here",
			want:  "nothing here",
		},
		{
			name:  "every heading marker replaced, one close tag",
			input: "# A\n# B\n",
			want:  "<h1>A</h1>\n<h1>B\n",
		},
		{
			name:  "only first bold run",
			input: "**a** **b**",
			want:  "<strong>a</strong> **b**",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := reg.Call(context.Background(), Markdown, tt.input)
			if !res.OK() {
				t.Fatalf("%s - unexpected error: %v", builtinTestPrefix, res.Err)
			}
			if res.Value != tt.want {
				t.Errorf("%s - got %q, want %q", builtinTestPrefix, res.Value, tt.want)
			}
		})
	}
}

func TestFileKernels_RoundTrip(t *testing.T) {
	reg := newBuiltinRegistry(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.txt")

	res := reg.Call(ctx, WriteFile, path, "hello")
	if !res.OK() || res.Value != "Success" {
		t.Fatalf("%s - writefile = %v, %v", builtinTestPrefix, res.Value, res.Err)
	}

	res = reg.Call(ctx, ReadFile, path)
	if !res.OK() || res.Value != "hello" {
		t.Fatalf("%s - readfile = %v, %v", builtinTestPrefix, res.Value, res.Err)
	}
}

func TestReadFileKernel_Missing(t *testing.T) {
	reg := newBuiltinRegistry(t)
	path := filepath.Join(t.TempDir(), "missing.txt")

	res := reg.Call(context.Background(), ReadFile, path)
	if !res.OK() {
		t.Fatalf("%s - unexpected error: %v", builtinTestPrefix, res.Err)
	}
	if res.Value != "Error reading file: "+path {
		t.Errorf("%s - got %q", builtinTestPrefix, res.Value)
	}
}

func TestWriteFileKernel_Unwritable(t *testing.T) {
	reg := newBuiltinRegistry(t)
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("%s - setup failed: %v", builtinTestPrefix, err)
	}

	res := reg.Call(context.Background(), WriteFile, filepath.Join(blocker, "child.txt"), "x")
	if !res.OK() {
		t.Fatalf("%s - unexpected kernel error: %v", builtinTestPrefix, res.Err)
	}
	s, _ := res.Value.(string)
	if !strings.HasPrefix(s, "Error writing file: ") {
		t.Errorf("%s - got %q", builtinTestPrefix, s)
	}
}

func TestRouterKernel(t *testing.T) {
	reg := newBuiltinRegistry(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		routes any
		path   string
		want   any
	}{
		{"string map hit", map[string]string{"/": "Home", "/about": "About"}, "/about", "About"},
		{"json map hit", map[string]any{"/contact": "Contact Us"}, "/contact", "Contact Us"},
		{"miss", map[string]string{"/": "Home"}, "/nope", "404: /nope not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := reg.Call(ctx, RouterMap, tt.routes, tt.path)
			if !res.OK() {
				t.Fatalf("%s - unexpected error: %v", builtinTestPrefix, res.Err)
			}
			if res.Value != tt.want {
				t.Errorf("%s - got %v, want %v", builtinTestPrefix, res.Value, tt.want)
			}
		})
	}
}

func TestRouterKernel_BadRoutes(t *testing.T) {
	reg := newBuiltinRegistry(t)

	res := reg.Call(context.Background(), RouterMap, "not a map", "/")
	if res.OK() {
		t.Fatalf("%s - expected failure", builtinTestPrefix)
	}
}
