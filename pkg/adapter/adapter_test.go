package adapter

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/morezero/kernel-server/pkg/builtin"
	"github.com/morezero/kernel-server/pkg/registry"
)

const adapterTestPrefix = "adapter:adapter_test"

func TestSelect_Priority(t *testing.T) {
	tests := []struct {
		kernel string
		want   string
	}{
		{"text.parse.markdown", "markdown"},
		{"web.html.tag.div", "tag"},
		{"web.router.map", "router"},
		{"io.fs.readfile", "default"},
		{"markdown.tag.router", "markdown"},
		{"web.tag.router", "tag"},
		{"web.router.tag", "tag"},
		{"web.stage.x", "tag"},
		{"web.markdowntag.x", "markdown"},
	}
	for _, tt := range tests {
		t.Run(tt.kernel, func(t *testing.T) {
			if got := Select(tt.kernel).Name; got != tt.want {
				t.Errorf("%s - Select(%q) = %s, want %s", adapterTestPrefix, tt.kernel, got, tt.want)
			}
		})
	}
}

func TestDecompose(t *testing.T) {
	tests := []struct {
		name    string
		kernel  string
		payload string
		want    []any
	}{
		{"markdown keeps payload", "text.parse.markdown", "# a|b", []any{"# a|b"}},
		{"tag splits once", "web.html.tag.div", "class='c'|Hi|there", []any{"class='c'", "Hi|there"}},
		{"tag leading separator", "web.html.tag.div", "|content", []any{"", "content"}},
		{"tag trailing separator", "web.html.tag.div", "attrs|", []any{"attrs", ""}},
		{"tag without separator", "web.html.tag.div", "plain", []any{"", ""}},
		{"router", "web.router.map", "/about", []any{DefaultRoutes(), "/about"}},
		{"default", "io.fs.readfile", "/tmp/x", []any{"/tmp/x"}},
		{"default empty", "io.fs.readfile", "", []any{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decompose(tt.kernel, tt.payload)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("%s - Decompose(%q, %q) = %#v, want %#v", adapterTestPrefix, tt.kernel, tt.payload, got, tt.want)
			}
		})
	}
}

func TestDefaultRoutes_FreshCopy(t *testing.T) {
	a := DefaultRoutes()
	a["/about"] = "changed"
	if DefaultRoutes()["/about"] != "About" {
		t.Errorf("%s - DefaultRoutes shares state between calls", adapterTestPrefix)
	}
}

func newAdapterRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	kernels := append(builtin.Kernels(),
		registry.Kernel{
			Name:   "test.fail.always",
			Params: []string{"input"},
			Fn: func(_ context.Context, _ registry.Args) (any, error) {
				return nil, errors.New("boom")
			},
		},
		func() registry.Kernel {
			k := builtin.ByName()[builtin.TagDiv]
			k.Name = "site.div"
			k.AliasOf = builtin.TagDiv
			return k
		}(),
		registry.Kernel{
			Name:   "test.value.object",
			Params: []string{"input"},
			Fn: func(_ context.Context, args registry.Args) (any, error) {
				return map[string]any{"echo": args["input"]}, nil
			},
		},
	)
	reg, err := registry.New(kernels...)
	if err != nil {
		t.Fatalf("%s - registry.New failed: %v", adapterTestPrefix, err)
	}
	return reg
}

func TestInvoke(t *testing.T) {
	reg := newAdapterRegistry(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		kernel  string
		payload string
		want    string
	}{
		{"tag kernel", "web.html.tag.div", "class='c'|Hi", "<div class='c'>Hi</div>"},
		{"router kernel hit", "web.router.map", "/about", "About"},
		{"router kernel miss", "web.router.map", "/x", "404: /x not found"},
		{"markdown kernel", "text.parse.markdown", "# T\nx", "<h1>T</h1>\nx"},
		{"kernel error swallowed", "test.fail.always", "x", "Error executing kernel: boom"},
		{"arity error swallowed", "io.fs.writefile", "/tmp/x", `Error executing kernel: io.fs.writefile() missing required argument "content"`},
		{"non-string value", "test.value.object", "hi", `{"echo":"hi"}`},
		{"alias uses target rule", "site.div", "class='c'|Hi", "<div class='c'>Hi</div>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(Invoke(ctx, reg, tt.kernel, tt.payload)); got != tt.want {
				t.Errorf("%s - Invoke(%q, %q) = %q, want %q", adapterTestPrefix, tt.kernel, tt.payload, got, tt.want)
			}
		})
	}
}

func TestInvoke_UnknownKernel(t *testing.T) {
	reg := newAdapterRegistry(t)

	res := Invoke(context.Background(), reg, "no.such.kernel", "x")
	if res.OK() || !errors.Is(res.Err, registry.ErrNotFound) {
		t.Errorf("%s - expected ErrNotFound, got %+v", adapterTestPrefix, res.Err)
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"s", "s"},
		{1.5, "1.5"},
		{true, "true"},
		{[]any{"a", 1.0}, `["a",1]`},
	}
	for _, tt := range tests {
		if got := Stringify(tt.in); got != tt.want {
			t.Errorf("%s - Stringify(%#v) = %q, want %q", adapterTestPrefix, tt.in, got, tt.want)
		}
	}
}
