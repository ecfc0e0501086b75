// Package builtin provides the kernels shipped with kernel-server.
package builtin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/morezero/kernel-server/pkg/registry"
)

// Kernel names.
const (
	TagDiv    = "web.html.tag.div"
	TagSpan   = "web.html.tag.span"
	Markdown  = "text.parse.markdown"
	ReadFile  = "io.fs.readfile"
	WriteFile = "io.fs.writefile"
	RouterMap = "web.router.map"
)

// Kernels returns the built-in kernels in their canonical order.
func Kernels() []registry.Kernel {
	return []registry.Kernel{
		{
			Name:        TagDiv,
			Params:      []string{"attributes", "children"},
			Description: "Wrap children in a <div> element",
			Version:     "1.0.0",
			Fn:          tagKernel("div"),
		},
		{
			Name:        TagSpan,
			Params:      []string{"attributes", "children"},
			Description: "Wrap children in a <span> element",
			Version:     "1.0.0",
			Fn:          tagKernel("span"),
		},
		{
			Name:        Markdown,
			Params:      []string{"text"},
			Description: "Render a heading and bold text as HTML",
			Version:     "1.0.0",
			Fn:          markdownKernel,
		},
		{
			Name:        ReadFile,
			Params:      []string{"path"},
			Description: "Read a file from disk",
			Version:     "1.0.0",
			Fn:          readFileKernel,
		},
		{
			Name:        WriteFile,
			Params:      []string{"path", "content"},
			Description: "Write a file to disk, creating parent directories",
			Version:     "1.0.0",
			Fn:          writeFileKernel,
		},
		{
			Name:        RouterMap,
			Params:      []string{"routes", "path"},
			Description: "Look up a path in a route table",
			Version:     "1.0.0",
			Fn:          routerKernel,
		},
	}
}

// ByName indexes Kernels by name.
func ByName() map[string]registry.Kernel {
	all := Kernels()
	out := make(map[string]registry.Kernel, len(all))
	for _, k := range all {
		out[k.Name] = k
	}
	return out
}

func tagKernel(tag string) registry.Func {
	return func(_ context.Context, args registry.Args) (any, error) {
		attrs, err := scalarArg(args, "attributes")
		if err != nil {
			return nil, err
		}
		children, err := scalarArg(args, "children")
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("<%s %s>%s</%s>", tag, attrs, children, tag), nil
	}
}

// markdownKernel handles the small subset the site generator relies on:
// "# " headings closed at the first newline and a single **bold** run.
func markdownKernel(_ context.Context, args registry.Args) (any, error) {
	text, err := stringArg(args, "text")
	if err != nil {
		return nil, err
	}
	html := strings.ReplaceAll(text, "# ", "<h1>")
	html = strings.Replace(html, "\n", "</h1>\n", 1)
	html = strings.Replace(html, "**", "<strong>", 1)
	html = strings.Replace(html, "**", "</strong>", 1)
	return html, nil
}

func readFileKernel(_ context.Context, args registry.Args) (any, error) {
	path, err := stringArg(args, "path")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Error reading file: %s", path), nil
	}
	return string(data), nil
}

func writeFileKernel(_ context.Context, args registry.Args) (any, error) {
	path, err := stringArg(args, "path")
	if err != nil {
		return nil, err
	}
	content, err := stringArg(args, "content")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Sprintf("Error writing file: %v", err), nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Sprintf("Error writing file: %v", err), nil
	}
	return "Success", nil
}

func routerKernel(_ context.Context, args registry.Args) (any, error) {
	path, err := stringArg(args, "path")
	if err != nil {
		return nil, err
	}

	var (
		target any
		found  bool
	)
	switch routes := args["routes"].(type) {
	case map[string]string:
		target, found = routes[path]
	case map[string]any:
		target, found = routes[path]
	default:
		return nil, fmt.Errorf("argument \"routes\" must be an object, got %T", args["routes"])
	}
	if !found {
		return fmt.Sprintf("404: %s not found", path), nil
	}
	return target, nil
}

var errNotString = errors.New("must be a string")

func stringArg(args registry.Args, name string) (string, error) {
	s, ok := args[name].(string)
	if !ok {
		return "", fmt.Errorf("argument %q %w, got %T", name, errNotString, args[name])
	}
	return s, nil
}

var errNotScalar = errors.New("must be a string, number, boolean or null")

// scalarArg renders a JSON scalar for interpolation into markup: numbers in
// their shortest form, booleans as True/False and null as None.
func scalarArg(args registry.Args, name string) (string, error) {
	switch v := args[name].(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case bool:
		if v {
			return "True", nil
		}
		return "False", nil
	case nil:
		return "None", nil
	default:
		return "", fmt.Errorf("argument %q %w, got %T", name, errNotScalar, v)
	}
}
