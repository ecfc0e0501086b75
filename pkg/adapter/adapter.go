// Package adapter turns a single free-text payload into kernel arguments.
//
// The decomposition is chosen from the kernel name by an ordered rule table;
// the first rule whose predicate matches wins:
//
//	markdown  whole payload as the only argument
//	tag       "attributes|content", split once on the first '|'
//	router    built-in route table plus the payload as the path
//	default   whole payload as the only argument
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/morezero/kernel-server/pkg/registry"
)

const logPrefix = "adapter:adapter"

// Strategy derives positional kernel arguments from a payload.
type Strategy func(payload string) []any

// Rule pairs a kernel-name predicate with a decomposition strategy.
type Rule struct {
	Name      string
	Matches   func(kernelName string) bool
	Decompose Strategy
}

// DefaultRoutes is the route table handed to router kernels.
func DefaultRoutes() map[string]string {
	return map[string]string{"/": "Home", "/about": "About"}
}

// Rules is the rule table in evaluation order.
var Rules = []Rule{
	{Name: "markdown", Matches: nameContains("markdown"), Decompose: wholePayload},
	{Name: "tag", Matches: nameContains("tag"), Decompose: splitAttributes},
	{Name: "router", Matches: nameContains("router"), Decompose: routeLookup},
}

// DefaultRule applies when no rule in Rules matches.
var DefaultRule = Rule{Name: "default", Matches: func(string) bool { return true }, Decompose: wholePayload}

// Select returns the first rule matching kernelName, or DefaultRule.
func Select(kernelName string) Rule {
	for _, r := range Rules {
		if r.Matches(kernelName) {
			return r
		}
	}
	return DefaultRule
}

// Decompose returns the positional arguments for kernelName derived from payload.
func Decompose(kernelName, payload string) []any {
	return Select(kernelName).Decompose(payload)
}

// Invoke decomposes payload and calls kernelName with the result. Aliases
// are decomposed by the rule of the kernel they point to.
func Invoke(ctx context.Context, reg *registry.Registry, kernelName, payload string) registry.Result {
	return reg.Call(ctx, kernelName, Decompose(reg.Canonical(kernelName), payload)...)
}

// Text renders a Result as completion text.
func Text(res registry.Result) string {
	if !res.OK() {
		slog.Warn(fmt.Sprintf("%s - kernel %s failed: %s", logPrefix, res.Err.Kernel, res.Err.Message))
		return "Error executing kernel: " + res.Err.Message
	}
	return Stringify(res.Value)
}

// Stringify renders a kernel value: strings as-is, nil as "", anything else as JSON.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func nameContains(substr string) func(string) bool {
	return func(name string) bool {
		return strings.Contains(name, substr)
	}
}

func wholePayload(payload string) []any {
	return []any{payload}
}

// splitAttributes splits on the first '|'. Without a separator both parts are empty.
func splitAttributes(payload string) []any {
	attrs, content, found := strings.Cut(payload, "|")
	if !found {
		return []any{"", ""}
	}
	return []any{attrs, content}
}

func routeLookup(payload string) []any {
	return []any{DefaultRoutes(), payload}
}
