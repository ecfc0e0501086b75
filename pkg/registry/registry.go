package registry

import (
	"fmt"
	"log/slog"

	"github.com/morezero/kernel-server/pkg/semver"
)

const logPrefix = "registry:registry"

// DefaultVersion is assigned to kernels registered without a version.
const DefaultVersion = "1.0.0"

// Registry maps kernel names to kernels. It is built once by New and never
// modified afterwards, so lookups and invocations need no locking.
type Registry struct {
	kernels map[string]Kernel
	order   []string
}

// New builds a registry from the given kernels. Construction is all or
// nothing: the first invalid kernel aborts it and no registry is returned.
func New(kernels ...Kernel) (*Registry, error) {
	r := &Registry{
		kernels: make(map[string]Kernel, len(kernels)),
		order:   make([]string, 0, len(kernels)),
	}

	for _, k := range kernels {
		if _, err := semver.ParseKernelName(k.Name); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
		}
		if _, exists := r.kernels[k.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, k.Name)
		}
		if k.Fn == nil {
			return nil, fmt.Errorf("%w: %s", ErrNilFunc, k.Name)
		}
		if k.Version == "" {
			k.Version = DefaultVersion
		}
		if err := semver.ValidateVersion(k.Version); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidVersion, k.Name, err)
		}
		seen := make(map[string]bool, len(k.Params))
		for _, p := range k.Params {
			if p == "" || seen[p] {
				return nil, fmt.Errorf("%w: %s declares empty or duplicate parameter %q", ErrBadArguments, k.Name, p)
			}
			seen[p] = true
		}

		k.Params = append([]string(nil), k.Params...)
		r.kernels[k.Name] = k
		r.order = append(r.order, k.Name)
	}

	for _, name := range r.order {
		k := r.kernels[name]
		if k.AliasOf == "" {
			continue
		}
		target, ok := r.kernels[k.AliasOf]
		if !ok || target.AliasOf != "" {
			return nil, fmt.Errorf("%w: alias %s points to %q which is not a registered kernel", ErrNotFound, name, k.AliasOf)
		}
	}

	slog.Debug(fmt.Sprintf("%s - Built registry with %d kernels", logPrefix, len(r.order)))
	return r, nil
}

// Lookup returns the kernel registered under name.
func (r *Registry) Lookup(name string) (Kernel, bool) {
	k, ok := r.kernels[name]
	return k, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.kernels[name]
	return ok
}

// Canonical returns the kernel name behind name: the alias target for an
// alias, name itself otherwise.
func (r *Registry) Canonical(name string) string {
	if k, ok := r.kernels[name]; ok && k.AliasOf != "" {
		return k.AliasOf
	}
	return name
}

// List returns the registered names in registration order.
func (r *Registry) List() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered kernels.
func (r *Registry) Len() int {
	return len(r.order)
}

// Describe returns listing information for every kernel in registration order.
func (r *Registry) Describe() []KernelInfo {
	out := make([]KernelInfo, 0, len(r.order))
	for _, name := range r.order {
		k := r.kernels[name]
		out = append(out, KernelInfo{
			Name:        k.Name,
			Version:     k.Version,
			Description: k.Description,
			Params:      append([]string(nil), k.Params...),
		})
	}
	return out
}
