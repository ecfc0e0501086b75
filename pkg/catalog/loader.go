package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"github.com/morezero/kernel-server/pkg/builtin"
	"github.com/morezero/kernel-server/pkg/registry"
	"github.com/morezero/kernel-server/pkg/semver"
)

const logPrefix = "catalog:loader"

// DefaultSearchPaths are tried, in order, when no explicit catalog file is given.
var DefaultSearchPaths = []string{"config/catalog.json", "catalog.json"}

// LoadCatalog loads the kernel catalog.
// Explicit paths (e.g. from KERNEL_CATALOG_FILE) must exist and parse. When no
// explicit path is given the default search paths are tried; a missing default
// file is skipped, a malformed one is an error. With nothing found the
// default catalog (every built-in kernel) is returned.
func LoadCatalog(paths ...string) (*Catalog, error) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		cat, err := readCatalog(p)
		if err != nil {
			return nil, err
		}
		slog.Info(fmt.Sprintf("%s - Loaded catalog from %s", logPrefix, p))
		return cat, nil
	}

	for _, p := range DefaultSearchPaths {
		cat, err := readCatalog(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		slog.Info(fmt.Sprintf("%s - Loaded catalog from %s", logPrefix, p))
		return cat, nil
	}

	slog.Info(fmt.Sprintf("%s - Using default catalog", logPrefix))
	return GetDefaultCatalog(), nil
}

func readCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to read catalog %s: %w", logPrefix, path, err)
	}
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("%s - failed to parse catalog %s: %w", logPrefix, path, err)
	}
	return &cat, nil
}

// GetDefaultCatalog returns the catalog serving every built-in kernel.
func GetDefaultCatalog() *Catalog {
	all := builtin.Kernels()
	kernels := make([]CatalogKernel, 0, len(all))
	for _, k := range all {
		kernels = append(kernels, CatalogKernel{Name: k.Name})
	}
	return &Catalog{
		Name:        "builtin",
		Version:     "1.0.0",
		Description: "All built-in kernels",
		Kernels:     kernels,
	}
}

// Build resolves the catalog against the available kernels and returns the
// kernels to register, catalog entries first, then aliases sorted by name.
func Build(cat *Catalog, available map[string]registry.Kernel) ([]registry.Kernel, error) {
	out := make([]registry.Kernel, 0, len(cat.Kernels)+len(cat.Aliases))
	selected := make(map[string]registry.Kernel, len(cat.Kernels))

	for _, entry := range cat.Kernels {
		k, ok := available[entry.Name]
		if !ok {
			return nil, fmt.Errorf("%s - unknown kernel %q: %w", logPrefix, entry.Name, registry.ErrNotFound)
		}
		if entry.Version != "" {
			if err := semver.CheckRange(versionOf(k), entry.Version); err != nil {
				return nil, fmt.Errorf("%s - kernel %s: %w", logPrefix, entry.Name, err)
			}
		}
		if entry.Description != "" {
			k.Description = entry.Description
		}
		selected[entry.Name] = k
		out = append(out, k)
	}

	aliases := make([]string, 0, len(cat.Aliases))
	for alias := range cat.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		if !semver.ValidateKernelName(alias) {
			return nil, fmt.Errorf("%s - alias %q is not a valid kernel name: %w", logPrefix, alias, registry.ErrInvalidName)
		}
		target := cat.Aliases[alias]
		k, ok := selected[target]
		if !ok {
			return nil, fmt.Errorf("%s - alias %s points to %q which is not in the catalog: %w", logPrefix, alias, target, registry.ErrNotFound)
		}
		k.Name = alias
		k.AliasOf = target
		if k.Description == "" {
			k.Description = "Alias of " + target
		}
		out = append(out, k)
	}

	return out, nil
}

// NewRegistry builds the catalog against the built-in kernels and constructs
// the registry.
func NewRegistry(cat *Catalog) (*registry.Registry, error) {
	kernels, err := Build(cat, builtin.ByName())
	if err != nil {
		return nil, err
	}
	reg, err := registry.New(kernels...)
	if err != nil {
		return nil, fmt.Errorf("%s - failed to build registry: %w", logPrefix, err)
	}
	return reg, nil
}

func versionOf(k registry.Kernel) string {
	if k.Version == "" {
		return registry.DefaultVersion
	}
	return k.Version
}
