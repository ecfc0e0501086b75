// Package catalog loads the kernel catalog that selects which built-in kernels are served.
package catalog

// CatalogKernel is one kernel entry in the catalog.
type CatalogKernel struct {
	// Name of a built-in kernel (e.g., "web.html.tag.div").
	Name string `json:"name"`
	// Version is a SemVer range the built-in kernel's version must satisfy; empty accepts any.
	Version string `json:"version,omitempty"`
	// Description overrides the built-in description when set.
	Description string `json:"description,omitempty"`
}

// Catalog is the root catalog document.
type Catalog struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description,omitempty"`
	Kernels     []CatalogKernel `json:"kernels"`
	// Aliases registers an extra name for a catalog kernel (alias -> kernel name).
	Aliases map[string]string `json:"aliases,omitempty"`
}

// Names returns the kernel names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.Kernels))
	for _, k := range c.Kernels {
		out = append(out, k.Name)
	}
	return out
}
