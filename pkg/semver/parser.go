// Package semver provides kernel name parsing and SemVer checks for kernel versions.
package semver

import (
	"fmt"
	"regexp"
	"strings"
)

const logPrefix = "semver:parser"

// ParsedKernelName holds the parsed components of a dotted kernel name.
type ParsedKernelName struct {
	// Full kernel name (e.g., "web.html.tag.div")
	Full string
	// Top-level domain (e.g., "web")
	Domain string
	// Subdomain; empty for two-segment names such as "text.render"
	Subdomain string
	// Action (e.g., "tag")
	Action string
	// Variant; empty unless the name has four or more segments (e.g., "div")
	Variant string
	// Segments in order
	Segments []string
}

var (
	segmentRegex   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	majorOnlyRegex = regexp.MustCompile(`^\d+$`)
)

// ParseKernelName parses a dotted kernel name.
//
// Supported formats:
//   - text.render                 (domain.action)
//   - web.router.map              (domain.subdomain.action)
//   - web.html.tag.div            (domain.subdomain.action.variant)
//
// Names with more than four segments keep the trailing segments in Variant.
func ParseKernelName(input string) (*ParsedKernelName, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return nil, fmt.Errorf("%s - kernel name is empty", logPrefix)
	}
	if raw != input {
		return nil, fmt.Errorf("%s - kernel name has surrounding whitespace: %q", logPrefix, input)
	}

	parts := strings.Split(raw, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%s - invalid kernel name, need at least domain.action: %s", logPrefix, raw)
	}
	for _, p := range parts {
		if !segmentRegex.MatchString(p) {
			return nil, fmt.Errorf("%s - invalid segment %q in kernel name %s", logPrefix, p, raw)
		}
	}

	parsed := &ParsedKernelName{
		Full:     raw,
		Domain:   parts[0],
		Segments: parts,
	}
	switch len(parts) {
	case 2:
		parsed.Action = parts[1]
	case 3:
		parsed.Subdomain = parts[1]
		parsed.Action = parts[2]
	default:
		parsed.Subdomain = parts[1]
		parsed.Action = parts[2]
		parsed.Variant = strings.Join(parts[3:], ".")
	}
	return parsed, nil
}

// ValidateKernelName reports whether name is a well-formed kernel name.
func ValidateKernelName(name string) bool {
	_, err := ParseKernelName(name)
	return err == nil
}

// IsMajorOnly checks if a range is a major-only specifier (e.g., "3").
func IsMajorOnly(rangeStr string) bool {
	return majorOnlyRegex.MatchString(rangeStr)
}

// ExtractMajorFromRange extracts the major version if the range is major-only.
// Returns -1 if not a major-only range.
func ExtractMajorFromRange(rangeStr string) int {
	if !IsMajorOnly(rangeStr) {
		return -1
	}
	var major int
	fmt.Sscanf(rangeStr, "%d", &major)
	return major
}
