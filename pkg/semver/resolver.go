package semver

import (
	"fmt"

	masterminds "github.com/Masterminds/semver/v3"
)

const resolverLogPrefix = "semver:resolver"

// ValidateVersion checks that version is a strict SemVer string (e.g., "1.2.0").
func ValidateVersion(version string) error {
	if _, err := masterminds.StrictNewVersion(version); err != nil {
		return fmt.Errorf("%s - invalid version %q: %w", resolverLogPrefix, version, err)
	}
	return nil
}

// SatisfiesRange checks if a version string satisfies a range.
// An empty range matches every valid version.
func SatisfiesRange(version, rangeStr string) bool {
	sv, err := masterminds.NewVersion(version)
	if err != nil {
		return false
	}
	if rangeStr == "" {
		return true
	}

	if IsMajorOnly(rangeStr) {
		return int(sv.Major()) == ExtractMajorFromRange(rangeStr)
	}

	constraint, err := masterminds.NewConstraint(rangeStr)
	if err != nil {
		return false
	}
	return constraint.Check(sv)
}

// CheckRange is SatisfiesRange with an explanatory error, for startup validation.
func CheckRange(version, rangeStr string) error {
	if rangeStr != "" && !IsMajorOnly(rangeStr) {
		if _, err := masterminds.NewConstraint(rangeStr); err != nil {
			return fmt.Errorf("%s - invalid range %q: %w", resolverLogPrefix, rangeStr, err)
		}
	}
	if !SatisfiesRange(version, rangeStr) {
		return fmt.Errorf("%s - version %s does not satisfy %q", resolverLogPrefix, version, rangeStr)
	}
	return nil
}
