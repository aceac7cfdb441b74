package provision

import (
	"os"
	"path/filepath"
	"strings"

	hcversion "github.com/hashicorp/go-version"
)

// resolveVersion is the version-resolution algorithm the interpreted, Node
// and Go provisioners share: an explicit version wins; otherwise walk ancestors of
// workDir looking for the first pin file (nearest wins); otherwise fall
// back to the provisioner's pinned default. The ancestor walk stops at the
// filesystem root rather than requiring a .git directory.
func resolveVersion(explicit, workDir string, pinFiles []string, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if v, ok := findPinFile(workDir, pinFiles); ok {
		return v
	}
	return fallback
}

func findPinFile(startDir string, pinFiles []string) (string, bool) {
	dir := startDir
	for {
		for _, name := range pinFiles {
			path := filepath.Join(dir, name)
			if data, err := os.ReadFile(path); err == nil {
				v := strings.TrimSpace(string(data))
				if v != "" {
					return v, true
				}
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// normalizeVersion parses a resolved version string with go-version so
// "v3.12.1", "3.12.1", and build-series-qualified strings all compare
// consistently, returning the canonical string form. A string that does
// not parse as a version (such as a constraint like ">=3.10") is an error;
// constraints are not resolved to a concrete version.
func normalizeVersion(raw string) (string, error) {
	v, err := hcversion.NewVersion(strings.TrimPrefix(raw, "v"))
	if err != nil {
		return "", err
	}
	return v.String(), nil
}
