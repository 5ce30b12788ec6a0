// Package manifest reads, validates and version-bumps the package.yaml
// manifest consumed by the release workflow and the registry publisher.
package manifest

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the manifest file name at the project root.
const DefaultFile = "package.yaml"

// Manifest is the package metadata the publish workflow needs.
type Manifest struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Main    string `yaml:"main"`
	Types   string `yaml:"types,omitempty"`
}

// Load reads and validates a manifest file.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("invalid manifest: %v", err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks the fields the publisher requires.
func (m Manifest) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"name", m.Name},
		{"version", m.Version},
		{"main", m.Main},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("manifest missing required field: %s", f.name)
		}
	}
	return nil
}

// Component selects which part of the version Bump increments.
type Component string

const (
	Major Component = "major"
	Minor Component = "minor"
	Patch Component = "patch"
)

// ParseComponent validates a --bump flag value.
func ParseComponent(s string) (Component, error) {
	switch Component(s) {
	case Major, Minor, Patch:
		return Component(s), nil
	}
	return "", fmt.Errorf("invalid bump component: %q (expected major, minor or patch)", s)
}

// Bump returns a copy of the manifest with the selected version component
// incremented and lower components reset.
func (m Manifest) Bump(c Component) (Manifest, error) {
	parts := strings.SplitN(m.Version, ".", 3)
	if len(parts) != 3 {
		return Manifest{}, fmt.Errorf("invalid version %q: expected major.minor.patch", m.Version)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Manifest{}, fmt.Errorf("invalid version %q: non-numeric component %q", m.Version, p)
		}
		nums[i] = n
	}
	switch c {
	case Major:
		nums[0]++
		nums[1], nums[2] = 0, 0
	case Minor:
		nums[1]++
		nums[2] = 0
	case Patch:
		nums[2]++
	default:
		return Manifest{}, fmt.Errorf("invalid bump component: %q", string(c))
	}
	out := m
	out.Version = fmt.Sprintf("%d.%d.%d", nums[0], nums[1], nums[2])
	return out, nil
}
