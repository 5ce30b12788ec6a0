package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Marshal returns canonical YAML bytes for a manifest: sorted keys, two
// space indent, a single trailing newline. Rewrites after a version bump
// must not churn unrelated lines.
func Marshal(m Manifest) ([]byte, error) {
	fields := map[string]string{
		"name":    m.Name,
		"version": m.Version,
		"main":    m.Main,
	}
	if m.Types != "" {
		fields["types"] = m.Types
	}

	top := &yaml.Node{Kind: yaml.MappingNode}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		top.Content = append(top.Content, scalarNode(k), scalarNode(fields[k]))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(top); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	out = append(out, '\n')
	return out, nil
}

// Write writes canonical manifest content to path, creating parent
// directories.
func Write(path string, m Manifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
