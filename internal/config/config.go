// Package config loads and validates the seshat.cue tool configuration: the
// external tool command lines, the dist directory, and the publish
// preconditions.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// DefaultFile is the config file name looked up at the project root.
const DefaultFile = "seshat.cue"

const CurrentConfigVersion = "1"

var supportedConfigVersions = []string{CurrentConfigVersion}

// Tool is one external tool command line.
type Tool struct {
	Program string
	Args    []string
}

// Empty reports whether the tool was left unconfigured.
func (t Tool) Empty() bool { return t.Program == "" }

// Config is the parsed seshat.cue content with defaults applied.
type Config struct {
	ConfigVersion  string
	DistDir        string
	ManifestPath   string
	Bundler        Tool
	Declarations   Tool
	Test           Tool
	Publish        Tool
	RequiredFiles  []string
	PrePublishHook string
}

// Load validates and extracts the config from a CUE file. Required fields:
//   - configVersion: string, one of the supported versions
//   - tools.bundler.program: string
func Load(path string) (Config, error) {
	v, err := compileCUE(path)
	if err != nil {
		return Config{}, err
	}
	if err := requireStringField(v, "configVersion"); err != nil {
		return Config{}, err
	}
	var c Config
	if err := v.LookupPath(cue.ParsePath("configVersion")).Decode(&c.ConfigVersion); err != nil {
		return Config{}, fmt.Errorf("invalid value for configVersion: %v", err)
	}
	if !isSupportedConfigVersion(c.ConfigVersion) {
		return Config{}, fmt.Errorf("unsupported configVersion: %q (supported: %s)",
			c.ConfigVersion, strings.Join(supportedConfigVersions, ", "))
	}

	c.DistDir = optionalString(v, "dist.dir", "dist")
	c.ManifestPath = optionalString(v, "manifest", "package.yaml")

	tools := v.LookupPath(cue.ParsePath("tools"))
	if tools.Exists() {
		c.Bundler = parseTool(tools, "bundler")
		c.Declarations = parseTool(tools, "declarations")
		c.Test = parseTool(tools, "test")
		c.Publish = parseTool(tools, "publish")
	}
	if c.Bundler.Empty() {
		return Config{}, errors.New("missing required field: tools.bundler.program")
	}

	rf := v.LookupPath(cue.ParsePath("requiredFiles"))
	if rf.Exists() {
		if err := rf.Decode(&c.RequiredFiles); err != nil {
			return Config{}, fmt.Errorf("invalid value for requiredFiles: %v", err)
		}
	}
	c.PrePublishHook = optionalString(v, "hooks.prePublish", "")
	return c, nil
}

func compileCUE(path string) (cue.Value, error) {
	if filepath.Ext(path) != ".cue" {
		return cue.Value{}, errors.New("unsupported config format: expected .cue")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config: %w", err)
	}
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data)
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid config: %v", err)
	}
	return v, nil
}

func requireStringField(v cue.Value, name string) error {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return fmt.Errorf("missing required field: %s", name)
	}
	if f.Kind() != cue.StringKind {
		return fmt.Errorf("invalid type for field: %s (expected string)", name)
	}
	return nil
}

func optionalString(v cue.Value, path, fallback string) string {
	f := v.LookupPath(cue.ParsePath(path))
	if !f.Exists() || f.Kind() != cue.StringKind {
		return fallback
	}
	var s string
	if err := f.Decode(&s); err != nil || s == "" {
		return fallback
	}
	return s
}

func parseTool(tools cue.Value, name string) Tool {
	tv := tools.LookupPath(cue.ParsePath(name))
	if !tv.Exists() {
		return Tool{}
	}
	var t Tool
	pv := tv.LookupPath(cue.ParsePath("program"))
	if pv.Exists() && pv.Kind() == cue.StringKind {
		_ = pv.Decode(&t.Program)
	}
	av := tv.LookupPath(cue.ParsePath("args"))
	if av.Exists() {
		_ = av.Decode(&t.Args)
	}
	return t
}

func isSupportedConfigVersion(v string) bool {
	for _, s := range supportedConfigVersions {
		if v == s {
			return true
		}
	}
	return false
}
