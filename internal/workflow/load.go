package workflow

import (
	"io"
	"path/filepath"

	"github.com/flarebyte/seshat-tally/internal/config"
	"github.com/flarebyte/seshat-tally/internal/manifest"
	"github.com/flarebyte/seshat-tally/internal/toolrun"
)

// NewContext loads the config and manifest for a project and assembles the
// workflow context the subcommands share.
func NewContext(dir, cfgPath string, runner toolrun.Runner, out io.Writer) (*Context, error) {
	if cfgPath == "" {
		cfgPath = filepath.Join(dir, config.DefaultFile)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	mPath := cfg.ManifestPath
	if !filepath.IsAbs(mPath) {
		mPath = filepath.Join(dir, mPath)
	}
	m, err := manifest.Load(mPath)
	if err != nil {
		return nil, err
	}
	return &Context{
		Dir:      dir,
		Config:   cfg,
		Manifest: m,
		Runner:   runner,
		Out:      out,
		Bump:     manifest.Patch,
	}, nil
}
