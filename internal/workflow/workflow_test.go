package workflow

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flarebyte/seshat-tally/internal/config"
	"github.com/flarebyte/seshat-tally/internal/manifest"
	"github.com/flarebyte/seshat-tally/internal/testutil"
	"github.com/flarebyte/seshat-tally/internal/toolrun"
)

// fakeRunner records invocations and fails programs listed in failWith.
// Programs listed in outputs write their files on success, the way the real
// bundler and declaration tools populate the dist directory after a clean.
type fakeRunner struct {
	dir      string
	commands []toolrun.Command
	failWith map[string]int
	outputs  map[string][]string
}

func (r *fakeRunner) Run(_ context.Context, c toolrun.Command) error {
	r.commands = append(r.commands, c)
	if code, ok := r.failWith[c.Program]; ok {
		return &toolrun.ExecError{Cmd: c.String(), Code: code}
	}
	for _, rel := range r.outputs[c.Program] {
		full := filepath.Join(r.dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(c.Program+"\n"), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func testConfig() config.Config {
	return config.Config{
		ConfigVersion: config.CurrentConfigVersion,
		DistDir:       "dist",
		ManifestPath:  "package.yaml",
		Bundler:       config.Tool{Program: "esbuild", Args: []string{"--bundle"}},
		Declarations:  config.Tool{Program: "tsc"},
		Test:          config.Tool{Program: "vitest", Args: []string{"run"}},
		Publish:       config.Tool{Program: "npm", Args: []string{"publish"}},
	}
}

func testContext(t *testing.T) (*Context, *testutil.Project, *fakeRunner) {
	t.Helper()
	p := testutil.NewProject(t).
		WriteFile("package.yaml", "main: dist/tally.js\nname: tally\ntypes: dist/tally.d.ts\nversion: 1.2.3\n").
		WriteFile("README.md", "tally\n").
		WriteFile("dist/tally.js", "exports\n").
		WriteFile("dist/tally.d.ts", "decls\n")
	m, err := manifest.Load(p.Dir + "/package.yaml")
	require.NoError(t, err)
	r := &fakeRunner{
		dir:      p.Dir,
		failWith: map[string]int{},
		outputs: map[string][]string{
			"esbuild": {"dist/tally.js"},
			"tsc":     {"dist/tally.d.ts"},
		},
	}
	wc := &Context{
		Dir:      p.Dir,
		Config:   testConfig(),
		Manifest: m,
		Runner:   r,
		Out:      &bytes.Buffer{},
		Bump:     manifest.Patch,
		// Temp dirs are not git repos; release tests opt back in.
		AllowDirty: true,
	}
	return wc, p, r
}

func removeProjectFile(p *testutil.Project, rel string) error {
	return os.Remove(filepath.Join(p.Dir, filepath.FromSlash(rel)))
}

func TestExecuteRunsStepsInOrder(t *testing.T) {
	wc, _, _ := testContext(t)
	var order []string
	mk := func(name string) Step {
		return Step{Name: name, Run: func(context.Context, *Context) error {
			order = append(order, name)
			return nil
		}}
	}
	out := &bytes.Buffer{}
	wc.Out = out
	require.NoError(t, Execute(context.Background(), wc, []Step{mk("a"), mk("b"), mk("c")}))
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, "-> a\n-> b\n-> c\n", out.String())
}

func TestExecuteStopsAtFirstFailure(t *testing.T) {
	wc, _, _ := testContext(t)
	boom := errors.New("boom")
	var ran []string
	steps := []Step{
		{Name: "ok", Run: func(context.Context, *Context) error { ran = append(ran, "ok"); return nil }},
		{Name: "bad", Run: func(context.Context, *Context) error { ran = append(ran, "bad"); return boom }},
		{Name: "never", Run: func(context.Context, *Context) error { ran = append(ran, "never"); return nil }},
	}
	err := Execute(context.Background(), wc, steps)
	// The step error propagates unchanged.
	assert.Same(t, boom, err)
	assert.Equal(t, []string{"ok", "bad"}, ran)
}

func TestBuildStepsInvokeTools(t *testing.T) {
	wc, p, r := testContext(t)
	p.WriteFile("dist/stale.js", "old\n")
	require.NoError(t, Execute(context.Background(), wc, BuildSteps(true)))

	require.Len(t, r.commands, 2)
	assert.Equal(t, "esbuild", r.commands[0].Program)
	assert.Equal(t, []string{"--bundle"}, r.commands[0].Args)
	assert.Equal(t, "tsc", r.commands[1].Program)
	assert.False(t, p.Exists("dist/stale.js"), "clean step should clear dist")
}

func TestBuildStepsNoCleanKeepsDist(t *testing.T) {
	wc, p, _ := testContext(t)
	p.WriteFile("dist/stale.js", "old\n")
	require.NoError(t, Execute(context.Background(), wc, BuildSteps(false)))
	assert.True(t, p.Exists("dist/stale.js"))
}

func TestBundleFailureAborts(t *testing.T) {
	wc, _, r := testContext(t)
	r.failWith["esbuild"] = 2
	err := Execute(context.Background(), wc, BuildSteps(true))
	var ee *toolrun.ExecError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "esbuild --bundle", ee.Cmd)
	assert.Equal(t, 2, ee.ExitCode())
	// Declarations must not run after the bundler failed.
	require.Len(t, r.commands, 1)
}

func TestDeclarationsSkippedWhenUnconfigured(t *testing.T) {
	wc, _, r := testContext(t)
	wc.Config.Declarations = config.Tool{}
	require.NoError(t, Execute(context.Background(), wc, BuildSteps(false)))
	require.Len(t, r.commands, 1)
	assert.Equal(t, "esbuild", r.commands[0].Program)
}

func TestValidateFilesReportsMissingPath(t *testing.T) {
	wc, p, _ := testContext(t)
	require.NoError(t, Execute(context.Background(), wc, ValidateSteps()))

	require.NoError(t, removeProjectFile(p, "dist/tally.d.ts"))
	err := Execute(context.Background(), wc, ValidateSteps())
	require.Error(t, err)
	assert.Equal(t, "missing required file: dist/tally.d.ts", err.Error())
}

func TestValidateFilesIncludesConfiguredExtras(t *testing.T) {
	wc, _, _ := testContext(t)
	wc.Config.RequiredFiles = []string{"LICENSE"}
	err := Execute(context.Background(), wc, ValidateSteps())
	require.Error(t, err)
	assert.Equal(t, "missing required file: LICENSE", err.Error())
}

func TestReleaseDryRunSkipsPublish(t *testing.T) {
	wc, p, r := testContext(t)
	require.NoError(t, Execute(context.Background(), wc, ReleaseSteps(true)))

	for _, c := range r.commands {
		assert.NotEqual(t, "npm", c.Program, "publish must not run in dry-run")
	}
	// The bump still rewrote the manifest.
	m, err := manifest.Load(p.Dir + "/package.yaml")
	require.NoError(t, err)
	assert.Equal(t, "1.2.4", m.Version)
}

func TestReleasePublishes(t *testing.T) {
	wc, _, r := testContext(t)
	require.NoError(t, Execute(context.Background(), wc, ReleaseSteps(false)))

	last := r.commands[len(r.commands)-1]
	assert.Equal(t, "npm", last.Program)
	assert.Equal(t, []string{"publish"}, last.Args)
	assert.Equal(t, "1.2.4", wc.Manifest.Version)
}

func TestReleaseStopsWhenValidationFails(t *testing.T) {
	wc, p, r := testContext(t)
	require.NoError(t, removeProjectFile(p, "README.md"))
	err := Execute(context.Background(), wc, ReleaseSteps(false))
	require.Error(t, err)
	assert.Equal(t, "missing required file: README.md", err.Error())

	// Build tools ran, publish did not; no rollback of the build output.
	for _, c := range r.commands {
		assert.NotEqual(t, "npm", c.Program)
	}
	m, lerr := manifest.Load(p.Dir + "/package.yaml")
	require.NoError(t, lerr)
	assert.Equal(t, "1.2.3", m.Version, "bump must not run after failed validation")
}

func TestReleaseRebuildsDistAfterClean(t *testing.T) {
	wc, p, _ := testContext(t)
	p.WriteFile("dist/stale.js", "old\n")
	require.NoError(t, Execute(context.Background(), wc, ReleaseSteps(true)))

	// The clean step emptied dist; the tools repopulated the artifacts the
	// validate step requires.
	assert.False(t, p.Exists("dist/stale.js"))
	assert.True(t, p.Exists("dist/tally.js"))
	assert.True(t, p.Exists("dist/tally.d.ts"))
}

func TestReleaseMinorBump(t *testing.T) {
	wc, _, _ := testContext(t)
	wc.Bump = manifest.Minor
	require.NoError(t, Execute(context.Background(), wc, ReleaseSteps(true)))
	assert.Equal(t, "1.3.0", wc.Manifest.Version)
}

func TestReleaseRefusesMissingGitRepo(t *testing.T) {
	wc, _, _ := testContext(t)
	wc.AllowDirty = false
	err := Execute(context.Background(), wc, ReleaseSteps(true))
	require.Error(t, err)
	assert.Equal(t, "git repo not found", err.Error())
}

func TestPrePublishHookVeto(t *testing.T) {
	wc, p, r := testContext(t)
	p.WriteFile("hooks/pre_publish.lua", `return "release window closed"`)
	wc.Config.PrePublishHook = "hooks/pre_publish.lua"
	err := Execute(context.Background(), wc, ReleaseSteps(false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "release window closed")
	for _, c := range r.commands {
		assert.NotEqual(t, "npm", c.Program, "publish must not run after hook veto")
	}
}

func TestPublishRequiresConfiguredTool(t *testing.T) {
	wc, _, _ := testContext(t)
	wc.Config.Publish = config.Tool{}
	err := Execute(context.Background(), wc, []Step{Publish()})
	require.Error(t, err)
	assert.Equal(t, "missing required field: tools.publish.program", err.Error())
}
