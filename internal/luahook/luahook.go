// Package luahook evaluates the optional pre-publish hook script. The hook
// runs in a sandboxed Lua state with only base/string/table/math available
// and a wall-clock timeout; it receives the manifest as a global table and
// returns true to allow publishing or a string naming the reason to veto it.
package luahook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
)

const defaultTimeout = 2 * time.Second

// ErrVetoed wraps the reason string returned by a hook that blocked the
// publish.
var ErrVetoed = errors.New("publish vetoed by hook")

// Manifest is the read-only view the hook script sees.
type Manifest struct {
	Name    string
	Version string
	Main    string
}

// RunFile loads the hook script from path and evaluates it.
func RunFile(path string, m Manifest) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read hook: %w", err)
	}
	return Run(string(code), m)
}

// Run evaluates hook code against the manifest.
func Run(code string, m Manifest) error {
	L := newSandboxState()
	defer L.Close()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	L.SetContext(ctx)

	tbl := L.NewTable()
	tbl.RawSetString("name", lua.LString(m.Name))
	tbl.RawSetString("version", lua.LString(m.Version))
	tbl.RawSetString("main", lua.LString(m.Main))
	L.SetGlobal("manifest", tbl)

	fn, err := L.LoadString(code)
	if err != nil {
		return fmt.Errorf("invalid hook: %v", err)
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		if isTimeoutError(err) {
			return errors.New("hook timeout")
		}
		return fmt.Errorf("hook failed: %v", err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	return interpretResult(ret)
}

func newSandboxState() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:     true,
		RegistrySize:     256,
		RegistryMaxSize:  1024,
		RegistryGrowStep: 0,
	})
	openLib := func(name string, f lua.LGFunction) {
		L.Push(L.NewFunction(f))
		L.Push(lua.LString(name))
		L.Call(1, 0)
	}
	openLib("base", lua.OpenBase)
	openLib("string", lua.OpenString)
	openLib("table", lua.OpenTable)
	openLib("math", lua.OpenMath)
	return L
}

func interpretResult(v lua.LValue) error {
	switch x := v.(type) {
	case lua.LBool:
		if bool(x) {
			return nil
		}
		return ErrVetoed
	case lua.LString:
		return fmt.Errorf("%w: %s", ErrVetoed, string(x))
	default:
		return fmt.Errorf("hook must return true or a reason string, got %s", v.Type())
	}
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "deadline") || strings.Contains(s, "context canceled")
}
