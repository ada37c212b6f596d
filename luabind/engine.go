// Package luabind exposes a bough.Manager to gopher-lua scripts.
//
// Scripts see a global "transform" table with getters and setters for local
// and world-space fields, hierarchy edits, and name-path lookup:
//
//	local ship = transform.alloc()
//	local gun = transform.alloc()
//	transform.set_parent(gun, ship)
//	transform.set_name(gun, "gun")
//	transform.set_position(ship, 100, 40)
//	local x, y = transform.world_position(transform.find(ship, "gun"))
//
// Handles travel as typed userdata, so a script cannot forge one from a
// number. Stale handles and cycles raise Lua errors instead of panicking the
// host.
package luabind

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/phanxgames/bough"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// APIVersion is exposed to scripts as the API_VERSION global.
const APIVersion = 1

// Engine wraps a single gopher-lua VM with the transform module installed.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua VM bound to m.
func NewEngine(m *bough.Manager, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(APIVersion))
	Register(vm, m)
	return &Engine{vm: vm, log: log}
}

// State returns the underlying VM.
func (e *Engine) State() *lua.LState {
	return e.vm
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// DoString runs a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// LoadDir runs every .lua file in dir in lexical order. A missing directory
// is not an error.
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read script dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Call invokes a global Lua function with handle arguments, e.g. an
// on_spawn(h) hook defined by a script. Missing functions are ignored.
func (e *Engine) Call(name string, args ...bough.Handle) error {
	fn := e.vm.GetGlobal(name)
	if fn == lua.LNil {
		e.log.Debug("lua function not found", zap.String("name", name))
		return nil
	}
	lv := make([]lua.LValue, len(args))
	for i, h := range args {
		lv[i] = newHandle(e.vm, h)
	}
	if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lv...); err != nil {
		return fmt.Errorf("call %s: %w", name, err)
	}
	return nil
}
