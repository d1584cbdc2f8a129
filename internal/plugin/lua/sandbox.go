package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// safeModules are the modules require may return. The editor module is
// added by InstallEditor through the preload table.
var safeModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
	"editor": true,
}

// Sandbox restricts Lua execution to safe operations: no file loading, no
// io, os or debug libraries, and a require limited to safeModules.
type Sandbox struct {
	L *lua.LState
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState) *Sandbox {
	return &Sandbox{L: L}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	// Functions that load code from disk or from strings.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installSafeRequire()
}

// installSafeRequire clears the module search paths and replaces require
// with a whitelist-based version.
func (s *Sandbox) installSafeRequire() {
	if pkg, ok := s.L.GetGlobal("package").(*lua.LTable); ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	originalRequire := s.L.GetGlobal("require")
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)
		if !safeModules[modName] {
			L.RaiseError("module %q is not available", modName)
			return 0
		}
		L.Push(originalRequire)
		L.Push(lua.LString(modName))
		L.Call(1, 1)
		return 1
	}))
}
