package lua

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single script run or function call.
const DefaultExecutionTimeout = time.Second

// State wraps a sandboxed gopher-lua state.
//
// gopher-lua's LState is not goroutine-safe; every method takes the
// state's mutex.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration
	print            func(string)

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the timeout for Lua runs and calls.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d > 0 {
			s.executionTimeout = d
		}
	}
}

// WithPrint routes Lua print output to fn. Without it print is a no-op.
func WithPrint(fn func(string)) StateOption {
	return func(s *State) {
		s.print = fn
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	s := &State{
		executionTimeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	s.installPrint()
	return s
}

// openSafeLibraries opens only safe Lua standard libraries and removes
// the base functions that reach the file system.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// installPrint replaces print with the configured sink.
func (s *State) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		if s.print == nil {
			return 0
		}
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		s.print(strings.Join(parts, "\t"))
		return 0
	}))
}

// DoFile executes a Lua file.
func (s *State) DoFile(path string) error {
	return s.run(func() error { return s.L.DoFile(path) })
}

// DoString executes a Lua chunk.
func (s *State) DoString(code string) error {
	return s.run(func() error { return s.L.DoString(code) })
}

// CallFunction calls fn with args and returns its first result.
func (s *State) CallFunction(fn *lua.LFunction, args ...lua.LValue) (lua.LValue, error) {
	var ret lua.LValue = lua.LNil
	err := s.run(func() error {
		if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	return ret, err
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// SetGlobal sets a global variable.
func (s *State) SetGlobal(name string, value lua.LValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, value)
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}

// run executes fn under the state lock with the execution timeout and
// panic recovery.
func (s *State) run(fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.executionTimeout)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
		if err != nil && ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("%w after %v", ErrExecutionTimeout, s.executionTimeout)
		}
	}()
	return fn()
}
