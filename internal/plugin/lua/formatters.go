package lua

import (
	"errors"
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/markpad/internal/engine/format"
)

// FormatsGlobal is the global table scripts fill with formatters.
const FormatsGlobal = "formats"

// Registry is the subset of format.Engine the loader needs.
type Registry interface {
	Register(kind format.Kind, fn format.Transform) error
	Unregister(kind format.Kind)
}

// Formatters owns the Lua state behind a set of registered kinds.
type Formatters struct {
	state    *State
	registry Registry
	kinds    []format.Kind
	onError  func(kind format.Kind, err error)
}

// FormattersOption configures LoadFormatters.
type FormattersOption func(*Formatters)

// WithErrorHandler sets the handler called when a formatter fails.
func WithErrorHandler(fn func(kind format.Kind, err error)) FormattersOption {
	return func(f *Formatters) {
		f.onError = fn
	}
}

// LoadFormatters runs each script and registers its formatters with
// registry. Scripts that fail to load are skipped; their errors are
// joined into the returned error alongside the loaded Formatters.
func LoadFormatters(registry Registry, scripts []string, state *State, opts ...FormattersOption) (*Formatters, error) {
	if state == nil {
		state = NewState()
	}
	f := &Formatters{state: state, registry: registry}
	for _, opt := range opts {
		opt(f)
	}

	var errs []error
	for _, script := range scripts {
		state.SetGlobal(FormatsGlobal, lua.LNil)
		if err := state.DoFile(script); err != nil {
			errs = append(errs, fmt.Errorf("loading %s: %w", script, err))
			continue
		}
		if err := f.registerFormats(script); err != nil {
			errs = append(errs, err)
		}
	}
	return f, errors.Join(errs...)
}

// LoadFormattersString registers the formatters defined by a Lua chunk.
func LoadFormattersString(registry Registry, code string, state *State, opts ...FormattersOption) (*Formatters, error) {
	if state == nil {
		state = NewState()
	}
	f := &Formatters{state: state, registry: registry}
	for _, opt := range opts {
		opt(f)
	}

	state.SetGlobal(FormatsGlobal, lua.LNil)
	if err := state.DoString(code); err != nil {
		return f, fmt.Errorf("loading chunk: %w", err)
	}
	return f, f.registerFormats("chunk")
}

// registerFormats registers every function in the formats table.
func (f *Formatters) registerFormats(source string) error {
	tbl, ok := f.state.GetGlobal(FormatsGlobal).(*lua.LTable)
	if !ok {
		return fmt.Errorf("%s: no %s table", source, FormatsGlobal)
	}

	type entry struct {
		kind format.Kind
		fn   *lua.LFunction
	}
	var entries []entry
	var errs []error
	tbl.ForEach(func(k, v lua.LValue) {
		name, ok := k.(lua.LString)
		if !ok {
			return
		}
		fn, ok := v.(*lua.LFunction)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %s is %s, not a function", source, name, v.Type()))
			return
		}
		entries = append(entries, entry{format.ParseKind(string(name)), fn})
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].kind < entries[j].kind })

	for _, e := range entries {
		if err := f.registry.Register(e.kind, f.transform(e.kind, e.fn)); err != nil {
			errs = append(errs, fmt.Errorf("%s: registering %s: %w", source, e.kind, err))
			continue
		}
		f.kinds = append(f.kinds, e.kind)
	}
	return errors.Join(errs...)
}

// transform adapts a Lua function to a format.Transform.
func (f *Formatters) transform(kind format.Kind, fn *lua.LFunction) format.Transform {
	return func(selected string) string {
		ret, err := f.state.CallFunction(fn, lua.LString(selected))
		if err == nil {
			if s, ok := ret.(lua.LString); ok {
				return string(s)
			}
			err = fmt.Errorf("%w (got %s)", ErrNotString, ret.Type())
		}
		if f.onError != nil {
			f.onError(kind, err)
		}
		return selected
	}
}

// Kinds returns the registered kinds in load order.
func (f *Formatters) Kinds() []format.Kind {
	out := make([]format.Kind, len(f.kinds))
	copy(out, f.kinds)
	return out
}

// Close unregisters every kind and closes the Lua state.
func (f *Formatters) Close() error {
	for _, k := range f.kinds {
		f.registry.Unregister(k)
	}
	f.kinds = nil
	return f.state.Close()
}
