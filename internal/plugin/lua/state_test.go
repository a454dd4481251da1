package lua

import (
	"errors"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"
)

func TestNewStateSafeLibraries(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, name := range []string{"string", "table", "math"} {
		if s.GetGlobal(name) == lua.LNil {
			t.Errorf("global %q missing", name)
		}
	}
	for _, name := range []string{"io", "os", "debug", "package", "dofile", "loadfile", "require"} {
		if s.GetGlobal(name) != lua.LNil {
			t.Errorf("global %q is available, want nil", name)
		}
	}
}

func TestDoString(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`answer = string.rep("a", 3)`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if got := s.GetGlobal("answer"); got.String() != "aaa" {
		t.Errorf("answer = %q, want %q", got.String(), "aaa")
	}
	if err := s.DoString(`os.exit(1)`); err == nil {
		t.Error("DoString(os.exit) error = nil, want error")
	}
	if err := s.DoString(`this is not lua`); err == nil {
		t.Error("DoString(syntax error) error = nil")
	}
}

func TestExecutionTimeout(t *testing.T) {
	s := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer s.Close()

	err := s.DoString(`while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("DoString(infinite loop) error = %v, want ErrExecutionTimeout", err)
	}

	// The state stays usable after a timeout.
	if err := s.DoString(`x = 1`); err != nil {
		t.Errorf("DoString() after timeout error = %v", err)
	}
}

func TestPrint(t *testing.T) {
	var lines []string
	s := NewState(WithPrint(func(line string) { lines = append(lines, line) }))
	defer s.Close()

	if err := s.DoString(`print("a", 1, true)`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if len(lines) != 1 || lines[0] != "a\t1\ttrue" {
		t.Errorf("print output = %q, want [\"a\\t1\\ttrue\"]", lines)
	}
}

func TestCallFunction(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`function twice(x) return x .. x end`); err != nil {
		t.Fatal(err)
	}
	fn := s.GetGlobal("twice").(*lua.LFunction)

	got, err := s.CallFunction(fn, lua.LString("ab"))
	if err != nil {
		t.Fatalf("CallFunction() error = %v", err)
	}
	if got.String() != "abab" {
		t.Errorf("CallFunction() = %q, want %q", got.String(), "abab")
	}
}

func TestClosedState(t *testing.T) {
	s := NewState()
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !s.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := s.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() error = %v, want ErrStateClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
