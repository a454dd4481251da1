// Package app wires the markpad editing session to its collaborators:
// persistence, export, clipboard and Lua formatter plugins.
package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrComponentNotAvailable indicates a collaborator is not configured.
	ErrComponentNotAvailable = errors.New("component not available")

	// ErrInitialization indicates an initialization failure.
	ErrInitialization = errors.New("initialization failed")
)

// Component names used in logs and ComponentError.
const (
	ComponentStorage   = "storage"
	ComponentExport    = "export"
	ComponentClipboard = "clipboard"
	ComponentPlugin    = "plugin"
	ComponentConfig    = "config"
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "open", "copy", "download")
	Target string // Target of the operation (e.g., storage key, filename)
	Err    error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{
		Op:     op,
		Target: target,
		Err:    err,
	}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ComponentError represents an error from a specific collaborator.
type ComponentError struct {
	Component string // Component name (e.g., "storage", "clipboard")
	Action    string // Action being performed
	Err       error  // Underlying error
}

// NewComponentError creates a new ComponentError.
func NewComponentError(component, action string, err error) *ComponentError {
	return &ComponentError{
		Component: component,
		Action:    action,
		Err:       err,
	}
}

func (e *ComponentError) Error() string {
	if e == nil {
		return ""
	}

	if e.Action != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Component, e.Action, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Component, e.Action)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Component, e.Err)
	}
	return e.Component
}

func (e *ComponentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// Is matches ErrInitialization as well as the wrapped error.
func (e *InitError) Is(target error) bool {
	return target == ErrInitialization
}
