package maperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrExtend indicates a $extend resolution failure.
	ErrExtend = errors.New("extend error")

	// ErrExtendCycle indicates a cyclic $extend chain was detected.
	ErrExtendCycle = errors.New("extend cycle")

	// ErrParse indicates a mapping document parsing failure.
	ErrParse = errors.New("parse error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ExtendError represents a failure to flatten a mapping's $extend chain.
// This includes unknown parent mappings and inheritance cycles.
type ExtendError struct {
	// Mapping is the $id of the mapping being flattened
	Mapping string
	// Parent is the $extend target that failed to resolve
	Parent string
	// IsCycle is true if this error is due to a cyclic $extend chain
	IsCycle bool
	// Message provides additional context about the failure
	Message string
}

// Error returns a human-readable error message.
func (e *ExtendError) Error() string {
	msg := "extend error"
	if e.IsCycle {
		msg = "extend cycle"
	}
	if e.Mapping != "" {
		msg += " in mapping " + e.Mapping
	}
	if e.Parent != "" {
		msg += ": cannot extend " + e.Parent
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
// Matches ErrExtend, and also ErrExtendCycle when the cycle flag is set.
func (e *ExtendError) Is(target error) bool {
	if target == ErrExtend {
		return true
	}
	return target == ErrExtendCycle && e.IsCycle
}

// ParseError represents a failure to parse a mapping document.
// This includes YAML/JSON deserialization errors and structural issues.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ConfigError represents invalid configuration or input options.
type ConfigError struct {
	// Option is the name of the invalid option
	Option string
	// Value is the invalid value provided
	Value any
	// Message describes why the configuration is invalid
	Message string
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += ": " + e.Option
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
