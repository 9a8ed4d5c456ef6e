// Package soaerrors provides structured error handling for soa with error
// categorization, key-value details and stack capture.
//
// # Overview
//
// Every failure raised by the soa packages is an *Error carrying:
//   - an ErrorType describing the failure family (arity, column, index, ...)
//   - a human-readable message naming the operation
//   - the cause, usually a package sentinel such as soa.ErrArityMismatch
//   - details such as the expected and actual arity or the offending index
//   - the call stack at the point of creation
//
// # Basic Usage
//
//	var ErrArityMismatch = errors.New("arity mismatch")
//
//	return soaerrors.Wrap(ErrArityMismatch, soaerrors.ErrorTypeArity, "write").
//	    WithDetail("expected", 2).
//	    WithDetail("got", 3)
//
// Callers match on the sentinel with errors.Is or on the family with IsType.
//
// # Thread Safety
//
// Error instances are not safe for concurrent modification. Finish adding
// details before sharing the error across goroutines.
package soaerrors

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// ErrorType represents the category of error.
type ErrorType string

const (
	// ErrorTypeInternal represents broken internal invariants
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents invalid arguments
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeArity represents a row with the wrong number of values
	ErrorTypeArity ErrorType = "arity"
	// ErrorTypeColumn represents unknown, duplicate or malformed column names
	ErrorTypeColumn ErrorType = "column"
	// ErrorTypeIndex represents row indices outside the valid range
	ErrorTypeIndex ErrorType = "index"
	// ErrorTypeComparator represents missing or unusable sort comparators
	ErrorTypeComparator ErrorType = "comparator"
	// ErrorTypeRecord represents records that do not fit the store's columns
	ErrorTypeRecord ErrorType = "record"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeFile represents file and codec errors
	ErrorTypeFile ErrorType = "file"
)

// Error represents a structured error with context.
//
// Fields:
//   - Type: categorizes the error
//   - Message: the operation that failed
//   - Cause: the underlying error, typically a sentinel
//   - Details: key-value pairs describing the failure
//   - Stack: call stack at the point of error creation
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack.
type StackFrame struct {
	Function string // Fully qualified function name
	File     string // Source file path
	Line     int    // Line number in source file
}

// Error implements the error interface. Details are rendered in key order
// so messages are deterministic.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Type))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Details[k])
		}
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error. It can be chained.
//
// Example:
//
//	err := soaerrors.New(soaerrors.ErrorTypeIndex, "read").
//	    WithDetail("index", 7).
//	    WithDetail("len", 3)
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Detail returns the detail stored under key.
func (e *Error) Detail(key string) (interface{}, bool) {
	v, ok := e.Details[key]
	return v, ok
}

// New creates a new error with the given type and message, capturing the
// call stack at the point of creation.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context, preserving the
// original error as the cause. If err is already an *Error its stack is
// reused. Returns nil if err is nil.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if any error in err's chain is an *Error of the given type.
func IsType(err error, errType ErrorType) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Type == errType {
			return true
		}
		err = e.Cause
	}
	return false
}

// DetailOf returns the first detail named key found in err's chain.
func DetailOf(err error, key string) (interface{}, bool) {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return nil, false
		}
		if v, ok := e.Details[key]; ok {
			return v, true
		}
		err = e.Cause
	}
	return nil, false
}

func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return nil
	}

	frames := make([]StackFrame, 0, n)
	iter := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := iter.Next()
		frames = append(frames, StackFrame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})
		if !more {
			break
		}
	}
	return frames
}
