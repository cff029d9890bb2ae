// Package errors provides the closed set of failure kinds for chapter extraction and commit.
//
// Usage:
//
//	// In the toolchain - return typed errors
//	if info.Size() == 0 {
//	    return errors.NoChapters(container)
//	}
//
//	// In callers - check with errors.Is
//	if errors.Is(err, errors.ErrBinaryNotFound) {
//	    log.Error("install mkvtoolnix", "error", err)
//	}
//
//	// Or use the Code directly for switch statements
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeExtractionFailed:
//	        ...
//	    case errors.CodeCommitFailed:
//	        ...
//	    }
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
	New    = errors.New
)

// Code represents a machine-readable error code.
type Code string

// Error codes. The set is closed: every failure surfaced by the toolchain carries one of these.
const (
	CodeBinaryNotFound      Code = "BINARY_NOT_FOUND"
	CodeProcessLaunchFailed Code = "PROCESS_LAUNCH_FAILED"
	CodeExtractionFailed    Code = "EXTRACTION_FAILED"
	CodeMalformedInput      Code = "MALFORMED_INPUT"
	CodeCommitFailed        Code = "COMMIT_FAILED"
	CodeValidation          Code = "VALIDATION"
	CodeInternal            Code = "INTERNAL"
)

// ExitCode returns the process exit status the CLI uses for an error code.
func (c Code) ExitCode() int {
	switch c {
	case CodeValidation:
		return 2
	case CodeBinaryNotFound:
		return 3
	case CodeProcessLaunchFailed:
		return 4
	case CodeExtractionFailed:
		return 5
	case CodeMalformedInput:
		return 6
	case CodeCommitFailed:
		return 7
	default:
		return 1
	}
}

// ExtractionReason distinguishes the two ways extraction can fail.
type ExtractionReason string

const (
	// ReasonToolFailed means the extraction tool exited non-zero.
	ReasonToolFailed ExtractionReason = "tool_failed"
	// ReasonNoChapters means the tool succeeded but wrote nothing: the container has no chapters.
	ReasonNoChapters ExtractionReason = "no_chapters"
)

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code             `json:"code"`
	Message string           `json:"message"`
	Reason  ExtractionReason `json:"reason,omitempty"`
	Details any              `json:"details,omitempty"`
	cause   error            // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code, and the same Reason when target sets one.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if e.Code != t.Code {
		return false
	}
	return t.Reason == "" || e.Reason == t.Reason
}

// ExitCode returns the process exit status for this error.
func (e *Error) ExitCode() int {
	return e.Code.ExitCode()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Reason:  e.Reason,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Reason:  e.Reason,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrBinaryNotFound      = &Error{Code: CodeBinaryNotFound, Message: "binary not found"}
	ErrProcessLaunchFailed = &Error{Code: CodeProcessLaunchFailed, Message: "process launch failed"}
	ErrExtractionFailed    = &Error{Code: CodeExtractionFailed, Message: "extraction failed"}
	ErrToolFailed          = &Error{Code: CodeExtractionFailed, Reason: ReasonToolFailed, Message: "extraction tool failed"}
	ErrNoChapters          = &Error{Code: CodeExtractionFailed, Reason: ReasonNoChapters, Message: "no chapters"}
	ErrMalformedInput      = &Error{Code: CodeMalformedInput, Message: "malformed input"}
	ErrCommitFailed        = &Error{Code: CodeCommitFailed, Message: "commit failed"}
	ErrValidation          = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal            = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// BinaryNotFound creates a binary not found error for the named tool.
func BinaryNotFound(name, location string) *Error {
	return &Error{Code: CodeBinaryNotFound, Message: fmt.Sprintf("%s not found in %s", name, location)}
}

// ProcessLaunchFailed creates a launch failure for the binary at path.
func ProcessLaunchFailed(path string, cause error) *Error {
	return &Error{Code: CodeProcessLaunchFailed, Message: "failed to launch " + path, cause: cause}
}

// ToolFailed creates an extraction failure caused by a non-zero exit of the extraction tool.
func ToolFailed(container string, cause error) *Error {
	return &Error{
		Code:    CodeExtractionFailed,
		Reason:  ReasonToolFailed,
		Message: "failed to extract chapters from " + container,
		cause:   cause,
	}
}

// NoChapters creates an extraction failure for a container without chapters.
func NoChapters(container string) *Error {
	return &Error{
		Code:    CodeExtractionFailed,
		Reason:  ReasonNoChapters,
		Message: "chapters not found in " + container,
	}
}

// MalformedInput creates a malformed input error.
func MalformedInput(msg string) *Error {
	return &Error{Code: CodeMalformedInput, Message: msg}
}

// MalformedInputf creates a malformed input error with formatted message.
func MalformedInputf(format string, args ...any) *Error {
	return &Error{Code: CodeMalformedInput, Message: fmt.Sprintf(format, args...)}
}

// CommitFailed creates a commit failure for the container.
func CommitFailed(container string, cause error) *Error {
	return &Error{Code: CodeCommitFailed, Message: "failed to apply chapters to " + container, cause: cause}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// CodeOf returns the code carried by err, or CodeInternal when err is not a domain error.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// IsNoChapters reports whether err is the expected "container has no chapters" outcome.
func IsNoChapters(err error) bool {
	return errors.Is(err, ErrNoChapters)
}
