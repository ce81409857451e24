package engine

import (
	"errors"
	"fmt"
)

// ErrNoProject is returned by operations that need an active project.
var ErrNoProject = errors.New("no active project")

// CommandError reports why an encoded command could not be decoded.
//
// Decoding errors are the only command errors: once a Command value exists
// the engine is total over it and never fails.
type CommandError struct {
	// Code identifies the error category.
	Code CommandErrorCode

	// Kind is the command kind being decoded (may be empty).
	Kind string

	// Arg names the offending argument (may be empty).
	Arg string

	// Message is a human-readable description.
	Message string
}

// CommandErrorCode categorizes command decoding errors.
type CommandErrorCode string

const (
	// ErrCodeUnknownKind indicates the command kind is not recognised.
	ErrCodeUnknownKind CommandErrorCode = "UNKNOWN_KIND"

	// ErrCodeMissingArg indicates a required argument is absent.
	ErrCodeMissingArg CommandErrorCode = "MISSING_ARG"

	// ErrCodeInvalidArg indicates an argument has the wrong type or range.
	ErrCodeInvalidArg CommandErrorCode = "INVALID_ARG"
)

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Arg != "" {
		return fmt.Sprintf("%s: %s (kind=%s, arg=%s)", e.Code, e.Message, e.Kind, e.Arg)
	}
	if e.Kind != "" {
		return fmt.Sprintf("%s: %s (kind=%s)", e.Code, e.Message, e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCommandError returns true if err is (or wraps) a CommandError.
func IsCommandError(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce)
}

func missingArg(kind Kind, arg string) *CommandError {
	return &CommandError{
		Code:    ErrCodeMissingArg,
		Kind:    string(kind),
		Arg:     arg,
		Message: "required argument missing",
	}
}

func invalidArg(kind Kind, arg, format string, args ...any) *CommandError {
	return &CommandError{
		Code:    ErrCodeInvalidArg,
		Kind:    string(kind),
		Arg:     arg,
		Message: fmt.Sprintf(format, args...),
	}
}
