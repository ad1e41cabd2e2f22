package amalgam

import (
	"errors"
	"fmt"
	"strings"
)

// Kinds of engine errors, matched with errors.Is. Anything else returned by
// the engine is an I/O (or context) failure.
var (
	ErrDirectoryNotFound       = errors.New("directory not found")
	ErrNoEntryPoint            = errors.New("no entry point")
	ErrAmbiguousEntryPoint     = errors.New("ambiguous entry point")
	ErrCyclicIncludeDependency = errors.New("cyclic include dependency")
	ErrInvalidArgument         = errors.New("invalid argument")
)

// Error is the engine error type: a Kind plus a human readable message and,
// where relevant, the offending paths (entry point candidates or cycle).
type Error struct {
	Kind  error
	Msg   string
	Paths []string
	Err   error // underlying cause, if any
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsEngineError tells structural project errors apart from unexpected faults.
func IsEngineError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

func directoryNotFound(kind, path string) *Error {
	return &Error{
		Kind:  ErrDirectoryNotFound,
		Msg:   fmt.Sprintf("%s directory (%q) not found", kind, path),
		Paths: []string{path},
	}
}

func ambiguousEntryPoint(paths []string) *Error {
	return &Error{
		Kind:  ErrAmbiguousEntryPoint,
		Msg:   "Multiple main functions found at the following file paths:\n" + strings.Join(paths, "\n"),
		Paths: paths,
	}
}
