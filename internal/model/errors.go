package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind tags domain errors so callers can branch with errors.Is or
// KindOf instead of matching on messages.
type ErrorKind string

const (
	// KindAlreadySetup: setup was called while the application directory exists.
	KindAlreadySetup ErrorKind = "already-setup"

	// KindSetupFailure: a filesystem operation failed during setup.
	KindSetupFailure ErrorKind = "setup-failure"

	// KindCommonNetworkEnsure: the shared network could not be fetched or created.
	KindCommonNetworkEnsure ErrorKind = "common-network-ensure"

	// KindNotSetup: an operation needs an initialized installation.
	KindNotSetup ErrorKind = "not-setup"
)

// Error is a domain error carrying an ErrorKind.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Sentinels for errors.Is. Matching compares kinds only, so any *Error of
// the same kind (whatever its message) matches the sentinel.
var (
	ErrAlreadySetup        = &Error{Kind: KindAlreadySetup, Message: "app already setup"}
	ErrSetupFailure        = &Error{Kind: KindSetupFailure, Message: "setup failed"}
	ErrCommonNetworkEnsure = &Error{Kind: KindCommonNetworkEnsure, Message: "failed to ensure common network"}
	ErrNotSetup            = &Error{Kind: KindNotSetup, Message: "app is not setup"}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality with another *Error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NewError creates an Error of the given kind wrapping err.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// SetupError reports a filesystem failure during setup along with how far
// setup got. Directories listed in Created were made by the failed call;
// RolledBack tells whether they were removed again.
type SetupError struct {
	// Step names the operation that failed (e.g. "create data directory").
	Step string

	// Path is the filesystem path the failed step operated on.
	Path string

	// Created lists directories created before the failure, in order.
	Created []string

	// RolledBack is true when every directory in Created was removed.
	RolledBack bool

	// Err is the underlying I/O error.
	Err error
}

func (e *SetupError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "setup failed to %s %s: %v", e.Step, e.Path, e.Err)
	if len(e.Created) > 0 {
		if e.RolledBack {
			fmt.Fprintf(&b, " (rolled back %s)", strings.Join(e.Created, ", "))
		} else {
			fmt.Fprintf(&b, " (left behind %s)", strings.Join(e.Created, ", "))
		}
	}
	return b.String()
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// Is matches ErrSetupFailure.
func (e *SetupError) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == KindSetupFailure
}

// KindOf returns the ErrorKind carried anywhere in err's chain, or "" when
// err carries none.
func KindOf(err error) ErrorKind {
	var setupErr *SetupError
	if errors.As(err, &setupErr) {
		return KindSetupFailure
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}
