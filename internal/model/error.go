package model

import (
	"errors"
	"fmt"
)

// LocalErrorKind classifies failures of the local store.
type LocalErrorKind string

const (
	LocalDiskFull LocalErrorKind = "DISK_FULL"
	LocalNotFound LocalErrorKind = "NOT_FOUND"
	LocalUnknown  LocalErrorKind = "UNKNOWN"
)

// LocalError is a classified local-store failure.
type LocalError struct {
	Kind LocalErrorKind
	Op   string
	Err  error
}

func (e *LocalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("local store %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("local store %s: %s", e.Op, e.Kind)
}

// Unwrap returns the underlying cause.
func (e *LocalError) Unwrap() error { return e.Err }

// NewLocalError creates a classified local-store error.
func NewLocalError(kind LocalErrorKind, op string, err error) *LocalError {
	return &LocalError{Kind: kind, Op: op, Err: err}
}

// IsLocalKind reports whether err is a LocalError of the given kind.
func IsLocalKind(err error, kind LocalErrorKind) bool {
	var le *LocalError
	return errors.As(err, &le) && le.Kind == kind
}

// RemoteErrorKind classifies failures of the remote store.
type RemoteErrorKind string

const (
	RemoteBadRequest      RemoteErrorKind = "BAD_REQUEST"
	RemoteUnauthorized    RemoteErrorKind = "UNAUTHORIZED"
	RemoteForbidden       RemoteErrorKind = "FORBIDDEN"
	RemoteNotFound        RemoteErrorKind = "NOT_FOUND"
	RemoteTimeout         RemoteErrorKind = "TIMEOUT"
	RemoteConflict        RemoteErrorKind = "CONFLICT"
	RemoteTooManyRequests RemoteErrorKind = "TOO_MANY_REQUESTS"
	RemoteNoInternet      RemoteErrorKind = "NO_INTERNET"
	RemoteServerError     RemoteErrorKind = "SERVER_ERROR"
	RemoteSerialization   RemoteErrorKind = "SERIALIZATION"
	RemoteUnknown         RemoteErrorKind = "UNKNOWN"
)

// RemoteError is a classified remote-store failure. Remote operations never
// retry internally; retry policy belongs to the caller.
type RemoteError struct {
	Kind RemoteErrorKind
	Op   string
	Err  error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote store %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("remote store %s: %s", e.Op, e.Kind)
}

// Unwrap returns the underlying cause.
func (e *RemoteError) Unwrap() error { return e.Err }

// NewRemoteError creates a classified remote-store error.
func NewRemoteError(kind RemoteErrorKind, op string, err error) *RemoteError {
	return &RemoteError{Kind: kind, Op: op, Err: err}
}

// IsRemoteKind reports whether err is a RemoteError of the given kind.
func IsRemoteKind(err error, kind RemoteErrorKind) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Kind == kind
}

// RemoteKindOf extracts the remote error kind, or RemoteUnknown when err is
// not a RemoteError.
func RemoteKindOf(err error) RemoteErrorKind {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return RemoteUnknown
}
