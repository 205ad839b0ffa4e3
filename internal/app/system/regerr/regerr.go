// Package regerr defines the failure kinds reported by the group/meeting registry.
//
// Every failed registry operation returns an *Error carrying exactly one Kind.
// Callers match with errors.Is against the package sentinels:
//
//	if errors.Is(err, regerr.ErrGroupNotEmpty) { ... }
package regerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a machine-readable failure category.
type Kind string

const (
	Unauthorized    Kind = "UNAUTHORIZED"
	GroupExists     Kind = "GROUP_EXISTS"
	InvalidGroup    Kind = "INVALID_GROUP"
	GroupNotEmpty   Kind = "GROUP_NOT_EMPTY"
	InvalidMeeting  Kind = "INVALID_MEETING"
	IndexOutOfRange Kind = "INDEX_OUT_OF_RANGE"
)

// Sentinels for errors.Is. They compare by Kind only.
var (
	ErrUnauthorized    = &Error{Kind: Unauthorized}
	ErrGroupExists     = &Error{Kind: GroupExists}
	ErrInvalidGroup    = &Error{Kind: InvalidGroup}
	ErrGroupNotEmpty   = &Error{Kind: GroupNotEmpty}
	ErrInvalidMeeting  = &Error{Kind: InvalidMeeting}
	ErrIndexOutOfRange = &Error{Kind: IndexOutOfRange}
)

// ErrCorruptSnapshot is returned when a snapshot cannot be restored because it
// violates a registry invariant.
var ErrCorruptSnapshot = errors.New("registry snapshot is inconsistent")

// Error is a registry failure.
type Error struct {
	Kind    Kind   // failure category
	Op      string // operation that failed, e.g. "addGroup"
	Subject string // offending group name, meeting id or caller
}

// New builds an Error for op about subject.
func New(kind Kind, op, subject string) *Error {
	return &Error{Kind: kind, Op: op, Subject: subject}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.message()
	if e.Op == "" {
		return msg
	}
	if e.Subject == "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return fmt.Sprintf("%s %q: %s", e.Op, e.Subject, msg)
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// KindOf returns the Kind carried by err, or "" if err is not a registry error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func (k Kind) message() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case GroupExists:
		return "group exists"
	case InvalidGroup:
		return "invalid group"
	case GroupNotEmpty:
		return "group not empty"
	case InvalidMeeting:
		return "invalid meeting"
	case IndexOutOfRange:
		return "index out of range"
	default:
		return "registry error"
	}
}

// HTTPStatus maps a Kind to the status code the HTTP API responds with.
func (k Kind) HTTPStatus() int {
	switch k {
	case Unauthorized:
		return http.StatusForbidden
	case GroupExists, GroupNotEmpty:
		return http.StatusConflict
	case InvalidGroup, InvalidMeeting, IndexOutOfRange:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
