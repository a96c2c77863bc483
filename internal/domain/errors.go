// Package domain holds the field value types shared by the contact directory,
// the search engine, the birthday scheduler and the note store, together with
// the error taxonomy every core operation reports through.
package domain

import (
	"errors"
	"fmt"
)

// Kind classifies core errors so callers can branch without inspecting message text.
type Kind string

const (
	// KindValidation reports a malformed field value rejected at construction time.
	KindValidation Kind = "validation"
	// KindNotFound reports an operation targeting a contact, phone, email or note that does not exist.
	KindNotFound Kind = "not_found"
	// KindConflict reports a rename onto an existing contact name.
	KindConflict Kind = "conflict"
	// KindInvalidArgument reports a bad call argument (negative horizon, missing query).
	KindInvalidArgument Kind = "invalid_argument"
	// KindUnknown is returned by KindOf for errors outside the taxonomy.
	KindUnknown Kind = "unknown"
)

// Error is the typed error returned by every core operation.
type Error struct {
	Kind    Kind
	Field   string // offending field or entity ("phone", "contact", "note"...)
	Message string
	Err     error
}

// Sentinels usable with errors.Is. Matching is done on Kind only.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
)

// Error returns the formatted error message.
func (e *Error) Error() string {
	if e == nil {
		return "domain: <nil>"
	}
	msg := string(e.Kind)
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a domain error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf extracts the Kind of err, or KindUnknown when err is not a domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// NewValidationError builds a KindValidation error for field.
func NewValidationError(field, message string) error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// NewNotFoundError builds a KindNotFound error for the entity identified by key.
func NewNotFoundError(entity, key string) error {
	return &Error{Kind: KindNotFound, Field: entity, Message: fmt.Sprintf("%q", key)}
}

// NewConflictError builds a KindConflict error for the entity identified by key.
func NewConflictError(entity, key string) error {
	return &Error{Kind: KindConflict, Field: entity, Message: fmt.Sprintf("%q already exists", key)}
}

// NewInvalidArgumentError builds a KindInvalidArgument error.
func NewInvalidArgumentError(arg, message string) error {
	return &Error{Kind: KindInvalidArgument, Field: arg, Message: message}
}
