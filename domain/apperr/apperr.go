// Package apperr defines the tagged error shared by every rule and
// service in the application: a machine-checkable kind, a human-readable
// message, and a suggested HTTP status. Service calls through the mono
// container flatten errors to strings, so the tag is encoded into the
// error text and parsed back at the HTTP boundary.
package apperr

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Kind classifies an application failure.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindPersistence  Kind = "persistence"
)

// Error is a tagged application error.
type Error struct {
	Kind    Kind
	Message string
	Status  int
}

// Error encodes the tag so it survives serialization across the
// service container, e.g. "not_found(404): Task not found".
func (e *Error) Error() string {
	return string(e.Kind) + "(" + strconv.Itoa(e.Status) + "): " + e.Message
}

// NotFound reports a missing record.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message, Status: http.StatusNotFound}
}

// Unauthenticated reports a failed credential check.
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, Status: http.StatusUnauthorized}
}

// Forbidden reports a denied permission check.
func Forbidden(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, Status: http.StatusForbidden}
}

// Validation reports a business-rule or input violation.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message, Status: http.StatusBadRequest}
}

// Conflict reports a duplicate record. Duplicates map to 400 rather
// than 409 at the HTTP boundary.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message, Status: http.StatusBadRequest}
}

// Persistence reports a store failure after validation passed.
func Persistence(message string) *Error {
	return &Error{Kind: KindPersistence, Message: message, Status: http.StatusInternalServerError}
}

// From extracts a tagged error from err, unwrapping if needed. If err
// is a flattened service error, the tag is parsed back out of the
// message. Returns nil when err carries no recognizable tag.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return parse(err.Error())
}

var kinds = []Kind{KindNotFound, KindUnauthorized, KindValidation, KindConflict, KindPersistence}

// parse recovers a tagged error from its string form. Service errors
// may arrive wrapped, so the tag is searched anywhere in the text.
func parse(msg string) *Error {
	for _, k := range kinds {
		marker := string(k) + "("
		idx := strings.Index(msg, marker)
		if idx < 0 {
			continue
		}
		rest := msg[idx+len(marker):]
		end := strings.Index(rest, "): ")
		if end < 0 {
			continue
		}
		status, err := strconv.Atoi(rest[:end])
		if err != nil {
			continue
		}
		return &Error{Kind: k, Message: rest[end+3:], Status: status}
	}
	return nil
}
