package services

import (
	"errors"
	"net/http"
)

// ErrorKind classifies domain failures so controllers can pick a status
// class without inspecting message strings.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindConflict
	KindDuplicate
	KindForbidden
)

type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &DomainError{Kind: KindValidation, Message: message}
}

func NewNotFoundError(message string) error {
	return &DomainError{Kind: KindNotFound, Message: message}
}

func NewConflictError(message string) error {
	return &DomainError{Kind: KindConflict, Message: message}
}

func NewDuplicateError(message string) error {
	return &DomainError{Kind: KindDuplicate, Message: message}
}

func NewForbiddenError(message string) error {
	return &DomainError{Kind: KindForbidden, Message: message}
}

// StatusFor maps a domain error to its HTTP status. Schedule conflicts
// are client errors (the caller must pick another slot), duplicates get
// 409 so clients can tell them apart.
func StatusFor(err error) int {
	var de *DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}
	switch de.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicate:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Kind == kind
}
