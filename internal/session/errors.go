package session

import "errors"

var (
	// ErrDuplicateSubject is returned when a subject name is already taken.
	ErrDuplicateSubject = errors.New("subject already exists")
	// ErrSubjectNotFound is returned for an unknown subject name.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrClosed is returned once Run has returned.
	ErrClosed = errors.New("session closed")
	// ErrNoFactory is returned when specs are applied without a factory.
	ErrNoFactory = errors.New("session has no stream object factory")
)
