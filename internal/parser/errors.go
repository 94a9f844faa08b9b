package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRegistrationNumber is the only structural per-entity failure.
	ErrMissingRegistrationNumber = errors.New("entity has no registration number")
	ErrNoDocuments               = errors.New("no suitable XML files")
	ErrNoRootElement             = errors.New("document has no root element")
)

// EntityError reports a skipped entity inside a document.
type EntityError struct {
	Index int
	Err   error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("entity #%d: %v", e.Index, e.Err)
}

func (e *EntityError) Unwrap() error { return e.Err }

// DocumentError aborts a whole document: the file could not be opened or
// is not well-formed XML.
type DocumentError struct {
	Document string
	Err      error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s: %v", e.Document, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }
