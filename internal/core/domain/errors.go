// Package domain defines the core domain models for the save engine.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
// Codes are stable identifiers: callers branch on them, never on messages.
type DomainError struct {
	Code    string // Error code (e.g., "SAVE-FMT-4003")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
// The cause, when present, is appended so a single line explains the failure.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true // Only check if it's a DomainError
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrDirectory indicates the save directory cannot be created or accessed.
	// Never retried against backups.
	ErrDirectory = NewDomainError("SAVE-SYS-5001", "save directory unavailable")

	// ErrIO indicates an underlying read, write, rename or copy failure.
	ErrIO = NewDomainError("SAVE-SYS-5002", "i/o error")
)

// ============================================================================
// Format Errors (FMT)
// ============================================================================

var (
	// ErrFormatNotRecognized indicates bad magic bytes, an unsupported or
	// future format version, or a header that cannot describe a valid file.
	ErrFormatNotRecognized = NewDomainError("SAVE-FMT-4001", "file format not recognized")

	// ErrIndexCorrupt indicates the chunk index of a recognized file is
	// structurally invalid or disagrees with the chunk frames.
	ErrIndexCorrupt = NewDomainError("SAVE-FMT-4002", "chunk index corrupt")

	// ErrChunkCorrupt indicates a chunk failed checksum verification or
	// could not be decoded.
	ErrChunkCorrupt = NewDomainError("SAVE-FMT-4003", "chunk corrupt")

	// ErrMissingRequiredChunk indicates the Metadata or GameState chunk is absent.
	ErrMissingRequiredChunk = NewDomainError("SAVE-FMT-4004", "required chunk missing")

	// ErrCompressionUnsupported indicates a compression kind other than none
	// was requested. Compression is declared but not implemented.
	ErrCompressionUnsupported = NewDomainError("SAVE-FMT-4005", "compression not supported")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrSlotNameInvalid indicates a slot name that is empty, too long or
	// contains path-unsafe characters. Rejected before any I/O.
	ErrSlotNameInvalid = NewDomainError("SAVE-ARG-4001", "invalid slot name")

	// ErrSnapshotInvalid indicates a snapshot that violates its invariants.
	// Rejected before any I/O.
	ErrSnapshotInvalid = NewDomainError("SAVE-ARG-4002", "invalid snapshot")
)

// ============================================================================
// Slot Errors (SLOT)
// ============================================================================

var (
	// ErrSaveNotFound indicates no file exists for the slot.
	ErrSaveNotFound = NewDomainError("SAVE-SLOT-4040", "save not found")

	// ErrBackupNotFound indicates the requested backup index does not exist.
	ErrBackupNotFound = NewDomainError("SAVE-SLOT-4041", "backup not found")
)

// IsRecoverable reports whether a load failure for one file should be retried
// against the next older backup.
func IsRecoverable(err error) bool {
	switch GetErrorCode(err) {
	case ErrFormatNotRecognized.Code,
		ErrIndexCorrupt.Code,
		ErrChunkCorrupt.Code,
		ErrMissingRequiredChunk.Code,
		ErrSaveNotFound.Code,
		ErrIO.Code:
		return true
	default:
		return false
	}
}
