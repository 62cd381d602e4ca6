package service

import (
	"fmt"
	"strings"

	"github.com/yndnr/stellar-save/internal/core/domain"
)

// Source identifies which file of a slot was read.
// Zero is the primary save, n > 0 is backup n.
type Source int

// SourcePrimary is the primary save file.
const SourcePrimary Source = 0

func (s Source) String() string {
	if s == SourcePrimary {
		return "primary"
	}
	return fmt.Sprintf("bak%d", int(s))
}

// IsBackup reports whether s is a backup file.
func (s Source) IsBackup() bool { return s > SourcePrimary }

// Attempt is one file tried during a load.
type Attempt struct {
	Source Source
	Path   string
	Err    error
}

// LoadError is returned when no file of a slot could be loaded. It lists
// every file tried and why it failed.
type LoadError struct {
	Slot     string
	Attempts []Attempt
}

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "load %q: all %d candidates failed", e.Slot, len(e.Attempts))
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "; %s (%s): %v", a.Source, a.Path, a.Err)
	}
	return b.String()
}

// Unwrap exposes every attempt's error to errors.Is and errors.As.
func (e *LoadError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

// NotFound reports whether the slot simply has no files.
func (e *LoadError) NotFound() bool {
	for _, a := range e.Attempts {
		if domain.GetErrorCode(a.Err) != domain.ErrSaveNotFound.Code {
			return false
		}
	}
	return true
}
