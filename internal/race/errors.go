package race

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes timing-core errors.
type ErrorCode string

const (
	// ErrCodeValidation indicates malformed or missing required input
	// (empty bib where one is required, negative penalty). Raised before
	// any mutation.
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeFormat indicates a malformed time string.
	ErrCodeFormat ErrorCode = "FORMAT"

	// ErrCodeUnknownBib indicates the referenced bib matches no roster
	// entry. Raised before any mutation; no record is created or updated.
	ErrCodeUnknownBib ErrorCode = "UNKNOWN_BIB"

	// ErrCodeNotFound indicates the referenced course or result does not
	// exist in storage.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeStorage indicates the collection store itself failed. Always
	// surfaced to the caller; the core never retries.
	ErrCodeStorage ErrorCode = "STORAGE"
)

// Error is a structured timing-core error.
//
// CourseID and Bib are filled when known so the presentation layer can
// build its transient notification without parsing the message.
type Error struct {
	Code     ErrorCode
	Message  string
	CourseID string
	Bib      string
	Err      error // wrapped cause, set for storage errors
}

func (e *Error) Error() string {
	if e.Bib != "" {
		return fmt.Sprintf("%s: %s (bib=%s)", e.Code, e.Message, e.Bib)
	}
	if e.CourseID != "" {
		return fmt.Sprintf("%s: %s (course=%s)", e.Code, e.Message, e.CourseID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// IsUnknownBib reports whether err is an unknown-bib error.
// Uses errors.As to handle wrapped errors.
func IsUnknownBib(err error) bool { return hasCode(err, ErrCodeUnknownBib) }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsFormat reports whether err is a time-format error.
func IsFormat(err error) bool { return hasCode(err, ErrCodeFormat) }

func hasCode(err error, code ErrorCode) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

func newUnknownBib(courseID, bib string) *Error {
	return &Error{
		Code:     ErrCodeUnknownBib,
		Message:  "bib matches no roster entry",
		CourseID: courseID,
		Bib:      bib,
	}
}

func newValidation(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

func newNotFound(what, id string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s %q not found", what, id)}
}

func newStorage(op string, err error) *Error {
	return &Error{Code: ErrCodeStorage, Message: op, Err: err}
}

// PartialBatchError reports that one or more per-record rank updates
// failed after others succeeded. Nothing is rolled back; re-running the
// classification repairs the inconsistency.
type PartialBatchError struct {
	CourseID  string
	FailedIDs []string
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("rank update failed for %d result(s) of course %s: %s",
		len(e.FailedIDs), e.CourseID, strings.Join(e.FailedIDs, ", "))
}
