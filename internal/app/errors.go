package app

import (
	"errors"
	"strings"
)

// ErrorClass groups plan errors by how callers must react to them.
type ErrorClass string

const (
	// ClassLoad: a source was unreachable or answered with an error payload.
	// The previously loaded tree stays in place.
	ClassLoad ErrorClass = "load"
	// ClassValidation: the request was rejected locally and never sent.
	ClassValidation ErrorClass = "validation"
	// ClassGate: the operation is not allowed for this chapter or session.
	ClassGate ErrorClass = "gate"
	// ClassWrite: the plan writer failed or answered with a malformed result.
	// Nothing was applied locally; the form stays open.
	ClassWrite ErrorClass = "write"
)

type PlanErrorCode string

const (
	ErrCodeLoadFailed        PlanErrorCode = "LOAD_FAILED"
	ErrCodeNotFound          PlanErrorCode = "NOT_FOUND"
	ErrCodeMissingFields     PlanErrorCode = "MISSING_FIELDS"
	ErrCodeNoPeriod          PlanErrorCode = "NO_PERIOD_SELECTED"
	ErrCodeSlotUnavailable   PlanErrorCode = "SLOT_UNAVAILABLE"
	ErrCodeSubmissionDay     PlanErrorCode = "SUBMISSION_DAY_RESTRICTED"
	ErrCodeNotEnoughPeriods  PlanErrorCode = "NOT_ENOUGH_PERIODS"
	ErrCodeIncompleteEntries PlanErrorCode = "INCOMPLETE_ENTRIES"
	ErrCodeChapterLocked     PlanErrorCode = "CHAPTER_LOCKED"
	ErrCodeBulkOnly          PlanErrorCode = "BULK_ONLY"
	ErrCodeNotPreparable     PlanErrorCode = "NOT_PREPARABLE"
	ErrCodeWriteFailed       PlanErrorCode = "WRITE_FAILED"
	ErrCodeWriteMalformed    PlanErrorCode = "WRITE_MALFORMED"
)

// FieldError points at one invalid input field.
type FieldError struct {
	Field   string
	Message string
}

// PlanError is the error type surfaced by every preparation and load use case.
type PlanError struct {
	Class   ErrorClass
	Code    PlanErrorCode
	Message string
	Fields  []FieldError
	Err     error
}

func (e *PlanError) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+" "+f.Message)
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PlanError) Unwrap() error { return e.Err }

func LoadError(code PlanErrorCode, msg string, err error) *PlanError {
	return &PlanError{Class: ClassLoad, Code: code, Message: msg, Err: err}
}

func ValidationError(code PlanErrorCode, msg string, fields ...FieldError) *PlanError {
	return &PlanError{Class: ClassValidation, Code: code, Message: msg, Fields: fields}
}

func GateError(code PlanErrorCode, msg string) *PlanError {
	return &PlanError{Class: ClassGate, Code: code, Message: msg}
}

func WriteError(code PlanErrorCode, msg string, err error) *PlanError {
	return &PlanError{Class: ClassWrite, Code: code, Message: msg, Err: err}
}

// IsClass reports whether err carries a PlanError of the given class.
func IsClass(err error, class ErrorClass) bool {
	var pe *PlanError
	return errors.As(err, &pe) && pe.Class == class
}

// CodeOf returns the PlanError code in err's chain, or "".
func CodeOf(err error) PlanErrorCode {
	var pe *PlanError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
