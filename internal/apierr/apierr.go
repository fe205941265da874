package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes, one per failure class the API reports.
const (
	CodeValidation         = "validation"
	CodeNotFound           = "not_found"
	CodeTemplateNotFound   = "template_not_found"
	CodeUpstreamAuth       = "upstream_auth"
	CodeStructuralMismatch = "structural_mismatch"
	CodeTransient          = "transient"
	CodeInternal           = "internal"
)

// Build phases, attached so callers can decide whether a failed build is
// resumable (anything at or after the snapshot phase can resume at cell
// population instead of rebuilding from scratch).
const (
	PhasePlan     = "plan"
	PhaseCreate   = "create"
	PhaseContent  = "content"
	PhaseStyle    = "style"
	PhaseSnapshot = "snapshot"
	PhasePopulate = "populate"
	PhaseMove     = "move"
)

type Error struct {
	Status int
	Code   string
	Phase  string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		if e.Phase != "" {
			return fmt.Sprintf("%s (phase %s)", e.Err.Error(), e.Phase)
		}
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(err error) *Error {
	return New(http.StatusBadRequest, CodeValidation, err)
}

func NotFound(err error) *Error {
	return New(http.StatusNotFound, CodeNotFound, err)
}

func TemplateNotFound(err error) *Error {
	return New(http.StatusNotFound, CodeTemplateNotFound, err)
}

func UpstreamAuth(err error) *Error {
	return New(http.StatusBadGateway, CodeUpstreamAuth, err)
}

func StructuralMismatch(err error) *Error {
	return New(http.StatusBadGateway, CodeStructuralMismatch, err)
}

func Transient(err error) *Error {
	return New(http.StatusServiceUnavailable, CodeTransient, err)
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, CodeInternal, err)
}

// WithPhase stamps the build phase onto err if it is (or wraps) an *Error;
// otherwise it wraps err into an internal *Error carrying the phase. The
// found *Error is copied before stamping so shared instances keep their
// own phase.
func WithPhase(phase string, err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Phase != "" {
			return ae
		}
		stamped := *ae
		stamped.Phase = phase
		return &stamped
	}
	e := Internal(err)
	e.Phase = phase
	return e
}

// From extracts the *Error from err, or wraps err as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}
