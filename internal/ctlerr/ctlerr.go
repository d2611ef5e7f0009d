// Package ctlerr provides structured error handling for the controller's
// decision logic. It lets executors and rotation code communicate precisely
// why an action could not proceed, with enough context attached that a
// scheduler can decide whether to log-and-rotate or escalate to character
// error status.
package ctlerr

import (
	"errors"
	"fmt"
)

// Code categorizes why a decision or action failed.
type Code string

const (
	// CodeUnknown indicates an uncategorized failure.
	CodeUnknown Code = "unknown"
	// CodeInternal indicates an invariant violation — a bug, not a domain outcome.
	CodeInternal Code = "internal"
	// CodeCanceled indicates the operation was canceled (shutdown, context done).
	CodeCanceled Code = "canceled"

	// CodeUnwinnable indicates the combat simulator predicts a loss for every candidate loadout.
	CodeUnwinnable Code = "unwinnable"
	// CodeSkillTooLow indicates a gather or craft step needs a higher skill level.
	CodeSkillTooLow Code = "skill_too_low"
	// CodeRecipeCycle indicates a production chain resolves back into itself.
	CodeRecipeCycle Code = "recipe_cycle"
	// CodeClaimExpired indicates an order-board lease elapsed before progress was recorded.
	CodeClaimExpired Code = "claim_expired"
	// CodeClaimUnavailable indicates no open, claimable order matched the request.
	CodeClaimUnavailable Code = "claim_unavailable"
	// CodeUnreachable indicates NoPathError surfaced for a content type+code.
	CodeUnreachable Code = "unreachable"
	// CodeReservationFailed indicates a bank reservation could not be satisfied atomically.
	CodeReservationFailed Code = "reservation_failed"
	// CodeInventoryFull indicates the character has no free inventory slots.
	CodeInventoryFull Code = "inventory_full"
	// CodeFatalInit indicates a fatal initialization error (e.g. missing auth).
	CodeFatalInit Code = "fatal_init"
	// CodeNotConsumable mirrors the game API's 476 response.
	CodeNotConsumable Code = "not_consumable"
	// CodeMissingItems mirrors the game API's 478 response.
	CodeMissingItems Code = "missing_items"
	// CodeInvalidState indicates corrupted or unexpected persisted state (e.g. unknown state file version).
	CodeInvalidState Code = "invalid_state"
	// CodeNotFound indicates a referenced code/id has no catalog entry.
	CodeNotFound Code = "not_found"
)

// Error is a structured controller error.
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "ctlerr: nil error"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is/As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Option configures an Error at construction time.
type Option func(*Error)

// WithMeta attaches a diagnostic key/value to the error.
func WithMeta(key string, value any) Option {
	return func(e *Error) {
		if e.Meta == nil {
			e.Meta = make(map[string]any)
		}
		e.Meta[key] = value
	}
}

// WithCause wraps an underlying error.
func WithCause(cause error) Option {
	return func(e *Error) {
		e.Cause = cause
	}
}

// New creates a new Error with the given code and message.
func New(code Code, message string, opts ...Option) *Error {
	e := &Error{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Newf creates a new Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// GetCode extracts the Code from err, or CodeUnknown if err is not a *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// GetMeta extracts the Meta map from err, or nil if err is not a *Error.
func GetMeta(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Meta
	}
	return nil
}

// Is reports whether err, or any error it wraps, is a *Error with the given
// code (found via errors.As).
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Domain is the broad recovery-policy bucket a Code belongs to (§7).
type Domain uint8

const (
	// DomainDecision indicates a domain decision failure: log, block, force rotate.
	DomainDecision Domain = iota
	// DomainContention indicates resource contention: retry next tick.
	DomainContention
	// DomainFatal indicates initialization failure: fail and exit.
	DomainFatal
	// DomainInvariant indicates corrupted state: surface as a hard failure.
	DomainInvariant
)

// ClassifyDomain maps a Code to its recovery-policy Domain.
func ClassifyDomain(code Code) Domain {
	switch code {
	case CodeFatalInit:
		return DomainFatal
	case CodeInvalidState, CodeInternal:
		return DomainInvariant
	case CodeReservationFailed, CodeInventoryFull:
		return DomainContention
	default:
		return DomainDecision
	}
}
