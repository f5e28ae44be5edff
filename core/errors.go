package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for classification. Every *Error carries exactly one of
// these; use errors.Is to branch on failure category.
var (
	ErrAPI             = errors.New("api error")
	ErrAuth            = errors.New("unauthorized")
	ErrPaymentRequired = errors.New("payment required")
	ErrRateLimited     = errors.New("rate limited")
	ErrCapacity        = errors.New("capacity exceeded")
	ErrNetwork         = errors.New("network error")
	ErrTimeout         = errors.New("request timeout")
	ErrValidation      = errors.New("validation error")
	ErrStream          = errors.New("stream error")
)

// Kind is the stable machine-readable error category.
type Kind string

const (
	KindAPI             Kind = "api"
	KindAuth            Kind = "auth"
	KindPaymentRequired Kind = "payment_required"
	KindRateLimit       Kind = "rate_limit"
	KindCapacity        Kind = "capacity"
	KindNetwork         Kind = "network"
	KindTimeout         Kind = "timeout"
	KindValidation      Kind = "validation"
	KindStream          Kind = "stream"
	KindUnknown         Kind = "unknown"
)

// kindOf maps a sentinel to its Kind.
func kindOf(sentinel error) Kind {
	switch sentinel {
	case ErrAPI:
		return KindAPI
	case ErrAuth:
		return KindAuth
	case ErrPaymentRequired:
		return KindPaymentRequired
	case ErrRateLimited:
		return KindRateLimit
	case ErrCapacity:
		return KindCapacity
	case ErrNetwork:
		return KindNetwork
	case ErrTimeout:
		return KindTimeout
	case ErrValidation:
		return KindValidation
	case ErrStream:
		return KindStream
	default:
		return KindUnknown
	}
}

// RateLimitInfo holds quota metadata parsed from 429 response headers.
// A RateLimit error with nil or partially filled metadata is still valid:
// the server is not required to send these headers.
type RateLimitInfo struct {
	// Request quota: x-ratelimit-{limit,remaining,reset}-requests.
	Limit     int
	Remaining int
	Reset     time.Time

	// Token quota variants, when present.
	LimitTokens     int
	RemainingTokens int
	ResetTokens     time.Time
}

// RecoveryHint is advisory metadata suggesting a remediation action.
// Hints never affect correctness; callers may ignore them entirely.
type RecoveryHint struct {
	// Action is a stable identifier, e.g. "check_api_key".
	Action string

	// Description is a human-readable remediation suggestion.
	Description string

	// Example shows the action concretely, when one exists.
	Example string

	// Automatable reports whether a program could perform the action
	// without a human, e.g. waiting until a rate limit resets.
	Automatable bool
}

// Error is the one error type surfaced by the SDK. The Err field holds the
// classification sentinel; Cause, when set, preserves the underlying
// transport or parse failure for errors.Is/As chains.
type Error struct {
	Status    int             // HTTP status, 0 when no response was received
	Code      string          // machine-readable code from the response body
	Message   string          // human-readable message
	RequestID string          // server request id, when the response carried one
	Details   json.RawMessage // structured detail payload, preserved verbatim
	RateLimit *RateLimitInfo  // populated on 429 when headers were present
	Hints     []RecoveryHint  // advisory remediation suggestions

	Err   error // classification sentinel, one of the Err* values above
	Cause error // underlying failure, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		if e.Code != "" {
			return fmt.Sprintf("venice: %s (status=%d, code=%s)", e.Message, e.Status, e.Code)
		}
		return fmt.Sprintf("venice: %s (status=%d)", e.Message, e.Status)
	}
	if e.Cause != nil && e.Message == "" {
		return fmt.Sprintf("venice: %v: %v", e.Err, e.Cause)
	}
	return fmt.Sprintf("venice: %s", e.Message)
}

// Unwrap exposes both the sentinel and the underlying cause so that
// errors.Is matches either, e.g. core.ErrTimeout and context.DeadlineExceeded.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// Kind returns the stable category of the error.
func (e *Error) Kind() Kind {
	return kindOf(e.Err)
}

// NewValidationError builds a Validation error. Validation errors are raised
// synchronously, before any I/O is attempted.
func NewValidationError(code, message string) *Error {
	return &Error{Code: code, Message: message, Err: ErrValidation}
}

// Validation errors with actionable guidance.
var (
	ErrModelRequired = NewValidationError("model_required",
		"model required: set Model on the request, e.g. \"llama-3.3-70b\"")
	ErrNoMessages = NewValidationError("messages_required",
		"no messages: add at least one message to the request")
)

// DefaultHints returns the advisory recovery hints attached to errors of the
// given sentinel. The rate-limit hint is automatable only when the server
// provided a reset timestamp.
func DefaultHints(sentinel error, rl *RateLimitInfo) []RecoveryHint {
	switch sentinel {
	case ErrAuth:
		return []RecoveryHint{
			{
				Action:      "check_api_key",
				Description: "Verify the API key is set and has not been revoked.",
				Example:     "client := venice.New(os.Getenv(\"VENICE_API_KEY\"))",
			},
			{
				Action:      "regenerate_api_key",
				Description: "Generate a new API key from the Venice dashboard and update the client.",
			},
		}
	case ErrPaymentRequired:
		return []RecoveryHint{
			{
				Action:      "add_credits",
				Description: "Add credits or stake VVV to restore inference access.",
			},
		}
	case ErrRateLimited:
		hint := RecoveryHint{
			Action:      "wait_for_reset",
			Description: "Wait until the rate-limit window resets before retrying.",
		}
		if rl != nil && !rl.Reset.IsZero() {
			hint.Automatable = true
			hint.Example = "core.NewResetWaiter().Wait(ctx, err)"
		}
		return []RecoveryHint{hint}
	case ErrCapacity:
		return []RecoveryHint{
			{
				Action:      "retry_later",
				Description: "The model is at capacity; retry after a short delay or pick another model.",
			},
		}
	default:
		return nil
	}
}
