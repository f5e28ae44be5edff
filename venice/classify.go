package venice

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/venice-ai/venice-go/core"
)

// classifyStatus translates a completed non-2xx response into a typed error.
// The body is parsed best-effort: a non-JSON body falls back to a generic
// message derived from the status line.
func classifyStatus(status int, header http.Header, body []byte) error {
	msg, code, details := parseErrorBody(body, status)
	e := &core.Error{
		Status:    status,
		Code:      code,
		Message:   msg,
		Details:   details,
		RequestID: header.Get("x-request-id"),
	}

	switch status {
	case http.StatusUnauthorized:
		e.Err = core.ErrAuth
	case http.StatusPaymentRequired:
		e.Err = core.ErrPaymentRequired
	case http.StatusTooManyRequests:
		e.Err = core.ErrRateLimited
		// Missing headers leave RateLimit nil; that is still a valid
		// RateLimit error and no default reset time is invented.
		e.RateLimit = parseRateLimitHeaders(header)
	case http.StatusServiceUnavailable:
		e.Err = core.ErrCapacity
	default:
		e.Err = core.ErrAPI
	}
	e.Hints = core.DefaultHints(e.Err, e.RateLimit)
	return e
}

// classifyTransport translates a failure that produced no response.
func classifyTransport(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &core.Error{Message: "request deadline exceeded", Err: core.ErrTimeout, Cause: err}
	case errors.Is(err, context.Canceled):
		return &core.Error{Message: "request cancelled", Err: core.ErrNetwork, Cause: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &core.Error{Message: "request timed out", Err: core.ErrTimeout, Cause: err}
	}
	return &core.Error{Message: "request failed before a response was received", Err: core.ErrNetwork, Cause: err}
}

// streamError wraps a failure encountered while consuming an SSE body.
func streamError(msg string, cause error) error {
	return &core.Error{Message: msg, Err: core.ErrStream, Cause: cause}
}

// parseErrorBody extracts message, code, and structured details from an API
// error body. Accepted shapes:
//
//	{"error": "message"}
//	{"error": {"message": "...", "code": "...", "details": {...}}}
//	{"message": "...", "details": {...}}
func parseErrorBody(body []byte, status int) (msg, code string, details json.RawMessage) {
	fallback := http.StatusText(status)
	if fallback == "" {
		fallback = "request failed"
	}

	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fallback, "", nil
	}
	details = envelope.Details
	msg = envelope.Message

	if len(envelope.Error) > 0 && string(envelope.Error) != "null" {
		m, c, d := parseErrorValue(envelope.Error)
		if m != "" {
			msg = m
		}
		code = c
		if d != nil {
			details = d
		}
	}
	if msg == "" {
		msg = fallback
	}
	return msg, code, details
}

// parseErrorValue handles the polymorphic "error" field: a bare string or an
// object with message/code/details.
func parseErrorValue(raw json.RawMessage) (msg, code string, details json.RawMessage) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, "", nil
	}
	var obj struct {
		Message string          `json:"message"`
		Code    string          `json:"code"`
		Type    string          `json:"type"`
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", "", nil
	}
	code = obj.Code
	if code == "" {
		code = obj.Type
	}
	return obj.Message, code, obj.Details
}

// parseRateLimitHeaders reads the x-ratelimit-* headers from a 429 response.
// Returns nil when none are present.
func parseRateLimitHeaders(h http.Header) *core.RateLimitInfo {
	info := &core.RateLimitInfo{}
	found := false

	if n, ok := headerInt(h, "x-ratelimit-limit-requests"); ok {
		info.Limit = n
		found = true
	}
	if n, ok := headerInt(h, "x-ratelimit-remaining-requests"); ok {
		info.Remaining = n
		found = true
	}
	if ts, ok := headerUnix(h, "x-ratelimit-reset-requests"); ok {
		info.Reset = ts
		found = true
	}
	if n, ok := headerInt(h, "x-ratelimit-limit-tokens"); ok {
		info.LimitTokens = n
		found = true
	}
	if n, ok := headerInt(h, "x-ratelimit-remaining-tokens"); ok {
		info.RemainingTokens = n
		found = true
	}
	if ts, ok := headerUnix(h, "x-ratelimit-reset-tokens"); ok {
		info.ResetTokens = ts
		found = true
	}

	if !found {
		return nil
	}
	return info
}

func headerInt(h http.Header, name string) (int, bool) {
	v := h.Get(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func headerUnix(h http.Header, name string) (time.Time, bool) {
	v := h.Get(name)
	if v == "" {
		return time.Time{}, false
	}
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(sec, 0), true
}
