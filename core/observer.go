package core

import (
	"time"

	"github.com/rs/zerolog"
)

// Observer receives request lifecycle notifications from the client. It is
// injected at construction, which keeps data flow explicit — there is no
// global event bus.
//
// Event types carry operational metadata only. They never include API keys,
// request bodies, or response content, so implementations can safely log or
// ship events to monitoring systems.
type Observer interface {
	// OnRequestStart is called when a request is handed to the transport,
	// after the rate limiter has granted a slot.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called when a request completes. For streaming
	// requests it fires when the stream terminates, on every exit path.
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent describes a request entering the transport.
type RequestStartEvent struct {
	RequestID string    // client-generated id correlating start and end
	Method    string    // HTTP method
	Path      string    // request path relative to the API base
	Streaming bool      // true for SSE requests
	Start     time.Time // dispatch time
}

// RequestEndEvent describes a completed request.
type RequestEndEvent struct {
	RequestID string
	Method    string
	Path      string
	Streaming bool
	Status    int // HTTP status, 0 when no response was received
	Start     time.Time
	End       time.Time
	Err       error // typed SDK error, nil on success
}

// Duration returns the elapsed time for the request.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NopObserver ignores all events. It is the default when no observer is
// configured.
type NopObserver struct{}

func (NopObserver) OnRequestStart(RequestStartEvent) {}
func (NopObserver) OnRequestEnd(RequestEndEvent)     {}

var _ Observer = NopObserver{}

// LogObserver writes request lifecycle events through a zerolog logger:
// starts at debug level, successful completions at debug, failures at warn.
type LogObserver struct {
	Logger zerolog.Logger
}

func (o LogObserver) OnRequestStart(e RequestStartEvent) {
	o.Logger.Debug().
		Str("request_id", e.RequestID).
		Str("method", e.Method).
		Str("path", e.Path).
		Bool("streaming", e.Streaming).
		Msg("request start")
}

func (o LogObserver) OnRequestEnd(e RequestEndEvent) {
	ev := o.Logger.Debug()
	if e.Err != nil {
		ev = o.Logger.Warn().Err(e.Err)
	}
	ev.Str("request_id", e.RequestID).
		Str("method", e.Method).
		Str("path", e.Path).
		Bool("streaming", e.Streaming).
		Int("status", e.Status).
		Dur("duration", e.Duration()).
		Msg("request end")
}

var _ Observer = LogObserver{}
