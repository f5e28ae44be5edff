// Package otel bridges request lifecycle events to OpenTelemetry spans.
//
// Attach it to a client with:
//
//	obs := otel.NewObserver(tracerProvider.Tracer("venice"))
//	client := venice.New(key, venice.WithObserver(obs))
package otel

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/venice-ai/venice-go/core"
)

// Observer records one span per API request. Spans are correlated by the
// client-generated request id, so concurrent requests never interleave.
type Observer struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[string]trace.Span
}

// NewObserver creates an Observer emitting spans from the given tracer.
func NewObserver(tracer trace.Tracer) *Observer {
	return &Observer{
		tracer: tracer,
		spans:  make(map[string]trace.Span),
	}
}

// OnRequestStart implements core.Observer.
func (o *Observer) OnRequestStart(e core.RequestStartEvent) {
	_, span := o.tracer.Start(context.Background(), e.Method+" "+e.Path,
		trace.WithTimestamp(e.Start),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", e.Method),
			attribute.String("url.path", e.Path),
			attribute.Bool("venice.streaming", e.Streaming),
			attribute.String("venice.request_id", e.RequestID),
		))

	o.mu.Lock()
	o.spans[e.RequestID] = span
	o.mu.Unlock()
}

// OnRequestEnd implements core.Observer.
func (o *Observer) OnRequestEnd(e core.RequestEndEvent) {
	o.mu.Lock()
	span, ok := o.spans[e.RequestID]
	delete(o.spans, e.RequestID)
	o.mu.Unlock()
	if !ok {
		return
	}

	if e.Status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", e.Status))
	}
	if e.Err != nil {
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(e.End))
}

var _ core.Observer = (*Observer)(nil)
