package venice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("k", WithBaseURL(srv.URL))
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`{}`))
}

func TestMiddlewareOnionOrder(t *testing.T) {
	c := newTestClient(t, okHandler)

	var trace []string
	record := func(name string) Middleware {
		return func(next RoundTripFunc) RoundTripFunc {
			return func(ctx context.Context, req *Request) (*Response, error) {
				trace = append(trace, name+" in")
				resp, err := next(ctx, req)
				trace = append(trace, name+" out")
				return resp, err
			}
		}
	}
	c.Use("first", record("first"))
	c.Use("second", record("second"))

	if _, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/models"}); err != nil {
		t.Fatalf("Do: %v", err)
	}

	want := []string{"first in", "second in", "second out", "first out"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
}

func TestMiddlewareReplaceInPlace(t *testing.T) {
	c := newTestClient(t, okHandler)

	var trace []string
	mark := func(label string) Middleware {
		return func(next RoundTripFunc) RoundTripFunc {
			return func(ctx context.Context, req *Request) (*Response, error) {
				trace = append(trace, label)
				return next(ctx, req)
			}
		}
	}
	c.Use("auth", mark("auth-v1"))
	c.Use("trace", mark("trace"))
	// Re-registering "auth" swaps the function but keeps its position.
	c.Use("auth", mark("auth-v2"))

	if _, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/models"}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	want := []string{"auth-v2", "trace"}
	if len(trace) != 2 || trace[0] != want[0] || trace[1] != want[1] {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
}

func TestRemoveAndClearMiddlewares(t *testing.T) {
	c := newTestClient(t, okHandler)

	calls := 0
	count := func(next RoundTripFunc) RoundTripFunc {
		return func(ctx context.Context, req *Request) (*Response, error) {
			calls++
			return next(ctx, req)
		}
	}
	c.Use("count", count)

	if !c.RemoveMiddleware("count") {
		t.Error("RemoveMiddleware returned false for a registered name")
	}
	if c.RemoveMiddleware("count") {
		t.Error("RemoveMiddleware returned true for a removed name")
	}
	if c.RemoveMiddleware("never") {
		t.Error("RemoveMiddleware returned true for an unknown name")
	}

	c.Use("a", count)
	c.Use("b", count)
	c.ClearMiddlewares()

	if _, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/models"}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 0 {
		t.Errorf("removed middleware ran %d times", calls)
	}
}

func TestMiddlewareShortCircuit(t *testing.T) {
	reached := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		reached = true
		okHandler(w, r)
	})

	cached := &Response{Status: http.StatusOK, Body: []byte(`{"cached":true}`)}
	c.Use("cache", func(next RoundTripFunc) RoundTripFunc {
		return func(ctx context.Context, req *Request) (*Response, error) {
			return cached, nil
		}
	})

	resp, err := c.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/models"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp != cached {
		t.Error("short-circuit response not returned")
	}
	if reached {
		t.Error("transport reached despite short-circuit")
	}
}
