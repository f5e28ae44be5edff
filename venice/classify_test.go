package venice

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/venice-ai/venice-go/core"
)

func TestClassifyStatusKinds(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, core.ErrAuth},
		{"payment required", http.StatusPaymentRequired, core.ErrPaymentRequired},
		{"rate limited", http.StatusTooManyRequests, core.ErrRateLimited},
		{"capacity", http.StatusServiceUnavailable, core.ErrCapacity},
		{"server error", http.StatusInternalServerError, core.ErrAPI},
		{"bad request", http.StatusBadRequest, core.ErrAPI},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyStatus(tc.status, http.Header{}, []byte(`{"error":"boom"}`))
			if !errors.Is(err, tc.want) {
				t.Fatalf("classifyStatus(%d) = %v, want errors.Is(%v)", tc.status, err, tc.want)
			}
			var ce *core.Error
			if !errors.As(err, &ce) {
				t.Fatalf("error is not *core.Error: %T", err)
			}
			if ce.Status != tc.status {
				t.Errorf("Status = %d, want %d", ce.Status, tc.status)
			}
			if ce.Message != "boom" {
				t.Errorf("Message = %q, want %q", ce.Message, "boom")
			}
			if len(ce.Hints) == 0 {
				t.Error("expected recovery hints")
			}
		})
	}
}

func TestClassifyStatusRateLimitHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("x-ratelimit-limit-requests", "60")
	h.Set("x-ratelimit-remaining-requests", "0")
	h.Set("x-ratelimit-reset-requests", "1700000123")
	h.Set("x-request-id", "req_abc")

	err := classifyStatus(http.StatusTooManyRequests, h, nil)
	var ce *core.Error
	if !errors.As(err, &ce) {
		t.Fatalf("error is not *core.Error: %T", err)
	}
	if ce.RateLimit == nil {
		t.Fatal("RateLimit is nil")
	}
	if ce.RateLimit.Limit != 60 || ce.RateLimit.Remaining != 0 {
		t.Errorf("Limit/Remaining = %d/%d, want 60/0", ce.RateLimit.Limit, ce.RateLimit.Remaining)
	}
	if want := time.Unix(1700000123, 0); !ce.RateLimit.Reset.Equal(want) {
		t.Errorf("Reset = %v, want %v", ce.RateLimit.Reset, want)
	}
	if ce.RequestID != "req_abc" {
		t.Errorf("RequestID = %q, want %q", ce.RequestID, "req_abc")
	}
}

func TestClassifyStatusRateLimitWithoutHeaders(t *testing.T) {
	// A 429 with no metadata still classifies as rate limited, with no
	// invented reset time.
	err := classifyStatus(http.StatusTooManyRequests, http.Header{}, nil)
	if !errors.Is(err, core.ErrRateLimited) {
		t.Fatalf("err = %v, want rate limited", err)
	}
	var ce *core.Error
	errors.As(err, &ce)
	if ce.RateLimit != nil {
		t.Errorf("RateLimit = %+v, want nil", ce.RateLimit)
	}
}

func TestClassifyStatusBodyShapes(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		wantMsg  string
		wantCode string
	}{
		{"string error", `{"error":"invalid model"}`, "invalid model", ""},
		{"object error", `{"error":{"message":"no credits","code":"insufficient_balance"}}`, "no credits", "insufficient_balance"},
		{"type as code", `{"error":{"message":"bad","type":"invalid_request_error"}}`, "bad", "invalid_request_error"},
		{"top-level message", `{"message":"nope"}`, "nope", ""},
		{"non-JSON body", `<html>gateway error</html>`, "Bad Request", ""},
		{"empty body", ``, "Bad Request", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, code, _ := parseErrorBody([]byte(tc.body), http.StatusBadRequest)
			if msg != tc.wantMsg {
				t.Errorf("msg = %q, want %q", msg, tc.wantMsg)
			}
			if code != tc.wantCode {
				t.Errorf("code = %q, want %q", code, tc.wantCode)
			}
		})
	}
}

func TestClassifyTransport(t *testing.T) {
	t.Run("deadline", func(t *testing.T) {
		err := classifyTransport(context.DeadlineExceeded)
		if !errors.Is(err, core.ErrTimeout) {
			t.Fatalf("err = %v, want timeout", err)
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatal("cause not preserved")
		}
	})
	t.Run("cancellation", func(t *testing.T) {
		err := classifyTransport(context.Canceled)
		if !errors.Is(err, core.ErrNetwork) {
			t.Fatalf("err = %v, want network", err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Fatal("cause not preserved")
		}
	})
	t.Run("generic", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := classifyTransport(cause)
		if !errors.Is(err, core.ErrNetwork) {
			t.Fatalf("err = %v, want network", err)
		}
		if !errors.Is(err, cause) {
			t.Fatal("cause not preserved")
		}
	})
}
