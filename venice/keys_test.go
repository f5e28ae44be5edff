package venice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/venice-ai/venice-go/core"
)

func newAdminTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("inference-key", WithBaseURL(srv.URL), WithAdminKey("admin-key"))
}

func TestKeyListUsesAdminKey(t *testing.T) {
	c := newAdminTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer admin-key" {
			t.Errorf("Authorization = %q, want admin key", got)
		}
		if r.URL.Path != "/api_keys" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(APIKeyList{Data: []APIKey{
			{ID: "key_1", Description: "ci", Type: "INFERENCE", Last6Chars: "abc123"},
		}})
	})

	out, err := c.Keys.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out.Data) != 1 || out.Data[0].ID != "key_1" {
		t.Errorf("Data = %+v", out.Data)
	}
}

func TestKeyListFallsBackWithoutAdminKey(t *testing.T) {
	// Without an admin key configured the inference key is sent; the server
	// decides whether it suffices.
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer k" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(APIKeyList{})
	})
	if _, err := c.Keys.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
}

func TestKeyCreate(t *testing.T) {
	c := newAdminTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		var body CreateAPIKeyRequest
		json.NewDecoder(r.Body).Decode(&body)
		if body.Type != "INFERENCE" {
			t.Errorf("apiKeyType = %q", body.Type)
		}
		var resp CreateAPIKeyResponse
		resp.Data.ID = "key_new"
		resp.Data.Key = "sk-full-secret-value"
		json.NewEncoder(w).Encode(resp)
	})

	out, err := c.Keys.Create(context.Background(), &CreateAPIKeyRequest{
		Description: "ci bot",
		Type:        "INFERENCE",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.Data.Key != "sk-full-secret-value" {
		t.Errorf("Key = %q", out.Data.Key)
	}
}

func TestKeyCreateValidation(t *testing.T) {
	c := New("k", WithBaseURL("http://127.0.0.1:0"))
	_, err := c.Keys.Create(context.Background(), &CreateAPIKeyRequest{Type: "SUPERUSER"})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestKeyDelete(t *testing.T) {
	var gotID string
	c := newAdminTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %q", r.Method)
		}
		gotID = r.URL.Query().Get("id")
		w.Write([]byte(`{"success":true}`))
	})

	if err := c.Keys.Delete(context.Background(), "key_1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if gotID != "key_1" {
		t.Errorf("id query = %q", gotID)
	}

	if err := c.Keys.Delete(context.Background(), " "); !errors.Is(err, core.ErrValidation) {
		t.Errorf("blank id: err = %v", err)
	}
}

func TestKeyRateLimits(t *testing.T) {
	c := newAdminTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api_keys/rate_limits" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"accessPermitted":true,"rateLimits":[{"apiModelId":"llama-3.3-70b","rateLimits":[{"amount":60,"type":"RPM"}]}]}}`))
	})

	out, err := c.Keys.RateLimits(context.Background())
	if err != nil {
		t.Fatalf("RateLimits: %v", err)
	}
	if !out.Data.AccessPermitted {
		t.Error("AccessPermitted = false")
	}
	if len(out.Data.RateLimits) != 1 || out.Data.RateLimits[0].ModelID != "llama-3.3-70b" {
		t.Errorf("RateLimits = %+v", out.Data.RateLimits)
	}
}
