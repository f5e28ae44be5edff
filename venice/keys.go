package venice

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/venice-ai/venice-go/core"
)

// KeyService manages API keys. All operations require the admin key and
// fail with an auth error when one is not configured on the client.
type KeyService struct {
	client *Client
}

// List returns the account's API keys.
func (s *KeyService) List(ctx context.Context) (*APIKeyList, error) {
	var out APIKeyList
	err := s.client.call(ctx, &Request{
		Method:      http.MethodGet,
		Path:        "/api_keys",
		UseAdminKey: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Create issues a new API key. The full key value appears only in this
// response and cannot be retrieved again.
func (s *KeyService) Create(ctx context.Context, req *CreateAPIKeyRequest) (*CreateAPIKeyResponse, error) {
	if err := validateCreateKeyRequest(req); err != nil {
		return nil, err
	}
	var out CreateAPIKeyResponse
	err := s.client.call(ctx, &Request{
		Method:      http.MethodPost,
		Path:        "/api_keys",
		Body:        req,
		UseAdminKey: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete revokes an API key by ID.
func (s *KeyService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return core.NewValidationError("missing_key_id", "key id is required")
	}
	return s.client.call(ctx, &Request{
		Method:      http.MethodDelete,
		Path:        "/api_keys",
		Query:       url.Values{"id": []string{id}},
		UseAdminKey: true,
	}, nil)
}

// RateLimits reports the account's standing quota per model along with
// tier and balance information.
func (s *KeyService) RateLimits(ctx context.Context) (*RateLimitStatus, error) {
	var out RateLimitStatus
	err := s.client.call(ctx, &Request{
		Method:      http.MethodGet,
		Path:        "/api_keys/rate_limits",
		UseAdminKey: true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func validateCreateKeyRequest(req *CreateAPIKeyRequest) error {
	if req == nil {
		return core.NewValidationError("missing_request", "request must not be nil")
	}
	switch req.Type {
	case "ADMIN", "INFERENCE":
	default:
		return core.NewValidationError("invalid_key_type", `apiKeyType must be "ADMIN" or "INFERENCE"`)
	}
	return nil
}
