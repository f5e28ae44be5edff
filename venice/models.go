package venice

import (
	"context"
	"net/url"
)

// ModelService calls the model catalog endpoint.
type ModelService struct {
	client *Client
}

// List returns the available models. modelType filters by category
// ("text", "image", "embedding"); empty lists everything.
func (s *ModelService) List(ctx context.Context, modelType string) (*ModelList, error) {
	var query url.Values
	if modelType != "" {
		query = url.Values{"type": []string{modelType}}
	}
	var out ModelList
	if err := s.client.Get(ctx, "/models", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
