package venice

import (
	"context"
	"strconv"
	"strings"

	"github.com/venice-ai/venice-go/core"
)

// ChatService calls the chat completions endpoint.
type ChatService struct {
	client *Client
}

// CreateCompletion requests a complete, non-streaming chat completion.
// The stream flag on req is ignored; this method always requests a
// buffered response.
func (s *ChatService) CreateCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletion, error) {
	if err := validateChatRequest(req); err != nil {
		return nil, err
	}
	body := *req
	body.Stream = false

	var out ChatCompletion
	if err := s.client.Post(ctx, "/chat/completions", &body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StreamCompletion requests a streaming chat completion and returns a
// CompletionStream over its chunks. The stream flag on req is ignored;
// this method always requests a stream. Callers should drain Ch or call
// Close to release the connection.
func (s *ChatService) StreamCompletion(ctx context.Context, req *ChatCompletionRequest) (*CompletionStream, error) {
	if err := validateChatRequest(req); err != nil {
		return nil, err
	}
	body := *req
	body.Stream = true

	const path = "/chat/completions"
	ctx, cancel := context.WithCancel(ctx)
	res, reqID, start, err := s.client.openStream(ctx, path, &body)
	if err != nil {
		cancel()
		return nil, err
	}
	return s.client.newCompletionStream(ctx, cancel, res.Body, reqID, path, res.StatusCode, start), nil
}

// validateChatRequest rejects requests that cannot succeed before any
// network round trip.
func validateChatRequest(req *ChatCompletionRequest) error {
	if req == nil {
		return core.NewValidationError("missing_request", "request must not be nil")
	}
	if strings.TrimSpace(req.Model) == "" {
		return core.ErrModelRequired
	}
	if len(req.Messages) == 0 {
		return core.ErrNoMessages
	}
	for i, m := range req.Messages {
		if strings.TrimSpace(m.Content) == "" {
			return core.NewValidationError("empty_message", "message "+strconv.Itoa(i)+" has empty content")
		}
	}
	return nil
}
