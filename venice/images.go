package venice

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/venice-ai/venice-go/core"
)

// ImageService calls the image generation and upscaling endpoints.
type ImageService struct {
	client *Client
}

// Generate produces one or more images from a text prompt. Images come
// back base64-encoded in the response.
func (s *ImageService) Generate(ctx context.Context, req *ImageGenerateRequest) (*ImageGenerateResponse, error) {
	if err := validateImageRequest(req); err != nil {
		return nil, err
	}
	var out ImageGenerateResponse
	if err := s.client.Post(ctx, "/image/generate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upscale enlarges an image by the requested factor and returns the raw
// upscaled image bytes. The endpoint responds with binary image data, not
// JSON, so the body is passed through untouched.
func (s *ImageService) Upscale(ctx context.Context, req *UpscaleRequest) ([]byte, error) {
	if err := validateUpscaleRequest(req); err != nil {
		return nil, err
	}
	name := req.Filename
	if name == "" {
		name = "image"
	}

	resp, err := s.client.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   "/image/upscale",
		Form: &Form{
			Fields: map[string]string{"scale": strconv.Itoa(req.Scale)},
			Files:  []FormFile{{Field: "image", Name: name, Content: req.Image}},
		},
		Header: http.Header{"Accept": []string{"image/*"}},
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func validateImageRequest(req *ImageGenerateRequest) error {
	if req == nil {
		return core.NewValidationError("missing_request", "request must not be nil")
	}
	if strings.TrimSpace(req.Model) == "" {
		return core.ErrModelRequired
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return core.NewValidationError("missing_prompt", "prompt is required")
	}
	return nil
}

func validateUpscaleRequest(req *UpscaleRequest) error {
	if req == nil {
		return core.NewValidationError("missing_request", "request must not be nil")
	}
	if len(req.Image) == 0 {
		return core.NewValidationError("missing_image", "image data is required")
	}
	if req.Scale != 2 && req.Scale != 4 {
		return core.NewValidationError("invalid_scale", "scale must be 2 or 4, got "+strconv.Itoa(req.Scale))
	}
	return nil
}
