package venice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/venice-ai/venice-go/core"
)

func TestImageGenerate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/image/generate" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body ImageGenerateRequest
		json.NewDecoder(r.Body).Decode(&body)
		if body.Prompt != "a fox" {
			t.Errorf("prompt = %q", body.Prompt)
		}
		json.NewEncoder(w).Encode(ImageGenerateResponse{
			ID:     "img_1",
			Images: []string{"aGVsbG8="},
		})
	})

	out, err := c.Images.Generate(context.Background(), &ImageGenerateRequest{
		Model:  "flux-dev",
		Prompt: "a fox",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(out.Images) != 1 || out.Images[0] != "aGVsbG8=" {
		t.Errorf("Images = %v", out.Images)
	}
}

func TestImageGenerateValidation(t *testing.T) {
	c := New("k", WithBaseURL("http://127.0.0.1:0"))

	if _, err := c.Images.Generate(context.Background(), &ImageGenerateRequest{Prompt: "p"}); !errors.Is(err, core.ErrModelRequired) {
		t.Errorf("missing model: err = %v", err)
	}
	if _, err := c.Images.Generate(context.Background(), &ImageGenerateRequest{Model: "m"}); !errors.Is(err, core.ErrValidation) {
		t.Errorf("missing prompt: err = %v", err)
	}
}

func TestImageUpscaleReturnsRawBytes(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/image/upscale" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(raw)
	})

	out, err := c.Images.Upscale(context.Background(), &UpscaleRequest{
		Image: []byte("input"),
		Scale: 4,
	})
	if err != nil {
		t.Fatalf("Upscale: %v", err)
	}
	if string(out) != string(raw) {
		t.Errorf("bytes not passed through: %v", out)
	}
}

func TestImageUpscaleValidation(t *testing.T) {
	c := New("k", WithBaseURL("http://127.0.0.1:0"))

	if _, err := c.Images.Upscale(context.Background(), &UpscaleRequest{Scale: 2}); !errors.Is(err, core.ErrValidation) {
		t.Errorf("missing image: err = %v", err)
	}
	for _, scale := range []int{0, 1, 3, 8} {
		_, err := c.Images.Upscale(context.Background(), &UpscaleRequest{Image: []byte("x"), Scale: scale})
		if !errors.Is(err, core.ErrValidation) {
			t.Errorf("scale %d: err = %v, want validation error", scale, err)
		}
	}
}
