package venice

import "encoding/json"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// VeniceParameters are the Venice-specific extensions to the chat API.
type VeniceParameters struct {
	EnableWebSearch           string `json:"enable_web_search,omitempty"` // "on", "off", "auto"
	IncludeVeniceSystemPrompt *bool  `json:"include_venice_system_prompt,omitempty"`
	CharacterSlug             string `json:"character_slug,omitempty"`
}

// ChatCompletionRequest is a request to the chat completions endpoint.
type ChatCompletionRequest struct {
	Model            string            `json:"model"`
	Messages         []Message         `json:"messages"`
	Temperature      *float64          `json:"temperature,omitempty"`
	TopP             *float64          `json:"top_p,omitempty"`
	MaxTokens        *int              `json:"max_completion_tokens,omitempty"`
	Stop             []string          `json:"stop,omitempty"`
	Stream           bool              `json:"stream"`
	VeniceParameters *VeniceParameters `json:"venice_parameters,omitempty"`
}

// Usage reports token consumption for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice is one completion alternative in a non-streaming response.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// ChatCompletion is a non-streaming chat completion response.
type ChatCompletion struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Output returns the content of the first choice, or "".
func (c *ChatCompletion) Output() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Message.Content
}

// ChunkDelta is the incremental payload inside a streaming choice.
type ChunkDelta struct {
	Role    Role   `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// ChunkChoice is one choice within a streaming chunk.
type ChunkChoice struct {
	Index        int        `json:"index"`
	Delta        ChunkDelta `json:"delta"`
	FinishReason *string    `json:"finish_reason,omitempty"`
}

// ChatCompletionChunk is one increment of a streaming chat completion.
// Chunks are yielded in byte-arrival order and not retained by the SDK.
type ChatCompletionChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
	Usage   *Usage        `json:"usage,omitempty"`

	// Error carries an error envelope some backends embed in SSE data
	// instead of breaking the connection. Checked before yielding.
	Error json.RawMessage `json:"error,omitempty"`
}

// Delta returns the content delta of the first choice, or "".
func (c *ChatCompletionChunk) Delta() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Delta.Content
}

// FinishReason returns the finish reason of the first choice, or "".
func (c *ChatCompletionChunk) FinishReason() string {
	if len(c.Choices) == 0 || c.Choices[0].FinishReason == nil {
		return ""
	}
	return *c.Choices[0].FinishReason
}

// ModelSpec describes model capabilities as reported by the models endpoint.
type ModelSpec struct {
	AvailableContextTokens int64    `json:"availableContextTokens,omitempty"`
	Traits                 []string `json:"traits,omitempty"`
	ModelSource            string   `json:"modelSource,omitempty"`
}

// Model is one entry from the models endpoint.
type Model struct {
	ID      string    `json:"id"`
	Object  string    `json:"object"`
	Created int64     `json:"created"`
	OwnedBy string    `json:"owned_by"`
	Type    string    `json:"type"`
	Spec    ModelSpec `json:"model_spec"`
}

// ModelList is the models endpoint response.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}

// ImageGenerateRequest is a request to the image generation endpoint.
type ImageGenerateRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
	Steps          int    `json:"steps,omitempty"`
	Seed           *int64 `json:"seed,omitempty"`
	StylePreset    string `json:"style_preset,omitempty"`
	HideWatermark  *bool  `json:"hide_watermark,omitempty"`
	Format         string `json:"format,omitempty"` // "webp" or "png"
}

// ImageGenerateResponse holds generated images as base64 payloads.
type ImageGenerateResponse struct {
	ID      string          `json:"id"`
	Images  []string        `json:"images"`
	Request json.RawMessage `json:"request,omitempty"`
	Timing  json.RawMessage `json:"timing,omitempty"`
}

// UpscaleRequest is a request to the image upscale endpoint. The image is
// sent as a multipart form part; Scale must be 2 or 4.
type UpscaleRequest struct {
	Image    []byte
	Filename string
	Scale    int
}

// APIKey describes one key from the key-management endpoint.
type APIKey struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Type        string `json:"apiKeyType"` // "ADMIN" or "INFERENCE"
	Last6Chars  string `json:"last6Chars"`
	CreatedAt   string `json:"createdAt"`
	ExpiresAt   string `json:"expiresAt,omitempty"`
	LastUsedAt  string `json:"lastUsedAt,omitempty"`
}

// APIKeyList is the key listing response.
type APIKeyList struct {
	Data []APIKey `json:"data"`
}

// CreateAPIKeyRequest creates a new API key. Requires the admin key.
type CreateAPIKeyRequest struct {
	Description string `json:"description"`
	Type        string `json:"apiKeyType"` // "ADMIN" or "INFERENCE"
	ExpiresAt   string `json:"expiresAt,omitempty"`
}

// CreateAPIKeyResponse wraps the newly created key. The full key value is
// returned exactly once, at creation.
type CreateAPIKeyResponse struct {
	Data struct {
		APIKey
		Key string `json:"apiKey"`
	} `json:"data"`
}

// RateLimitEntry reports the standing quota for one model.
type RateLimitEntry struct {
	ModelID    string          `json:"apiModelId"`
	RateLimits json.RawMessage `json:"rateLimits"`
}

// RateLimitStatus is the rate-limits endpoint response.
type RateLimitStatus struct {
	Data struct {
		AccessPermitted bool             `json:"accessPermitted"`
		APITier         json.RawMessage  `json:"apiTier,omitempty"`
		Balances        json.RawMessage  `json:"balances,omitempty"`
		RateLimits      []RateLimitEntry `json:"rateLimits"`
	} `json:"data"`
}

// Character is one public character persona.
type Character struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Adult       bool     `json:"adult"`
	WebEnabled  bool     `json:"webEnabled"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

// CharacterList is the characters endpoint response.
type CharacterList struct {
	Object string      `json:"object"`
	Data   []Character `json:"data"`
}

// CirculatingSupply is the VVV circulating supply response.
type CirculatingSupply struct {
	Supply float64 `json:"circulating_supply"`
}

// NetworkUtilization is the VVV network utilization response.
type NetworkUtilization struct {
	Utilization float64 `json:"percentage"`
}

// StakingYield is the VVV staking yield response.
type StakingYield struct {
	CurrentAPY  float64 `json:"current_apy"`
	TotalStaked float64 `json:"total_staked"`
}
