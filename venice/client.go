package venice

import (
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/venice-ai/venice-go/core"
)

// DefaultBaseURL is the production Venice API endpoint.
const DefaultBaseURL = "https://api.venice.ai/api/v1"

// Client is the entry point for the Venice API. Client is safe for
// concurrent use; default headers and keys may be swapped between requests,
// and every in-flight request works on the snapshot it took at dispatch.
type Client struct {
	baseURL string
	hc      *http.Client
	limiter *core.Limiter
	obs     core.Observer
	log     zerolog.Logger
	timeout time.Duration

	mu       sync.RWMutex
	apiKey   core.Secret
	adminKey core.Secret
	headers  http.Header // extra default headers

	mwMu        sync.RWMutex
	middlewares []namedMiddleware

	// Resource services.
	Chat       *ChatService
	Images     *ImageService
	Models     *ModelService
	Keys       *KeyService
	Characters *CharacterService
	VVV        *VVVService
}

// Option configures a Client.
type Option func(*Client)

// New creates a Client authenticated with the given API key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		hc:      http.DefaultClient,
		obs:     core.NopObserver{},
		log:     zerolog.Nop(),
		apiKey:  core.NewSecret(apiKey),
		headers: make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.limiter == nil {
		c.limiter = core.NewLimiter(core.LimiterConfig{})
	}

	c.Chat = &ChatService{client: c}
	c.Images = &ImageService{client: c}
	c.Models = &ModelService{client: c}
	c.Keys = &KeyService{client: c}
	c.Characters = &CharacterService{client: c}
	c.VVV = &VVVService{client: c}
	return c
}

// WithBaseURL overrides the API base URL. A trailing slash is trimmed.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		for len(url) > 0 && url[len(url)-1] == '/' {
			url = url[:len(url)-1]
		}
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithTimeout sets a default per-request timeout. Zero means no timeout.
// A Request's own Timeout field takes precedence.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithAdminKey sets the admin API key used by key-management endpoints.
func WithAdminKey(key string) Option {
	return func(c *Client) { c.adminKey = core.NewSecret(key) }
}

// WithHeaders sets extra default headers sent on every request.
func WithHeaders(h http.Header) Option {
	return func(c *Client) {
		if h != nil {
			c.headers = h.Clone()
		}
	}
}

// WithRateLimit configures the request rate limiter.
func WithRateLimit(cfg core.LimiterConfig) Option {
	return func(c *Client) { c.limiter = core.NewLimiter(cfg) }
}

// WithObserver sets the request lifecycle observer.
func WithObserver(obs core.Observer) Option {
	return func(c *Client) {
		if obs != nil {
			c.obs = obs
		}
	}
}

// WithLogger sets the logger used for diagnostics such as skipped stream
// lines. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// SetAPIKey replaces the API key. Requests already dispatched keep the key
// they captured.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = core.NewSecret(key)
	c.mu.Unlock()
}

// SetAdminKey replaces the admin API key.
func (c *Client) SetAdminKey(key string) {
	c.mu.Lock()
	c.adminKey = core.NewSecret(key)
	c.mu.Unlock()
}

// snapshotHeaders builds the full header set for one request: bearer auth
// and client defaults, with per-request headers layered on top. The copy is
// taken under lock so a concurrent SetAPIKey cannot tear an in-flight
// request.
func (c *Client) snapshotHeaders(req *Request) http.Header {
	h := make(http.Header)

	c.mu.RLock()
	key := c.apiKey
	if req != nil && req.UseAdminKey && !c.adminKey.IsEmpty() {
		key = c.adminKey
	}
	for name, values := range c.headers {
		for _, v := range values {
			h.Add(name, v)
		}
	}
	c.mu.RUnlock()

	if !key.IsEmpty() {
		h.Set("Authorization", "Bearer "+key.Expose())
	}
	h.Set("Accept", "application/json")

	if req != nil {
		for name, values := range req.Header {
			h.Del(name)
			for _, v := range values {
				h.Add(name, v)
			}
		}
	}
	return h
}
