// Package core provides the client-agnostic plumbing for the Venice SDK:
// the typed error hierarchy, the request rate limiter, secret redaction,
// and the request lifecycle observer.
//
// # Error Handling
//
// Every failure surfaced by the SDK is a [*Error] carrying exactly one
// sentinel from this package. Callers branch with errors.Is, never on
// message text:
//
//	resp, err := client.Chat.CreateCompletion(ctx, req)
//	if errors.Is(err, core.ErrRateLimited) {
//	    var apiErr *core.Error
//	    errors.As(err, &apiErr)
//	    // apiErr.RateLimit holds limit/remaining/reset when the server sent them
//	}
//
// Sentinels:
//   - [ErrAPI]: generic non-2xx response
//   - [ErrAuth]: 401
//   - [ErrPaymentRequired]: 402
//   - [ErrRateLimited]: 429, carries reset metadata when available
//   - [ErrCapacity]: 503
//   - [ErrNetwork]: no response received
//   - [ErrTimeout]: client-configured deadline elapsed
//   - [ErrValidation]: malformed caller input, raised before any I/O
//   - [ErrStream]: failure while consuming a streaming body
//
// # Rate Limiting
//
// [Limiter] bounds concurrent in-flight requests and request starts per
// time window. Excess work queues FIFO; nothing is dropped:
//
//	limiter := core.NewLimiter(core.LimiterConfig{MaxConcurrent: 5, PerWindow: 60})
//	err := limiter.Do(ctx, func() error { return doRequest() })
//
// # Observability
//
// [Observer] receives request lifecycle events. It is injected at client
// construction and carries operational metadata only — never API keys,
// prompts, or response content.
package core
