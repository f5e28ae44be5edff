// Package venice is a client for the Venice AI inference API.
//
// # Client
//
// Construct a [Client] with an API key and reach the API through its
// resource services:
//
//	client := venice.New(apiKey)
//	resp, err := client.Chat.CreateCompletion(ctx, &venice.ChatCompletionRequest{
//	    Model:    "llama-3.3-70b",
//	    Messages: []venice.Message{{Role: venice.RoleUser, Content: "Hello"}},
//	})
//
// Every request flows through one pipeline: default headers are snapshotted
// at dispatch, the rate limiter grants a slot, the transport executes, and
// failures are classified into typed [core.Error] values. A call either
// returns a complete result or a typed error — never both, never a partial
// response.
//
// # Streaming
//
// Chat completions stream over Server-Sent Events:
//
//	stream, err := client.Chat.StreamCompletion(ctx, req)
//	if err != nil {
//	    return err
//	}
//	defer stream.Close()
//	for chunk := range stream.Ch {
//	    fmt.Print(chunk.Delta())
//	}
//
// The stream's channels close on every exit path — [DONE] sentinel, natural
// end of stream, transport error, or consumer cancellation — and the
// underlying response body is released exactly once.
//
// # Middleware
//
// Named middleware wraps the request pipeline onion-style: registration
// order outermost-first on the way out, reverse on the way back:
//
//	client.Use("timing", func(next venice.RoundTripFunc) venice.RoundTripFunc {
//	    return func(ctx context.Context, req *venice.Request) (*venice.Response, error) {
//	        start := time.Now()
//	        resp, err := next(ctx, req)
//	        log.Printf("%s %s took %s", req.Method, req.Path, time.Since(start))
//	        return resp, err
//	    }
//	})
package venice
