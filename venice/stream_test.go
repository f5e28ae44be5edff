package venice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/venice-ai/venice-go/core"
)

func sseServer(t *testing.T, lines []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("Accept = %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fl := w.(http.Flusher)
		for _, line := range lines {
			fmt.Fprint(w, line)
			fl.Flush()
		}
	}))
}

func chunkLine(content string) string {
	return fmt.Sprintf(`data: {"id":"c1","choices":[{"index":0,"delta":{"content":%q}}]}`+"\n", content)
}

func streamReq() *ChatCompletionRequest {
	return &ChatCompletionRequest{
		Model:    "llama-3.3-70b",
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	}
}

func TestStreamCompletionDeliversChunksInOrder(t *testing.T) {
	srv := sseServer(t, []string{
		chunkLine("Hel"),
		chunkLine("lo"),
		chunkLine("!"),
		"data: [DONE]\n",
	})
	defer srv.Close()

	c := New("k", WithBaseURL(srv.URL))
	stream, err := c.Chat.StreamCompletion(context.Background(), streamReq())
	if err != nil {
		t.Fatalf("StreamCompletion: %v", err)
	}
	defer stream.Close()

	var got string
	for chunk := range stream.Ch {
		got += chunk.Delta()
	}
	if got != "Hello!" {
		t.Errorf("assembled = %q, want %q", got, "Hello!")
	}
	select {
	case <-stream.Done:
	case <-time.After(time.Second):
		t.Fatal("Done not closed after [DONE]")
	}
	if err, ok := <-stream.Err; ok && err != nil {
		t.Errorf("unexpected stream error: %v", err)
	}
}

func TestStreamCompletionCollect(t *testing.T) {
	srv := sseServer(t, []string{
		chunkLine("one "),
		chunkLine("two"),
		`data: {"id":"c1","model":"llama-3.3-70b","choices":[{"index":0,"delta":{},"finish_reason":"stop"}],"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}` + "\n",
		"data: [DONE]\n",
	})
	defer srv.Close()

	c := New("k", WithBaseURL(srv.URL))
	stream, err := c.Chat.StreamCompletion(context.Background(), streamReq())
	if err != nil {
		t.Fatalf("StreamCompletion: %v", err)
	}
	out, err := stream.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if out.Output() != "one two" {
		t.Errorf("Output = %q", out.Output())
	}
	if out.Usage.TotalTokens != 5 {
		t.Errorf("TotalTokens = %d", out.Usage.TotalTokens)
	}
	if len(out.Choices) != 1 || out.Choices[0].FinishReason != "stop" {
		t.Errorf("FinishReason not carried: %+v", out.Choices)
	}
}

func TestStreamMalformedLinesSkipped(t *testing.T) {
	srv := sseServer(t, []string{
		chunkLine("a"),
		"data: {not json}\n",
		chunkLine("b"),
		"data: [DONE]\n",
	})
	defer srv.Close()

	c := New("k", WithBaseURL(srv.URL))
	stream, err := c.Chat.StreamCompletion(context.Background(), streamReq())
	if err != nil {
		t.Fatalf("StreamCompletion: %v", err)
	}
	var got string
	for chunk := range stream.Ch {
		got += chunk.Delta()
	}
	if got != "ab" {
		t.Errorf("assembled = %q, want both healthy chunks", got)
	}
	if err, ok := <-stream.Err; ok && err != nil {
		t.Errorf("malformed line surfaced as error: %v", err)
	}
}

func TestStreamErrorEnvelope(t *testing.T) {
	srv := sseServer(t, []string{
		chunkLine("partial"),
		`data: {"error":{"message":"model overloaded","code":"overloaded"}}` + "\n",
	})
	defer srv.Close()

	c := New("k", WithBaseURL(srv.URL))
	stream, err := c.Chat.StreamCompletion(context.Background(), streamReq())
	if err != nil {
		t.Fatalf("StreamCompletion: %v", err)
	}
	_, err = stream.Collect(context.Background())
	if !errors.Is(err, core.ErrStream) {
		t.Fatalf("err = %v, want stream error", err)
	}
	var ce *core.Error
	if !errors.As(err, &ce) || ce.Message != "model overloaded" {
		t.Errorf("message not carried: %v", err)
	}
	select {
	case <-stream.Done:
	case <-time.After(time.Second):
		t.Fatal("Done not closed after error")
	}
}

func TestStreamEOFWithoutSentinel(t *testing.T) {
	// Connection closes without [DONE]; buffered partial line still parses
	// and the stream ends cleanly.
	srv := sseServer(t, []string{
		chunkLine("x"),
		`data: {"id":"c1","choices":[{"index":0,"delta":{"content":"y"}}]}`, // no trailing newline
	})
	defer srv.Close()

	c := New("k", WithBaseURL(srv.URL))
	stream, err := c.Chat.StreamCompletion(context.Background(), streamReq())
	if err != nil {
		t.Fatalf("StreamCompletion: %v", err)
	}
	var got string
	for chunk := range stream.Ch {
		got += chunk.Delta()
	}
	if got != "xy" {
		t.Errorf("assembled = %q, want %q", got, "xy")
	}
	select {
	case <-stream.Done:
	case <-time.After(time.Second):
		t.Fatal("Done not closed at EOF")
	}
}

func TestStreamNon2xxClassifiedBeforeChunks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-ratelimit-remaining-requests", "0")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer srv.Close()

	c := New("k", WithBaseURL(srv.URL))
	stream, err := c.Chat.StreamCompletion(context.Background(), streamReq())
	if stream != nil {
		t.Fatal("expected no stream on 429")
	}
	if !errors.Is(err, core.ErrRateLimited) {
		t.Fatalf("err = %v, want rate limited", err)
	}
}

func TestStreamCloseReleasesConnection(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fl := w.(http.Flusher)
		fmt.Fprint(w, chunkLine("first"))
		fl.Flush()
		<-release // hold the stream open until the test ends
	}))
	defer srv.Close()
	defer close(release)

	c := New("k", WithBaseURL(srv.URL))
	stream, err := c.Chat.StreamCompletion(context.Background(), streamReq())
	if err != nil {
		t.Fatalf("StreamCompletion: %v", err)
	}
	<-stream.Ch
	stream.Close()

	select {
	case <-stream.Done:
	case <-time.After(2 * time.Second):
		t.Fatal("Done not closed after Close")
	}
	// Close again is a no-op.
	stream.Close()
}

func TestStreamValidationBeforeDial(t *testing.T) {
	c := New("k", WithBaseURL("http://127.0.0.1:0"))
	_, err := c.Chat.StreamCompletion(context.Background(), &ChatCompletionRequest{Model: "m"})
	if !errors.Is(err, core.ErrNoMessages) {
		t.Fatalf("err = %v, want missing messages", err)
	}
}
