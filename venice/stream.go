package venice

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/venice-ai/venice-go/core"
)

// CompletionStream is an asynchronous sequence of chat completion chunks.
//
// Channel rules:
//   - Ch yields chunks strictly in byte-arrival order and is closed when
//     the stream ends, on every exit path.
//   - Err yields at most one error and is closed with the stream.
//   - Done is closed last, as the terminal completion signal — whether the
//     stream ended via [DONE], natural EOF, a transport error, or consumer
//     cancellation.
//
// The underlying response body is released exactly once, no matter how the
// stream terminates.
type CompletionStream struct {
	Ch   <-chan ChatCompletionChunk
	Err  <-chan error
	Done <-chan struct{}

	cancel context.CancelFunc
}

// Close aborts the stream. It is safe to call multiple times and safe to
// call after the stream has already terminated.
func (s *CompletionStream) Close() {
	s.cancel()
}

// Collect drains the stream, concatenating content deltas in arrival order,
// and returns a ChatCompletion assembled from the chunks. It blocks until
// the stream terminates or ctx is done.
func (s *CompletionStream) Collect(ctx context.Context) (*ChatCompletion, error) {
	var out bytes.Buffer
	completion := &ChatCompletion{Object: "chat.completion"}
	finish := ""

	for {
		select {
		case <-ctx.Done():
			s.Close()
			return nil, classifyTransport(ctx.Err())

		case chunk, ok := <-s.Ch:
			if !ok {
				// Stream ended; surface a late error if one arrived.
				select {
				case err, open := <-s.Err:
					if open && err != nil {
						return nil, err
					}
				default:
				}
				completion.Choices = []Choice{{
					Message:      Message{Role: RoleAssistant, Content: out.String()},
					FinishReason: finish,
				}}
				return completion, nil
			}
			out.WriteString(chunk.Delta())
			if chunk.ID != "" {
				completion.ID = chunk.ID
			}
			if chunk.Model != "" {
				completion.Model = chunk.Model
			}
			if chunk.Created != 0 {
				completion.Created = chunk.Created
			}
			if chunk.Usage != nil {
				completion.Usage = *chunk.Usage
			}
			if fr := chunk.FinishReason(); fr != "" {
				finish = fr
			}

		case err, ok := <-s.Err:
			if ok && err != nil {
				return nil, err
			}
		}
	}
}

// Stream issues a rate-limited request expecting a chunked body and returns
// it as a raw byte stream. Non-2xx responses are classified before any byte
// is handed to the caller. The caller owns the returned reader.
func (c *Client) Stream(ctx context.Context, path string, body any) (io.ReadCloser, error) {
	res, reqID, start, err := c.openStream(ctx, path, body)
	if err != nil {
		return nil, err
	}
	c.obs.OnRequestEnd(core.RequestEndEvent{
		RequestID: reqID,
		Method:    http.MethodPost,
		Path:      path,
		Streaming: true,
		Status:    res.StatusCode,
		Start:     start,
		End:       time.Now(),
	})
	return res.Body, nil
}

// openStream performs the streaming round trip: marshal, rate-limit,
// classify. The rate-limiter slot covers the round trip only, not the life
// of the body.
func (c *Client) openStream(ctx context.Context, path string, body any) (*http.Response, string, time.Time, error) {
	reqID := uuid.NewString()
	start := time.Now()
	c.obs.OnRequestStart(core.RequestStartEvent{
		RequestID: reqID,
		Method:    http.MethodPost,
		Path:      path,
		Streaming: true,
		Start:     start,
	})

	payload, err := json.Marshal(body)
	if err != nil {
		verr := core.NewValidationError("encode_error", "encoding request body: "+err.Error())
		c.streamEndEvent(reqID, path, 0, start, verr)
		return nil, "", time.Time{}, verr
	}

	var res *http.Response
	err = c.limiter.Do(ctx, func() error {
		httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if reqErr != nil {
			return core.NewValidationError("bad_request", "building request: "+reqErr.Error())
		}
		httpReq.Header = c.snapshotHeaders(nil)
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "text/event-stream")

		r, doErr := c.hc.Do(httpReq)
		if doErr != nil {
			return classifyTransport(doErr)
		}
		if r.StatusCode >= 400 {
			defer r.Body.Close()
			data, _ := io.ReadAll(r.Body)
			return classifyStatus(r.StatusCode, r.Header, data)
		}
		res = r
		return nil
	})
	if err != nil {
		c.streamEndEvent(reqID, path, 0, start, err)
		return nil, "", time.Time{}, err
	}
	if res.Body == nil {
		serr := streamError("response has no body", nil)
		c.streamEndEvent(reqID, path, res.StatusCode, start, serr)
		return nil, "", time.Time{}, serr
	}
	return res, reqID, start, nil
}

func (c *Client) streamEndEvent(reqID, path string, status int, start time.Time, err error) {
	c.obs.OnRequestEnd(core.RequestEndEvent{
		RequestID: reqID,
		Method:    http.MethodPost,
		Path:      path,
		Streaming: true,
		Status:    status,
		Start:     start,
		End:       time.Now(),
		Err:       err,
	})
}

// newCompletionStream starts the SSE consumer goroutine over an open body.
// cancel must abort the underlying HTTP request so Close can unblock a
// pending body read.
func (c *Client) newCompletionStream(ctx context.Context, cancel context.CancelFunc, body io.ReadCloser, reqID, path string, status int, start time.Time) *CompletionStream {
	chunkCh := make(chan ChatCompletionChunk, 16)
	errCh := make(chan error, 1)
	doneCh := make(chan struct{})

	go c.consumeSSE(ctx, body, chunkCh, errCh, doneCh, reqID, path, status, start)

	return &CompletionStream{
		Ch:     chunkCh,
		Err:    errCh,
		Done:   doneCh,
		cancel: cancel,
	}
}

// consumeSSE reads the body incrementally, feeds the SSE scanner, and
// yields parsed chunks. Malformed lines are logged and skipped — one
// corrupt increment never aborts a healthy stream. All channels close and
// the body is released on every exit path.
func (c *Client) consumeSSE(
	ctx context.Context,
	body io.ReadCloser,
	chunkCh chan<- ChatCompletionChunk,
	errCh chan<- error,
	doneCh chan<- struct{},
	reqID, path string,
	status int,
	start time.Time,
) {
	var streamErr error
	defer func() {
		c.streamEndEvent(reqID, path, status, start, streamErr)
	}()
	defer close(doneCh)
	defer close(errCh)
	defer close(chunkCh)
	defer body.Close()

	fail := func(err error) {
		streamErr = err
		errCh <- err
	}

	scanner := &sseScanner{}
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			fail(streamError("stream aborted", ctx.Err()))
			return
		default:
		}

		n, err := body.Read(buf)
		if n > 0 {
			if !c.emitPayloads(ctx, scanner.feed(buf[:n]), chunkCh, fail) {
				return
			}
			if scanner.terminated() {
				// [DONE]: trailing bytes are ignored by contract.
				return
			}
		}
		if err != nil {
			if err == io.EOF {
				c.emitPayloads(ctx, scanner.flush(), chunkCh, fail)
				return
			}
			fail(streamError("reading stream body", err))
			return
		}
	}
}

// emitPayloads parses and yields a batch of data payloads. Returns false
// when the stream must stop (embedded error envelope or cancellation).
func (c *Client) emitPayloads(
	ctx context.Context,
	payloads [][]byte,
	chunkCh chan<- ChatCompletionChunk,
	fail func(error),
) bool {
	for _, payload := range payloads {
		var chunk ChatCompletionChunk
		if err := json.Unmarshal(payload, &chunk); err != nil {
			c.log.Warn().
				Err(err).
				Str("payload", truncateForLog(payload)).
				Msg("skipping malformed stream line")
			continue
		}

		if len(chunk.Error) > 0 && string(chunk.Error) != "null" {
			msg, code, _ := parseErrorValue(chunk.Error)
			if msg == "" {
				msg = "stream carried an error envelope"
			}
			fail(&core.Error{Code: code, Message: msg, Err: core.ErrStream})
			return false
		}

		select {
		case chunkCh <- chunk:
		case <-ctx.Done():
			fail(streamError("stream aborted", ctx.Err()))
			return false
		}
	}
	return true
}

func truncateForLog(b []byte) string {
	const max = 200
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "..."
}
