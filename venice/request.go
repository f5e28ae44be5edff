package venice

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/venice-ai/venice-go/core"
)

// Request is the envelope handed to the pipeline. Optional knobs are named
// fields, not an open-ended map.
type Request struct {
	Method string
	Path   string // relative to the base URL, with leading slash

	// Body is JSON-serialized unless Form is set.
	Body any

	// Form builds a multipart/form-data body; it takes precedence over
	// Body and sets the boundary header automatically.
	Form *Form

	Query  url.Values
	Header http.Header // merged over client defaults

	// Timeout overrides the client default for this request. Zero keeps
	// the default.
	Timeout time.Duration

	// UseAdminKey authenticates with the admin key when one is configured.
	UseAdminKey bool
}

// Form describes a multipart/form-data body.
type Form struct {
	Fields map[string]string
	Files  []FormFile
}

// FormFile is one binary part of a multipart form.
type FormFile struct {
	Field   string
	Name    string
	Content []byte
}

// Response is the envelope returned on success. The body is read exactly
// once, into Body; Decode unmarshals it without re-reading.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &core.Error{
			Status:  r.Status,
			Code:    "decode_error",
			Message: "decoding response body: " + err.Error(),
			Err:     core.ErrAPI,
			Cause:   err,
		}
	}
	return nil
}

// Do executes one request through the middleware chain, the rate limiter,
// and the transport. It returns either a complete Response or a typed
// *core.Error — no partial states are observable.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	rt := c.applyMiddleware(c.dispatch)
	return rt(ctx, req)
}

// Get issues a GET request and decodes the response into out when non-nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, &Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, &Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, &Request{Method: http.MethodDelete, Path: path, Query: query}, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

func (c *Client) call(ctx context.Context, req *Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

// dispatch is the innermost RoundTripFunc: observer events around a
// rate-limited transport round trip.
func (c *Client) dispatch(ctx context.Context, req *Request) (*Response, error) {
	reqID := uuid.NewString()
	start := time.Now()
	c.obs.OnRequestStart(core.RequestStartEvent{
		RequestID: reqID,
		Method:    req.Method,
		Path:      req.Path,
		Start:     start,
	})

	var resp *Response
	err := c.limiter.Do(ctx, func() error {
		r, sendErr := c.send(ctx, req)
		resp = r
		return sendErr
	})

	status := 0
	if resp != nil {
		status = resp.Status
	}
	c.obs.OnRequestEnd(core.RequestEndEvent{
		RequestID: reqID,
		Method:    req.Method,
		Path:      req.Path,
		Status:    status,
		Start:     start,
		End:       time.Now(),
		Err:       err,
	})
	return resp, err
}

// send performs the actual transport round trip.
func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	if t := c.effectiveTimeout(req); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.requestURL(req), body)
	if err != nil {
		return nil, core.NewValidationError("bad_request", "building request: "+err.Error())
	}
	httpReq.Header = c.snapshotHeaders(req)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	res, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, classifyTransport(err)
	}

	if res.StatusCode >= 400 {
		return nil, classifyStatus(res.StatusCode, res.Header, data)
	}
	return &Response{Status: res.StatusCode, Header: res.Header, Body: data}, nil
}

func (c *Client) effectiveTimeout(req *Request) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	return c.timeout
}

func (c *Client) requestURL(req *Request) string {
	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}

// encodeBody serializes the request body: multipart when Form is set, JSON
// when Body is set, empty otherwise.
func encodeBody(req *Request) (io.Reader, string, error) {
	if req.Form != nil {
		return encodeForm(req.Form)
	}
	if req.Body == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", core.NewValidationError("encode_error", "encoding request body: "+err.Error())
	}
	return bytes.NewReader(data), "application/json", nil
}

func encodeForm(form *Form) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range form.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", core.NewValidationError("encode_error", "writing form field "+name+": "+err.Error())
		}
	}
	for _, f := range form.Files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, "", core.NewValidationError("encode_error", "creating form file "+f.Field+": "+err.Error())
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", core.NewValidationError("encode_error", "writing form file "+f.Field+": "+err.Error())
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", core.NewValidationError("encode_error", "finalizing form: "+err.Error())
	}
	return &buf, w.FormDataContentType(), nil
}
