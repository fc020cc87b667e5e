package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/memberportal/internal/logging"
)

// Descriptor says where and how a request is sent. IsFormData marks a
// multipart body, for which the gateway owns the Content-Type header.
type Descriptor struct {
	URL        string
	Method     string
	IsFormData bool
}

// Header is one fragment of request headers. Fragments are merged in
// order; a later fragment overrides an earlier one for the same name.
type Header map[string]string

// BearerHeader returns the Authorization fragment for token.
func BearerHeader(token string) Header {
	return Header{"Authorization": "Bearer " + token}
}

// JSONHeader is the fragment for JSON-bodied requests.
func JSONHeader() Header {
	return Header{"Content-Type": "application/json"}
}

// MergeHeaders folds fragments into one header set. Names are compared in
// canonical form, so "content-type" overrides "Content-Type".
func MergeHeaders(fragments ...Header) http.Header {
	h := make(http.Header)
	for _, f := range fragments {
		for k, v := range f {
			h.Set(k, v)
		}
	}
	return h
}

// Response is the common server envelope. Body keeps the raw payload so
// callers can decode endpoint-specific shapes.
type Response struct {
	Data       json.RawMessage `json:"data,omitempty"`
	Message    string          `json:"message,omitempty"`
	Status     int             `json:"status,omitempty"`
	Success    *bool           `json:"success,omitempty"`
	Body       json.RawMessage `json:"-"`
	StatusCode int             `json:"-"`
}

// Decode unmarshals the raw body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// UnknownMethodResponse is returned for verbs the gateway does not dispatch.
func UnknownMethodResponse() *Response {
	body := []byte(`{"data":0,"message":"Unknown request type!","status":0}`)
	return &Response{
		Data:    json.RawMessage(`0`),
		Message: "Unknown request type!",
		Status:  0,
		Body:    body,
	}
}

// UnauthorizedHandler runs when any call is answered with 401, before the
// error is returned to that call's caller.
type UnauthorizedHandler func(ctx context.Context)

type Options struct {
	HTTPClient     *http.Client
	Logger         logging.Logger
	OnUnauthorized UnauthorizedHandler
}

// Gateway is the single path for server calls. It performs no retries and
// sets no deadline of its own; cancellation comes from the caller's context.
// It is safe for concurrent use.
type Gateway struct {
	http           *http.Client
	log            logging.Logger
	onUnauthorized UnauthorizedHandler
}

func NewGateway(opts Options) *Gateway {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Gateway{http: hc, log: log.With("component", "gateway"), onUnauthorized: opts.OnUnauthorized}
}

// Request sends body to d.URL with the merged headers and returns the
// decoded envelope. Unknown methods yield UnknownMethodResponse and no error.
func (g *Gateway) Request(ctx context.Context, d Descriptor, body any, headers ...Header) (*Response, error) {
	method := strings.ToUpper(d.Method)
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		g.log.Warn(ctx, "unknown request type", "method", d.Method, "url", d.URL)
		return UnknownMethodResponse(), nil
	}

	req, err := g.newRequest(ctx, method, d, body, headers)
	if err != nil {
		return nil, &Error{Method: method, URL: d.URL, Err: err}
	}

	g.log.Debug(ctx, "request", "method", method, "url", d.URL)
	resp, err := g.http.Do(req)
	if err != nil {
		g.log.Warn(ctx, "transport failure", "method", method, "url", d.URL, "error", err)
		return nil, &Error{Method: method, URL: d.URL, Err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Method: method, URL: d.URL, Status: resp.StatusCode, Err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, g.failure(ctx, method, d.URL, resp.StatusCode, raw)
	}

	out := &Response{StatusCode: resp.StatusCode}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	if !json.Valid(raw) {
		g.log.Warn(ctx, "malformed response", "method", method, "url", d.URL)
		return nil, &Error{Method: method, URL: d.URL, Status: resp.StatusCode, Err: ErrMalformedResponse}
	}
	// Data falls back to the whole body when the payload is not nested
	// under "data"; shapes that do not fit the envelope still reach the
	// caller through Body.
	_ = json.Unmarshal(raw, out)
	if len(out.Data) == 0 {
		out.Data = raw
	}
	out.Body = raw
	return out, nil
}

func (g *Gateway) newRequest(ctx context.Context, method string, d Descriptor, body any, headers []Header) (*http.Request, error) {
	h := MergeHeaders(headers...)

	var reader io.Reader
	switch {
	case method == http.MethodGet || method == http.MethodDelete:
	case d.IsFormData:
		form, ok := body.(*FormData)
		if !ok || form == nil {
			return nil, ErrFormDataRequired
		}
		buf, contentType, err := form.encode()
		if err != nil {
			return nil, err
		}
		reader = buf
		h.Set("Content-Type", contentType)
	case body != nil:
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(b)
		if h.Get("Content-Type") == "" {
			h.Set("Content-Type", "application/json")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, d.URL, reader)
	if err != nil {
		return nil, err
	}
	if h.Get("Accept") == "" {
		h.Set("Accept", "application/json")
	}
	req.Header = h
	return req, nil
}

func (g *Gateway) failure(ctx context.Context, method, url string, status int, raw []byte) error {
	var envelope struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &envelope)

	e := &Error{Method: method, URL: url, Status: status, Message: envelope.Message, Err: ErrRequestFailed}
	if status == http.StatusUnauthorized {
		e.Err = ErrUnauthorized
		g.log.Warn(ctx, "unauthorized, dropping session", "method", method, "url", url)
		if g.onUnauthorized != nil {
			g.onUnauthorized(ctx)
		}
		return e
	}

	g.log.Warn(ctx, "request failed", "method", method, "url", url, "status", status, "message", envelope.Message)
	return e
}

// IsUnauthorized reports whether err came from a 401 answer.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
