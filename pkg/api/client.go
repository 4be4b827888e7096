package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/questx-lab/reactrole/pkg/xcontext"
)

const maxBodySize = 4 << 20

// ErrUnreachable wraps the transport errors of a call.
var ErrUnreachable = errors.New("server is unreachable")

type Client interface {
	Header(name, value string) Client
	Query(query Parameter) Client
	Body(body Body) Client
	POST(ctx context.Context, opts ...Opt) (*Response, error)
	GET(ctx context.Context, opts ...Opt) (*Response, error)
	PUT(ctx context.Context, opts ...Opt) (*Response, error)
	PATCH(ctx context.Context, opts ...Opt) (*Response, error)
	DELETE(ctx context.Context, opts ...Opt) (*Response, error)
}

type Generator interface {
	New(path string, args ...any) Client
}

type defaultGenerator struct {
	baseURL string
}

func NewGenerator(baseURL string) *defaultGenerator {
	return &defaultGenerator{baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (g *defaultGenerator) New(path string, args ...any) Client {
	return &defaultClient{
		url:     g.baseURL + fmt.Sprintf(path, args...),
		headers: make(http.Header),
	}
}

type Body interface {
	ToReader() (io.Reader, string, error)
}

type defaultClient struct {
	url     string
	headers http.Header
	query   Parameter
	body    Body
}

func (c *defaultClient) Header(name, value string) Client {
	c.headers.Set(name, value)
	return c
}

func (c *defaultClient) Query(query Parameter) Client {
	c.query = query
	return c
}

func (c *defaultClient) Body(body Body) Client {
	c.body = body
	return c
}

func (c *defaultClient) POST(ctx context.Context, opts ...Opt) (*Response, error) {
	return c.call(ctx, http.MethodPost, opts)
}

func (c *defaultClient) GET(ctx context.Context, opts ...Opt) (*Response, error) {
	return c.call(ctx, http.MethodGet, opts)
}

func (c *defaultClient) PUT(ctx context.Context, opts ...Opt) (*Response, error) {
	return c.call(ctx, http.MethodPut, opts)
}

func (c *defaultClient) PATCH(ctx context.Context, opts ...Opt) (*Response, error) {
	return c.call(ctx, http.MethodPatch, opts)
}

func (c *defaultClient) DELETE(ctx context.Context, opts ...Opt) (*Response, error) {
	return c.call(ctx, http.MethodDelete, opts)
}

func (c *defaultClient) newRequest(ctx context.Context, method string, opts []Opt) (*http.Request, error) {
	url := c.url
	if len(c.query) > 0 {
		url += "?" + c.query.Encode()
	}

	var reader io.Reader
	var contentType string
	if c.body != nil {
		var err error
		reader, contentType, err = c.body.ToReader()
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	for name, values := range c.headers {
		req.Header[name] = values
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for _, opt := range opts {
		opt.Apply(req)
	}

	return req, nil
}

func (c *defaultClient) call(ctx context.Context, method string, opts []Opt) (*Response, error) {
	req, err := c.newRequest(ctx, method, opts)
	if err != nil {
		return nil, err
	}

	result, err := xcontext.HTTPClient(ctx).Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		xcontext.Logger(ctx).Warnf("Cannot call %s %s: %v", method, req.URL.Path, err)
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer result.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(result.Body, maxBodySize))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	return &Response{
		Code:    result.StatusCode,
		Header:  result.Header,
		Body:    decodeBody(raw),
		RawBody: raw,
	}, nil
}
