package api

import (
	"context"
	"errors"
	"fmt"
)

var errMockNotImplemented = errors.New("not implemented")

// MockAPIGenerator returns the same MockClient for every path.
type MockAPIGenerator struct {
	MockClient MockAPIClient

	// Paths records every path passed to New.
	Paths []string
}

func (m *MockAPIGenerator) New(path string, args ...any) Client {
	m.Paths = append(m.Paths, fmt.Sprintf(path, args...))
	return &m.MockClient
}

type verbFunc func(ctx context.Context, opts ...Opt) (*Response, error)

// MockAPIClient records the headers, query and body set by the caller. A verb
// without its func returns an error.
type MockAPIClient struct {
	Headers   map[string]string
	LastQuery Parameter
	LastBody  Body

	POSTFunc   verbFunc
	GETFunc    verbFunc
	PUTFunc    verbFunc
	PATCHFunc  verbFunc
	DELETEFunc verbFunc
}

func (c *MockAPIClient) Header(name, value string) Client {
	if c.Headers == nil {
		c.Headers = map[string]string{}
	}
	c.Headers[name] = value
	return c
}

func (c *MockAPIClient) Query(query Parameter) Client {
	c.LastQuery = query
	return c
}

func (c *MockAPIClient) Body(body Body) Client {
	c.LastBody = body
	return c
}

func (c *MockAPIClient) POST(ctx context.Context, opts ...Opt) (*Response, error) {
	return callMock(ctx, c.POSTFunc, opts)
}

func (c *MockAPIClient) GET(ctx context.Context, opts ...Opt) (*Response, error) {
	return callMock(ctx, c.GETFunc, opts)
}

func (c *MockAPIClient) PUT(ctx context.Context, opts ...Opt) (*Response, error) {
	return callMock(ctx, c.PUTFunc, opts)
}

func (c *MockAPIClient) PATCH(ctx context.Context, opts ...Opt) (*Response, error) {
	return callMock(ctx, c.PATCHFunc, opts)
}

func (c *MockAPIClient) DELETE(ctx context.Context, opts ...Opt) (*Response, error) {
	return callMock(ctx, c.DELETEFunc, opts)
}

func callMock(ctx context.Context, fn verbFunc, opts []Opt) (*Response, error) {
	if fn == nil {
		return nil, errMockNotImplemented
	}

	return fn(ctx, opts...)
}
