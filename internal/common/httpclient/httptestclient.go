package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
)

// TestHTTPClient serves requests with an http.Handler in-process using
// httptest.NewRecorder. It builds requests exactly like HTTPClient, so
// handlers see the same headers, authentication and signatures.
type TestHTTPClient struct {
	config  Configurator
	signer  Signer
	handler http.Handler
}

var _ Doer = (*TestHTTPClient)(nil)

// NewTestClient creates a test client that routes every request to handler.
func NewTestClient(config Configurator, handler http.Handler) *TestHTTPClient {
	return &TestHTTPClient{
		config:  config,
		signer:  signerFromConfig(config),
		handler: handler,
	}
}

// Do serves the request and applies the same status handling as HTTPClient.
func (c *TestHTTPClient) Do(ctx context.Context, opts RequestOptions) (*Response, error) {
	req, err := newRequest(ctx, c.config, c.signer, opts)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// server-side requests always carry a body
	if req.Body == nil {
		req.Body = http.NoBody
	}
	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)
	return checkResponse(rr.Result())
}
