package httpclient

import "context"

// Doer sends runtime requests. HTTPClient talks to a server over the network;
// TestHTTPClient serves requests from an in-process handler.
type Doer interface {
	Do(ctx context.Context, opts RequestOptions) (*Response, error)
}
