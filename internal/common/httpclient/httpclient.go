// Package httpclient provides a configurable HTTP transport for the runtime
// REST API. It handles authentication via API keys and bearer tokens, optional
// request signing, streamed request bodies and decoding of service error
// responses. The package requires a Configurator implementation for server
// configuration and authentication details.
package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tansive/lexruntime/internal/common/logtrace"
	"github.com/tidwall/gjson"
)

// Configurator defines the interface for providing server configuration and authentication details.
// Implementations must provide server URL, API key, and token management capabilities.
type Configurator interface {
	GetServerURL() string
	GetAPIKey() string
	GetSigningKey() (string, []byte)
	GetToken() string
	GetTokenExpiry() time.Time
}

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// HTTPError represents an error response from the service.
type HTTPError struct {
	StatusCode int    // HTTP status code of the error
	Type       string // service error type, e.g. NotFoundException
	Message    string // error message or response body
	RequestID  string // service request id, if reported
}

// Error implements the error interface for HTTPError.
func (e *HTTPError) Error() string {
	if e.Type != "" {
		return e.Type + ": " + e.Message
	}
	return e.Message
}

// Retryable reports whether the request may succeed if sent again.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// NewHTTPError decodes a service error response. The error type is read from
// the __type body field or the x-amzn-ErrorType header, with any namespace
// prefix and detail suffix removed.
func NewHTTPError(status int, header http.Header, body []byte) *HTTPError {
	e := &HTTPError{
		StatusCode: status,
		RequestID:  header.Get("X-Amzn-RequestId"),
	}
	if gjson.ValidBytes(body) {
		res := gjson.ParseBytes(body)
		e.Type = res.Get("__type").String()
		if msg := res.Get("message"); msg.Exists() {
			e.Message = msg.String()
		} else {
			e.Message = res.Get("Message").String()
		}
	}
	if e.Type == "" {
		e.Type = header.Get("X-Amzn-ErrorType")
	}
	if i := strings.LastIndexByte(e.Type, '#'); i >= 0 {
		e.Type = e.Type[i+1:]
	}
	if i := strings.IndexByte(e.Type, ':'); i >= 0 {
		e.Type = e.Type[:i]
	}
	if e.Message == "" {
		if b := strings.TrimSpace(string(body)); b != "" && !gjson.ValidBytes(body) {
			e.Message = b
		} else if status == http.StatusNotFound && e.Type == "" {
			e.Message = "server doesn't implement this endpoint"
		} else {
			e.Message = http.StatusText(status)
		}
	}
	return e
}

// RequestOptions contains options for making HTTP requests.
// Method and Path are required. At most one of Body and BodyStream is set.
type RequestOptions struct {
	Method     string      // HTTP method (GET, POST, DELETE)
	Path       string      // escaped API endpoint path
	Query      url.Values  // optional query parameters
	Header     http.Header // optional request headers
	Body       []byte      // optional request body
	BodyStream io.Reader   // optional streamed body of unknown length
}

// Response is a successful response. The caller owns Body and must close it.
type Response struct {
	StatusCode    int
	Header        http.Header
	ContentLength int64
	Body          io.ReadCloser
}

// HTTPClient represents a client for making HTTP requests to the runtime.
// It handles authentication, request building, and response processing.
type HTTPClient struct {
	config     Configurator
	signer     Signer
	httpClient *http.Client
}

var _ Doer = (*HTTPClient)(nil)

// ClientOptions contains options for configuring the HTTP client.
type ClientOptions struct {
	DisableCertValidation bool          // If true, skips SSL certificate validation
	Timeout               time.Duration // overall request timeout, zero for none
	HTTPClient            *http.Client  // replaces the default client when set
	Signer                Signer        // replaces the signing key of the Configurator
}

// NewClient creates a new HTTP client using the provided configuration.
// The config parameter must implement the Configurator interface.
func NewClient(config Configurator, opts ...ClientOptions) *HTTPClient {
	clientOpts := ClientOptions{}
	if len(opts) > 0 {
		clientOpts = opts[0]
	}
	httpClient := clientOpts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: clientOpts.Timeout}
		if clientOpts.DisableCertValidation {
			httpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true,
				},
			}
		}
	}
	signer := clientOpts.Signer
	if signer == nil {
		signer = signerFromConfig(config)
	}
	return &HTTPClient{
		config:     config,
		signer:     signer,
		httpClient: httpClient,
	}
}

// Do sends the request. Responses with a status of 400 or above are returned
// as *HTTPError; otherwise the caller owns the returned body.
func (c *HTTPClient) Do(ctx context.Context, opts RequestOptions) (*Response, error) {
	req, err := newRequest(ctx, c.config, c.signer, opts)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return checkResponse(resp)
}

func newRequest(ctx context.Context, config Configurator, signer Signer, opts RequestOptions) (*http.Request, error) {
	u, err := url.Parse(strings.TrimRight(config.GetServerURL(), "/") + "/" + strings.TrimLeft(opts.Path, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if len(opts.Query) > 0 {
		q := u.Query()
		for k, v := range opts.Query {
			q[k] = v
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	switch {
	case opts.BodyStream != nil:
		body = opts.BodyStream
	case opts.Body != nil:
		body = bytes.NewReader(opts.Body)
	}
	req, err := http.NewRequestWithContext(ctx, opts.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if opts.BodyStream != nil {
		req.ContentLength = -1
	}
	for k, v := range opts.Header {
		req.Header[k] = append([]string(nil), v...)
	}
	if req.Header.Get(logtrace.RequestIDHeader) == "" {
		if id := logtrace.RequestIDFromContext(ctx); id != "" {
			req.Header.Set(logtrace.RequestIDHeader, id)
		}
	}
	if auth := authorization(config, time.Now()); auth != "" {
		req.Header.Set("Authorization", auth)
	}
	if signer != nil {
		var payload []byte
		if opts.BodyStream == nil {
			payload = opts.Body
			if payload == nil {
				payload = []byte{}
			}
		}
		if err := signer.Sign(req, payload); err != nil {
			return nil, fmt.Errorf("failed to sign request: %w", err)
		}
	}
	return req, nil
}

func checkResponse(resp *http.Response) (*Response, error) {
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		return nil, NewHTTPError(resp.StatusCode, resp.Header, body)
	}
	return &Response{
		StatusCode:    resp.StatusCode,
		Header:        resp.Header,
		ContentLength: resp.ContentLength,
		Body:          resp.Body,
	}, nil
}

// authorization picks the bearer credential. A token is used while it is
// unexpired; its expiry comes from the Configurator or, failing that, from the
// exp claim of a JWT. Opaque tokens without an expiry are always used. Once
// the token expires the API key is used instead.
func authorization(config Configurator, now time.Time) string {
	if token := config.GetToken(); token != "" {
		expiry := config.GetTokenExpiry()
		if expiry.IsZero() {
			expiry = TokenExpiry(token)
		}
		if expiry.IsZero() || now.Before(expiry) {
			return "Bearer " + token
		}
	}
	if key := config.GetAPIKey(); key != "" {
		return "Bearer " + key
	}
	return ""
}

// TokenExpiry reads the exp claim of a JWT without verifying it. It returns
// the zero time if token is not a JWT or has no expiry.
func TokenExpiry(token string) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
