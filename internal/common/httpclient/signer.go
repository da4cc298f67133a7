package httpclient

import (
	"crypto/ed25519"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

// Signature headers set by Ed25519Signer.
const (
	HeaderSignature          = "X-Lex-Signature"
	HeaderSignatureTimestamp = "X-Lex-Signature-Timestamp"
	HeaderSignatureKeyID     = "X-Lex-Key-Id"
)

// UnsignedPayload stands in for a streamed body in the string to sign.
const UnsignedPayload = "UNSIGNED-PAYLOAD"

// Signer adds authentication to an outgoing request. payload is the request
// body, or nil when the body is streamed and cannot be read ahead.
type Signer interface {
	Sign(req *http.Request, payload []byte) error
}

// SignerFunc adapts a function to Signer.
type SignerFunc func(req *http.Request, payload []byte) error

func (f SignerFunc) Sign(req *http.Request, payload []byte) error {
	return f(req, payload)
}

// Ed25519Signer signs method, path, query, payload and timestamp joined by
// newlines.
type Ed25519Signer struct {
	KeyID string
	Key   ed25519.PrivateKey
	Now   func() time.Time
}

func (s *Ed25519Signer) Sign(req *http.Request, payload []byte) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	timestamp := now().UTC().Format(time.RFC3339)
	req.Header.Set(HeaderSignature, base64.StdEncoding.EncodeToString(ed25519.Sign(s.Key, StringToSign(req, payload, timestamp))))
	req.Header.Set(HeaderSignatureTimestamp, timestamp)
	req.Header.Set(HeaderSignatureKeyID, s.KeyID)
	return nil
}

// StringToSign builds the canonical string an Ed25519Signer signs.
func StringToSign(req *http.Request, payload []byte, timestamp string) []byte {
	body := UnsignedPayload
	if payload != nil {
		body = string(payload)
	}
	return []byte(strings.Join([]string{
		req.Method,
		req.URL.EscapedPath(),
		req.URL.RawQuery,
		body,
		timestamp,
	}, "\n"))
}

func signerFromConfig(config Configurator) Signer {
	keyID, key := config.GetSigningKey()
	if len(key) != ed25519.PrivateKeySize {
		return nil
	}
	return &Ed25519Signer{KeyID: keyID, Key: ed25519.PrivateKey(key)}
}
