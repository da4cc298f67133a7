package api

import (
	"time"

	"github.com/tansive/lexruntime/internal/common/httpclient"
)

// Config is a static httpclient.Configurator.
type Config struct {
	Endpoint    string
	APIKey      string
	Token       string
	TokenExpiry time.Time
	KeyID       string
	SigningKey  []byte // ed25519 private key; requests are signed when set
}

var _ httpclient.Configurator = (*Config)(nil)

func (c *Config) GetServerURL() string            { return c.Endpoint }
func (c *Config) GetAPIKey() string               { return c.APIKey }
func (c *Config) GetSigningKey() (string, []byte) { return c.KeyID, c.SigningKey }
func (c *Config) GetToken() string                { return c.Token }
func (c *Config) GetTokenExpiry() time.Time       { return c.TokenExpiry }
