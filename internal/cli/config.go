package cli

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// ConfigFormatVersion is the current version of the configuration file format
const ConfigFormatVersion = "0.1.0"

// Environment variables that override the config file. They are also read
// from a .env file in the working directory.
const (
	EnvEndpoint = "LEXCTL_ENDPOINT"
	EnvAPIKey   = "LEXCTL_API_KEY"
	EnvToken    = "LEXCTL_TOKEN"
)

// configVersionConstraint accepts any patch release of the current format.
var configVersionConstraint = mustConstraint("~" + ConfigFormatVersion)

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// Config represents the configuration for lexctl. It holds the runtime
// endpoint, credentials and the default bot, alias and user.
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version" toml:"version"`
	// Endpoint is the base URL of the runtime service
	Endpoint string `yaml:"endpoint" toml:"endpoint"`
	// APIKey is sent as a bearer credential when no valid token is set
	APIKey string `yaml:"api_key,omitempty" toml:"api_key,omitempty"`
	// Token is a bearer token, preferred over the API key until it expires
	Token string `yaml:"token,omitempty" toml:"token,omitempty"`
	// TokenExpiry is when Token expires, in RFC 3339
	TokenExpiry string `yaml:"token_expiry,omitempty" toml:"token_expiry,omitempty"`
	// KeyID and SigningKey (base64 ed25519 private key) enable request signing
	KeyID      string `yaml:"key_id,omitempty" toml:"key_id,omitempty"`
	SigningKey string `yaml:"signing_key,omitempty" toml:"signing_key,omitempty"`

	Bot   string `yaml:"bot,omitempty" toml:"bot,omitempty"`
	Alias string `yaml:"alias,omitempty" toml:"alias,omitempty"`
	User  string `yaml:"user,omitempty" toml:"user,omitempty"`

	// SessionStore is memory:// or a redis:// URL
	SessionStore string `yaml:"session_store,omitempty" toml:"session_store,omitempty"`
	Timeout      string `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	MaxRetries   *int   `yaml:"max_retries,omitempty" toml:"max_retries,omitempty"`
	Validate     bool   `yaml:"validate,omitempty" toml:"validate,omitempty"`
	// Insecure skips TLS certificate validation of the endpoint
	Insecure     bool   `yaml:"insecure,omitempty" toml:"insecure,omitempty"`
	LogLevel     string `yaml:"log_level,omitempty" toml:"log_level,omitempty"`
}

var config *Config

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/lexctl on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "lexctl", DefaultConfigFile), nil
}

// LoadConfig loads the configuration from file, YAML or TOML by extension,
// then applies environment overrides.
func LoadConfig(file string) error {
	c, err := ReadConfig(file)
	if err != nil {
		return err
	}
	config = c
	return nil
}

// ReadConfig parses file and applies environment overrides without touching
// the loaded configuration.
func ReadConfig(file string) (*Config, error) {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	c, err := readConfigFile(file)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(envFile()); err != nil {
		return nil, err
	}
	if err := c.ValidateConfig(); err != nil {
		return nil, err
	}
	c.Endpoint = MorphServer(c.Endpoint)
	return c, nil
}

// readConfigFile parses file as it is on disk.
func readConfigFile(file string) (*Config, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	var c Config
	if isTOML(file) {
		if _, err := toml.Decode(string(content), &c); err != nil {
			return nil, fmt.Errorf("unable to parse config file: %w", err)
		}
	} else if err := yaml.Unmarshal(content, &c); err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}
	return &c, nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

func isTOML(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".toml")
}

func envFile() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".env")
}

// applyEnv overrides endpoint and credentials from the process environment,
// falling back to the given .env file. A missing .env file is not an error.
func (cfg *Config) applyEnv(dotenv string) error {
	env, err := loadEnv(dotenv)
	if err != nil {
		return err
	}
	if v := env[EnvEndpoint]; v != "" {
		cfg.Endpoint = v
	}
	if v := env[EnvAPIKey]; v != "" {
		cfg.APIKey = v
	}
	if v := env[EnvToken]; v != "" {
		cfg.Token = v
		cfg.TokenExpiry = ""
	}
	return nil
}

// WriteConfig writes the configuration to file, as TOML if the file name
// ends in .toml and YAML otherwise.
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), os.ModePerm)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	var out []byte
	if isTOML(file) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("unable to generate configuration: %w", err)
		}
		out = buf.Bytes()
	} else if out, err = yaml.Marshal(cfg); err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}

	if err := os.WriteFile(file, out, os.FileMode(0600)); err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}
	return nil
}

// ValidateConfig checks the format version and required fields.
func (cfg *Config) ValidateConfig() error {
	if cfg.Version == "" {
		return errors.New("config version is required")
	}
	v, err := semver.NewVersion(cfg.Version)
	if err != nil {
		return fmt.Errorf("invalid config version %q: %w", cfg.Version, err)
	}
	if !configVersionConstraint.Check(v) {
		return fmt.Errorf("config version %s is not supported, expected %s", cfg.Version, ConfigFormatVersion)
	}
	if cfg.Endpoint == "" {
		return fmt.Errorf("endpoint is required (set it in the config file or %s)", EnvEndpoint)
	}
	if cfg.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Timeout); err != nil {
			return fmt.Errorf("invalid timeout %q: %w", cfg.Timeout, err)
		}
	}
	if cfg.SigningKey != "" {
		if _, err := base64.StdEncoding.DecodeString(cfg.SigningKey); err != nil {
			return fmt.Errorf("signing key must be base64: %w", err)
		}
	}
	return nil
}

// MorphServer ensures the server URL is properly formatted
// Adds https:// prefix if missing and removes trailing slashes
func MorphServer(server string) string {
	if server == "" {
		return server
	}
	server = strings.TrimRight(server, "/")
	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		server = "https://" + server
	}
	return server
}

// GetServerURL returns the properly formatted server URL
func (cfg *Config) GetServerURL() string {
	return MorphServer(cfg.Endpoint)
}

// GetAPIKey returns the API key from the configuration
func (cfg *Config) GetAPIKey() string {
	return cfg.APIKey
}

// GetSigningKey returns the signing key id and the decoded private key.
func (cfg *Config) GetSigningKey() (string, []byte) {
	if cfg.SigningKey == "" {
		return "", nil
	}
	key, err := base64.StdEncoding.DecodeString(cfg.SigningKey)
	if err != nil {
		return "", nil
	}
	return cfg.KeyID, key
}

// GetToken returns the current token from the configuration
func (cfg *Config) GetToken() string {
	return cfg.Token
}

// GetTokenExpiry returns the token expiry time from the configuration
func (cfg *Config) GetTokenExpiry() time.Time {
	if cfg.TokenExpiry == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, cfg.TokenExpiry)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (cfg *Config) timeout() time.Duration {
	d, _ := time.ParseDuration(cfg.Timeout)
	return d
}

func redact(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}

var (
	configEndpoint string
	configAPIKey   string
	configBot      string
	configAlias    string
	configUser     string
	configStore    string
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration settings like the runtime endpoint, credentials and
the default bot, alias and user. The file is YAML unless its name ends in .toml.

Examples:
  # Point lexctl at a runtime endpoint
  lexctl config --endpoint runtime.example.com --bot OrderFlowers --alias PROD

  # Show the current configuration
  lexctl config show`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configEndpoint == "" {
			return cmd.Help()
		}
		return writeConfig(cmd)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration with secrets redacted",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		cfg, err := ReadConfig(path)
		if err != nil {
			return err
		}
		shown := *cfg
		shown.APIKey = redact(cfg.APIKey)
		shown.Token = redact(cfg.Token)
		shown.SigningKey = redact(cfg.SigningKey)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), shown)
		}
		out, err := yaml.Marshal(shown)
		if err != nil {
			return err
		}
		cmd.Printf("# %s\n%s", path, out)
		return nil
	},
}

// configClearCmd removes the stored token.
var configClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the stored token and its expiry",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		cfg, err := readConfigFile(path)
		if err != nil {
			return err
		}
		cfg.Token = ""
		cfg.TokenExpiry = ""
		if err := cfg.WriteConfig(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]int{"result": 1})
		}
		okLabel.Fprintln(cmd.OutOrStdout(), "Token cleared")
		return nil
	},
}

func init() {
	configCmd.Flags().StringVar(&configEndpoint, "endpoint", "", "Runtime endpoint URL (e.g., runtime.example.com)")
	configCmd.Flags().StringVar(&configAPIKey, "api-key", "", "API key")
	configCmd.Flags().StringVar(&configBot, "default-bot", "", "Default bot name")
	configCmd.Flags().StringVar(&configAlias, "default-alias", "", "Default bot alias")
	configCmd.Flags().StringVar(&configUser, "default-user", "", "Default user id")
	configCmd.Flags().StringVar(&configStore, "session-store", "", "Session store URL (memory:// or redis://host:port/db)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configClearCmd)
	rootCmd.AddCommand(configCmd)
}

func configPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return GetDefaultConfigPath()
}

// writeConfig creates the config file from the config command flags.
func writeConfig(cmd *cobra.Command) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	cfg := &Config{
		Version:      ConfigFormatVersion,
		Endpoint:     MorphServer(configEndpoint),
		APIKey:       configAPIKey,
		Bot:          configBot,
		Alias:        configAlias,
		User:         configUser,
		SessionStore: configStore,
	}
	if err := cfg.ValidateConfig(); err != nil {
		return err
	}
	if err := cfg.WriteConfig(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]string{
			"endpoint":    cfg.Endpoint,
			"config_file": path,
		})
	}
	cmd.Printf("Endpoint configured: %s\n", cfg.Endpoint)
	cmd.Printf("Config file: %s\n", path)
	return nil
}
