package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tansive/lexruntime/pkg/api"
	"github.com/tansive/lexruntime/pkg/sessionstore"
)

// target is the bot, alias and user a command talks to.
type target struct {
	Bot   string
	Alias string
	User  string
}

// resolveTarget merges the command line flags over the configured defaults.
func resolveTarget(cfg *Config) (target, error) {
	t := target{Bot: botName, Alias: botAlias, User: userID}
	if cfg != nil {
		if t.Bot == "" {
			t.Bot = cfg.Bot
		}
		if t.Alias == "" {
			t.Alias = cfg.Alias
		}
		if t.User == "" {
			t.User = cfg.User
		}
	}
	switch {
	case t.Bot == "":
		return t, fmt.Errorf("bot name is required (use --bot or set bot in the config file)")
	case t.Alias == "":
		return t, fmt.Errorf("bot alias is required (use --alias or set alias in the config file)")
	case t.User == "":
		return t, fmt.Errorf("user id is required (use --user or set user in the config file)")
	}
	return t, nil
}

// newAPIClient builds a client from the loaded configuration.
func newAPIClient(cfg *Config) (*api.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	opts := []api.ClientOption{
		api.WithLogger(log.Logger),
		api.WithRequestValidation(cfg.Validate),
		api.WithInsecureSkipVerify(cfg.Insecure),
	}
	if d := cfg.timeout(); d > 0 {
		opts = append(opts, api.WithTimeout(d))
	}
	if cfg.MaxRetries != nil {
		opts = append(opts, api.WithMaxRetries(*cfg.MaxRetries))
	}
	var store sessionstore.Store
	if cfg.SessionStore != "" {
		var err error
		if store, err = sessionstore.Open(cfg.SessionStore); err != nil {
			return nil, fmt.Errorf("unable to open session store: %w", err)
		}
		opts = append(opts, api.WithSessionStore(store))
	}
	client, err := api.NewClient(cfg, opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return client, nil
}
