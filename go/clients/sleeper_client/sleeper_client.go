package sleeper_client

import (
	"net/http"
	"time"

	"github.com/mcdev12/playoffpool/go/clients"
)

// Config controls how the client reaches Sleeper.
type Config struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	RequestDelay time.Duration `yaml:"request_delay"`
}

// DefaultConfig allows a minute for the full player dump.
func DefaultConfig() Config {
	return Config{
		BaseURL:      BaseURL,
		Timeout:      time.Minute,
		RequestDelay: 500 * time.Millisecond,
	}
}

type SleeperClient struct {
	*clients.BaseClient
}

func NewSleeperClient(cfg Config) *SleeperClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	client := &SleeperClient{
		BaseClient: clients.NewBaseClient(cfg.BaseURL),
	}
	client.SetHeader("accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	client.SetRateLimit(cfg.RequestDelay)
	return client
}

// WithHTTPClient replaces the transport and returns the client.
func (c *SleeperClient) WithHTTPClient(hc *http.Client) *SleeperClient {
	c.SetHTTPClient(hc)
	return c
}
