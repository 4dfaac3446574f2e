package espn_client

import (
	"net/http"
	"time"

	"github.com/mcdev12/playoffpool/go/clients"
)

// Config controls how the client reaches ESPN.
type Config struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	RequestDelay time.Duration `yaml:"request_delay"`
}

// DefaultConfig paces requests 200ms apart.
func DefaultConfig() Config {
	return Config{
		BaseURL:      BaseURL,
		Timeout:      30 * time.Second,
		RequestDelay: 200 * time.Millisecond,
	}
}

type ESPNClient struct {
	*clients.BaseClient
}

func NewESPNClient(cfg Config) *ESPNClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	client := &ESPNClient{
		BaseClient: clients.NewBaseClient(cfg.BaseURL),
	}
	client.SetHeader(JsonHeader, JsonContentType)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	client.SetRateLimit(cfg.RequestDelay)
	return client
}

// WithHTTPClient replaces the transport and returns the client.
func (c *ESPNClient) WithHTTPClient(hc *http.Client) *ESPNClient {
	c.SetHTTPClient(hc)
	return c
}
