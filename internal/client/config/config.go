// Package config holds the settings of the gophauth command-line client.
package config

import "time"

// Config holds runtime settings for the client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the auth gRPC endpoint.
//   - RequestTimeout: deadline applied to every call.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig applies defaults, then overlays values from JSON (if present)
// and command-line flags (if present). Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
