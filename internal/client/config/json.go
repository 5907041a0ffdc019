package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

type JsonConfig struct {
	ServerEndpointAddr string          `json:"server_endpoint_addr"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
}

// parseJson overlays values from the file named by -c or -config.
// It panics when the file cannot be read or parsed.
func parseJson(cfg *Config) {
	path := flagx.ConfigFileFlags().JSON
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = c.ServerEndpointAddr
	}
	if c.RequestTimeout != nil {
		cfg.RequestTimeout = c.RequestTimeout.Duration
	}
}
