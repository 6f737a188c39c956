package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/profilekeeper/internal/flagx"
	"github.com/dmitrijs2005/profilekeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Empty fields
// leave the current value alone; LookupDelay is a pointer so that an
// explicit zero can disable the delay.
type JsonConfig struct {
	Source             string          `json:"source"`
	ServerEndpointAddr string          `json:"server_endpoint_addr"`
	ServerHTTPURL      string          `json:"server_http_url"`
	DatabasePath       string          `json:"database_path"`
	KVBackend          string          `json:"kv_backend"`
	RedisAddr          string          `json:"redis_addr"`
	LookupDelay        *timex.Duration `json:"lookup_delay"`
	RequestTimeout     timex.Duration  `json:"request_timeout"`
	LogLevel           string          `json:"log_level"`
}

// parseJSON overlays Config with the file named by -c/-config, if any.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.JSONConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.Source, c.Source)
	setString(&cfg.ServerEndpointAddr, c.ServerEndpointAddr)
	setString(&cfg.ServerHTTPURL, c.ServerHTTPURL)
	setString(&cfg.DatabasePath, c.DatabasePath)
	setString(&cfg.KVBackend, c.KVBackend)
	setString(&cfg.RedisAddr, c.RedisAddr)
	if c.LookupDelay != nil {
		cfg.LookupDelay = c.LookupDelay.Duration
	}
	if c.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = c.RequestTimeout.Duration
	}
	setString(&cfg.LogLevel, c.LogLevel)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
