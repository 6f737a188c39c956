package config

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profilekeeper/internal/logging"
)

func (c *Config) Validate() error {
	switch c.Source {
	case SourceMock, SourceHTTP, SourceGRPC:
	default:
		return fmt.Errorf("unknown source %q", c.Source)
	}
	switch c.KVBackend {
	case KVSQLite:
		if c.DatabasePath == "" {
			return errors.New("database path must not be empty")
		}
	case KVRedis:
		if c.RedisAddr == "" {
			return errors.New("redis address must not be empty")
		}
	default:
		return fmt.Errorf("unknown key-value backend %q", c.KVBackend)
	}
	if c.LookupDelay < 0 {
		return errors.New("lookup delay must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
