package config

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profilekeeper/internal/logging"
)

func (c *Config) Validate() error {
	switch c.SnapshotBackend {
	case SnapshotNone, SnapshotFile, SnapshotS3, SnapshotPostgres:
	default:
		return fmt.Errorf("unknown snapshot backend %q", c.SnapshotBackend)
	}
	if c.SecretKey == "" {
		return errors.New("secret key must not be empty")
	}
	if c.AccessTokenValidityDuration <= 0 {
		return errors.New("access token validity must be positive")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
