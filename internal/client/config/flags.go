package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Arguments it
// does not know are filtered out with flagx.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&cfg.Source, "m", cfg.Source, "user source: mock, http or grpc")
	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.ServerHTTPURL, "u", cfg.ServerHTTPURL, "base URL of the HTTP API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.KVBackend, "k", cfg.KVBackend, "key-value backend: sqlite or redis")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	lookupDelay := fs.Int("l", int(cfg.LookupDelay.Milliseconds()), "mock lookup delay (in milliseconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := flagx.ParseOwn(fs, args); err != nil {
		return err
	}

	cfg.LookupDelay = time.Duration(*lookupDelay) * time.Millisecond
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	return nil
}
