package config

import "time"

// User sources.
const (
	SourceMock = "mock"
	SourceHTTP = "http"
	SourceGRPC = "grpc"
)

// Key-value backends of the local store.
const (
	KVSQLite = "sqlite"
	KVRedis  = "redis"
)

// Config holds runtime settings for the ProfileKeeper CLI.
//
// Fields:
//   - Source: where users come from (in-process mock directory or backend).
//   - ServerEndpointAddr / ServerHTTPURL: backend addresses for grpc and http.
//   - DatabasePath: SQLite file of the local session and settings.
//   - KVBackend / RedisAddr: alternative Redis store for the same keys.
//   - LookupDelay: simulated latency of a mock login.
//   - RequestTimeout: upper bound of one remote call.
type Config struct {
	Source             string
	ServerEndpointAddr string
	ServerHTTPURL      string
	DatabasePath       string
	KVBackend          string
	RedisAddr          string
	LookupDelay        time.Duration
	RequestTimeout     time.Duration
	LogLevel           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Source = SourceMock
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.ServerHTTPURL = "http://127.0.0.1:8080"
	c.DatabasePath = "profilekeeper.db"
	c.KVBackend = KVSQLite
	c.RedisAddr = "127.0.0.1:6379"
	c.LookupDelay = 500 * time.Millisecond
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags in args. Later sources take
// precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
