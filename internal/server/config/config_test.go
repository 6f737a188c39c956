package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, SnapshotNone, c.SnapshotBackend)
	assert.Equal(t, time.Hour, c.AccessTokenValidityDuration)
	assert.True(t, c.Seed)
	require.NoError(t, c.Validate())
}

func TestLoadConfig_NoArgs(t *testing.T) {
	c, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(defaults(), c))
}

func TestLoadConfig_Flags(t *testing.T) {
	c, err := LoadConfig([]string{
		"-a", "127.0.0.1:9090", "-h", ":9091", "-s", "secret", "-t", "5",
		"-b", "s3", "-f", "snap.json", "-x", "pass", "-d", "db",
		"-u", "user", "-p", "password", "-k", "bucket", "-g", "us-west-1", "-e", "http://endpoint", "-o", "users.json",
		"-seed=false", "-v", "debug", "-unknown", "x",
	})
	require.NoError(t, err)

	want := &Config{
		EndpointAddrGRPC:            "127.0.0.1:9090",
		EndpointAddrHTTP:            ":9091",
		SecretKey:                   "secret",
		AccessTokenValidityDuration: 5 * time.Minute,
		SnapshotBackend:             SnapshotS3,
		SnapshotFile:                "snap.json",
		SnapshotPassphrase:          "pass",
		DatabaseDSN:                 "db",
		S3RootUser:                  "user",
		S3RootPassword:              "password",
		S3Bucket:                    "bucket",
		S3Region:                    "us-west-1",
		S3BaseEndpoint:              "http://endpoint",
		S3Key:                       "users.json",
		Seed:                        false,
		LogLevel:                    "debug",
	}
	assert.Empty(t, cmp.Diff(want, c))
}

func TestLoadConfig_JSONThenFlags(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_grpc":             "json:1",
		"secret_key":                     "json-secret",
		"access_token_validity_duration": "2m",
		"snapshot_backend":               "postgres",
		"database_dsn":                   "postgres://json",
		"seed":                           false,
	})

	c, err := LoadConfig([]string{"-c", path, "-a", "flag:2"})
	require.NoError(t, err)

	assert.Equal(t, "flag:2", c.EndpointAddrGRPC, "flags win over json")
	assert.Equal(t, "json-secret", c.SecretKey)
	assert.Equal(t, 2*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, SnapshotPostgres, c.SnapshotBackend)
	assert.Equal(t, "postgres://json", c.DatabaseDSN)
	assert.False(t, c.Seed)
	assert.Equal(t, ":8080", c.EndpointAddrHTTP, "untouched fields keep defaults")
}

func TestLoadConfig_Errors(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))

	tests := []struct {
		name string
		args []string
	}{
		{"missing json", []string{"-config", filepath.Join(t.TempDir(), "none.json")}},
		{"broken json", []string{"-c", bad}},
		{"bad int flag", []string{"-t", "soon"}},
		{"unknown backend", []string{"-b", "tape"}},
		{"empty secret", []string{"-s", ""}},
		{"zero validity", []string{"-t", "0"}},
		{"bad log level", []string{"-v", "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(tt.args)
			assert.Error(t, err)
		})
	}
}
