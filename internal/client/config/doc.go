// Package config loads runtime configuration for the ProfileKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-m string   user source: mock, http or grpc
//	-a string   address:port of the backend gRPC endpoint
//	-u string   base URL of the backend HTTP API
//	-d string   path of the local SQLite database
//	-k string   key-value backend: sqlite or redis
//	-r string   Redis address
//	-l int      simulated lookup delay of the mock source (milliseconds)
//	-t int      timeout of a single remote request (seconds)
//	-v string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "500ms"
// or integer nanoseconds:
//
//	{
//	  "source": "grpc",
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "lookup_delay": "500ms",
//	  "request_timeout": "10s"
//	}
package config
