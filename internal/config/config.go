// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-quote-keeper binaries. It aggregates all sub-configurations and is
// populated by merging values from command-line flags, environment variables,
// an optional JSON file and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the persistence backends: the local
	// state document of the client and the database of the stand-in server.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the stand-in
	// remote endpoint.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the remote endpoint settings used by the client.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for the background sync scheduler.
	Workers Workers `envPrefix:"WORKERS_"`

	// Log holds log level and log file settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application
	// (e.g. "1.2.3"). Exposed via the /api/version endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// SeedDefaults adds the built-in starter quotes when no saved state
	// exists yet.
	// Env: APP_SEED_DEFAULTS
	SeedDefaults *bool `env:"SEED_DEFAULTS"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// Driver selects the client state backend: "file" or "sqlite".
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER"`

	// Path is the JSON state file for the "file" driver or the database
	// file for the "sqlite" driver.
	// Env: STORAGE_PATH
	Path string `env:"PATH"`

	// PrefsPath is the TOML file remembering UI preferences such as the
	// selected category.
	// Env: STORAGE_PREFS_PATH
	PrefsPath string `env:"PREFS_PATH"`

	// DB holds the relational database connection settings of the server.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the PostgreSQL Data Source Name (connection string). Empty
	// means the server keeps quotes in memory.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the settings of the outbound remote endpoint.
type Adapter struct {
	// HTTPAddress is the base URL of the remote endpoint
	// (e.g. "http://localhost:8080", "https://jsonplaceholder.typicode.com").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// Path is the collection path used for fetch and push. Defaults to
	// "/api/quotes" for the quotes scheme and "/posts" for the posts scheme.
	// Env: ADAPTER_PATH
	Path string `env:"PATH"`

	// Scheme names the remote record layout: "quotes" or "posts".
	// Env: ADAPTER_SCHEME
	Scheme string `env:"SCHEME"`

	// PostsLimit caps how many posts are taken from a posts snapshot.
	// Env: ADAPTER_POSTS_LIMIT
	PostsLimit int `env:"POSTS_LIMIT"`

	// RequestTimeout is the network-level timeout of one request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RetryCount is the number of retries of a failed fetch.
	// Env: ADAPTER_RETRY_COUNT
	RetryCount int `env:"RETRY_COUNT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncInterval is the period of scheduled sync cycles.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// SyncDeadline bounds one sync cycle; hitting it counts as a fetch
	// failure.
	// Env: WORKERS_SYNC_DEADLINE
	SyncDeadline time.Duration `env:"SYNC_DEADLINE"`

	// MetricsAddress, when set, makes the long-running client expose
	// Prometheus metrics on this address.
	// Env: WORKERS_METRICS_ADDRESS
	MetricsAddress string `env:"METRICS_ADDRESS"`
}

// Log holds logging settings.
type Log struct {
	// Level is a zerolog level name ("debug", "info", "warn", "error").
	// Env: LOG_LEVEL
	Level string `env:"LEVEL"`

	// FilePath is the client log file. Empty means "logs/quotekeeper.log"
	// next to the executable.
	// Env: LOG_FILE
	FilePath string `env:"FILE"`

	// MaxSizeMB is the rotation size of the client log file.
	// Env: LOG_MAX_SIZE_MB
	MaxSizeMB int `env:"MAX_SIZE_MB"`

	// MaxBackups is the number of rotated client log files kept.
	// Env: LOG_MAX_BACKUPS
	MaxBackups int `env:"MAX_BACKUPS"`
}

// GetStructuredConfig loads and merges the configuration from all available
// sources in the following priority order (earlier sources win for non-zero
// fields):
//  1. Command-line flags
//  2. Environment variables
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// flags may be nil when the caller has no command line.
func GetStructuredConfig(flags *Flags) (*StructuredConfig, error) {
	return newConfigBuilder().
		withFlags(flags).
		withEnv().
		withJSON().
		withDefaults().
		build()
}
