package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	appDirName = "quotekeeper"

	DriverFile   = "file"
	DriverSQLite = "sqlite"

	SchemeQuotes = "quotes"
	SchemePosts  = "posts"

	defaultQuotesPath = "/api/quotes"
	defaultPostsPath  = "/posts"
)

func defaults() *StructuredConfig {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	dir = filepath.Join(dir, appDirName)

	seed := true

	return &StructuredConfig{
		App: App{
			Version:      "dev",
			SeedDefaults: &seed,
		},
		Storage: Storage{
			Driver:    DriverFile,
			Path:      filepath.Join(dir, "state.json"),
			PrefsPath: filepath.Join(dir, "prefs.toml"),
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 10 * time.Second,
		},
		Adapter: Adapter{
			HTTPAddress:    "http://localhost:8080",
			Scheme:         SchemeQuotes,
			PostsLimit:     5,
			RequestTimeout: 5 * time.Second,
			RetryCount:     2,
		},
		Workers: Workers{
			SyncInterval: 30 * time.Second,
			SyncDeadline: 10 * time.Second,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// defaultAdapterPath returns the collection path of a remote scheme.
func defaultAdapterPath(scheme string) (string, error) {
	switch scheme {
	case SchemeQuotes:
		return defaultQuotesPath, nil
	case SchemePosts:
		return defaultPostsPath, nil
	default:
		return "", fmt.Errorf("%w: unknown scheme %q", ErrInvalidAdapterConfigs, scheme)
	}
}
