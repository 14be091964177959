package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// Version is shown by the version command and the TUI.
	Version string
	// SeedDefaults adds the starter quotes on first start.
	SeedDefaults bool
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the remote endpoint.
	HTTPAddress string
	// Path is the collection path for fetch and push.
	Path string
	// Scheme is the remote record layout.
	Scheme string
	// PostsLimit caps the records taken from a posts snapshot.
	PostsLimit int
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// RetryCount is the number of fetch retries.
	RetryCount int
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// Driver is "file" or "sqlite".
	Driver string
	// Path is the state file or sqlite database.
	Path string
	// PrefsPath is the preferences file.
	PrefsPath string
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often client sync workers should run.
	SyncInterval time.Duration
	// SyncDeadline bounds one sync cycle.
	SyncDeadline time.Duration
	// MetricsAddress is the optional metrics listen address.
	MetricsAddress string
}

// ClientLog contains client logging settings.
type ClientLog struct {
	Level      string
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Adapter contains remote endpoint settings.
	Adapter ClientAdapter
	// Storage contains client storage settings.
	Storage ClientStorage
	// Workers contains background job settings.
	Workers ClientWorkers
	// Log contains logging settings.
	Log ClientLog
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig(flags *Flags) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(flags)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return newClientConfig(cfg)
}

func newClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	path := cfg.Adapter.Path
	if path == "" {
		var err error
		if path, err = defaultAdapterPath(cfg.Adapter.Scheme); err != nil {
			return nil, err
		}
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			Version:      cfg.App.Version,
			SeedDefaults: cfg.App.SeedDefaults != nil && *cfg.App.SeedDefaults,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			Path:           path,
			Scheme:         cfg.Adapter.Scheme,
			PostsLimit:     cfg.Adapter.PostsLimit,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			RetryCount:     cfg.Adapter.RetryCount,
		},
		Storage: ClientStorage{
			Driver:    cfg.Storage.Driver,
			Path:      cfg.Storage.Path,
			PrefsPath: cfg.Storage.PrefsPath,
		},
		Workers: ClientWorkers{
			SyncInterval:   cfg.Workers.SyncInterval,
			SyncDeadline:   cfg.Workers.SyncDeadline,
			MetricsAddress: cfg.Workers.MetricsAddress,
		},
		Log: ClientLog{
			Level:      cfg.Log.Level,
			FilePath:   cfg.Log.FilePath,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		},
	}

	return clientCfg, clientCfg.validate()
}
