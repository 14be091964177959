package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the layout of the optional JSON config file.
type StructuredJSONConfig struct {
	App struct {
		Version      string `json:"version"`
		SeedDefaults *bool  `json:"seed_defaults"`
	} `json:"app,omitempty"`

	Storage struct {
		Driver    string `json:"driver"`
		Path      string `json:"path"`
		PrefsPath string `json:"prefs_path"`
		DB        struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		Path           string   `json:"path"`
		Scheme         string   `json:"scheme"`
		PostsLimit     int      `json:"posts_limit"`
		RequestTimeout Duration `json:"request_timeout"`
		RetryCount     int      `json:"retry_count"`
	} `json:"adapter,omitempty"`

	Workers struct {
		SyncInterval   Duration `json:"sync_interval"`
		SyncDeadline   Duration `json:"sync_deadline"`
		MetricsAddress string   `json:"metrics_address"`
	} `json:"workers,omitempty"`

	Log struct {
		Level      string `json:"level"`
		FilePath   string `json:"file"`
		MaxSizeMB  int    `json:"max_size_mb"`
		MaxBackups int    `json:"max_backups"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version:      jsonCfg.App.Version,
			SeedDefaults: jsonCfg.App.SeedDefaults,
		},
		Storage: Storage{
			Driver:    jsonCfg.Storage.Driver,
			Path:      jsonCfg.Storage.Path,
			PrefsPath: jsonCfg.Storage.PrefsPath,
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			Path:           jsonCfg.Adapter.Path,
			Scheme:         jsonCfg.Adapter.Scheme,
			PostsLimit:     jsonCfg.Adapter.PostsLimit,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			RetryCount:     jsonCfg.Adapter.RetryCount,
		},
		Workers: Workers{
			SyncInterval:   time.Duration(jsonCfg.Workers.SyncInterval),
			SyncDeadline:   time.Duration(jsonCfg.Workers.SyncDeadline),
			MetricsAddress: jsonCfg.Workers.MetricsAddress,
		},
		Log: Log{
			Level:      jsonCfg.Log.Level,
			FilePath:   jsonCfg.Log.FilePath,
			MaxSizeMB:  jsonCfg.Log.MaxSizeMB,
			MaxBackups: jsonCfg.Log.MaxBackups,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
