package config

import (
	"fmt"
	"time"
)

// ServerConfig is the configuration view of the stand-in remote endpoint.
type ServerConfig struct {
	HTTPAddress    string
	RequestTimeout time.Duration
	// DSN selects PostgreSQL storage; empty keeps quotes in memory.
	DSN      string
	Version  string
	LogLevel string
}

// GetServerConfig builds and validates the server config view.
func GetServerConfig(flags *Flags) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(flags)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		HTTPAddress:    cfg.Server.HTTPAddress,
		RequestTimeout: cfg.Server.RequestTimeout,
		DSN:            cfg.Storage.DB.DSN,
		Version:        cfg.App.Version,
		LogLevel:       cfg.Log.Level,
	}

	return serverCfg, serverCfg.validate()
}
