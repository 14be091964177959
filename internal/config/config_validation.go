// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
)

// validate checks the settings shared by every binary. Settings that only
// matter to one binary are validated by its config view.
func (cfg *StructuredConfig) validate() error {
	if cfg.Log.Level != "" {
		if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidLogConfigs, err)
		}
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	switch cfg.Storage.Driver {
	case DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.Driver)
	}
	if cfg.Storage.Path == "" {
		return fmt.Errorf("%w: empty state path", ErrInvalidStorageConfigs)
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}
	if _, err := url.Parse(cfg.Adapter.HTTPAddress); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAdapterConfigs, err)
	}
	if cfg.Adapter.Scheme != SchemeQuotes && cfg.Adapter.Scheme != SchemePosts {
		return fmt.Errorf("%w: unknown scheme %q", ErrInvalidAdapterConfigs, cfg.Adapter.Scheme)
	}
	if cfg.Adapter.RetryCount < 0 || cfg.Adapter.PostsLimit < 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval <= 0 || cfg.Workers.SyncDeadline <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("%w: non-positive request timeout", ErrInvalidServerConfigs)
	}

	return nil
}
