// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client wires the client process: storage backend, remote adapter,
// services, sync metrics and preferences. The same [App] backs the one-shot
// CLI commands, the long-running sync loop and the terminal UI.
package client
