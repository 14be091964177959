// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrInvalidJSON is reported when a request body is not the expected
	// JSON document or exceeds the size limit.
	ErrInvalidJSON = errors.New("invalid JSON was passed")
)
