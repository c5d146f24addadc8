// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

var (
	// ErrEmptyResponse indicates the stream reported completion without
	// ever emitting content. Distinct from transport-level failures.
	ErrEmptyResponse = errors.New("provider returned an empty response")

	// ErrUnknownProtocol indicates a Config names a protocol with no
	// registered decoder.
	ErrUnknownProtocol = errors.New("unknown wire protocol")

	// ErrNotConfigured indicates a required API key is missing.
	ErrNotConfigured = errors.New("provider API key not configured")
)

// TransportError represents a network failure or a non-2xx response.
// Status and Body are populated when an HTTP response was received.
type TransportError struct {
	Status int
	Body   string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Status != 0 {
		if e.Body != "" {
			return fmt.Sprintf("transport error (HTTP %d): %s", e.Status, e.Body)
		}
		return fmt.Sprintf("transport error (HTTP %d)", e.Status)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

// Unwrap returns the underlying error, if any.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProviderError represents a well-formed error payload returned by the
// backend inside an otherwise successful response.
type ProviderError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider error [%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}
