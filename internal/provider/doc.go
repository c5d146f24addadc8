// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider implements the streaming adapters for the supported
// text-generation backends.
//
// Each backend speaks one of three wire shapes: newline-delimited JSON
// (local models), Server-Sent Events (cloud chat completions), or a
// single JSON document (the non-streaming fallback). A Decoder exists
// per wire shape and turns the raw response body into a uniform
// sequence of Delta values. The Client builds the provider-specific
// HTTP request from a Config and drives the decoder selected for the
// configured protocol.
//
// Failure taxonomy:
//   - TransportError: network failure or non-2xx response
//   - ProviderError: well-formed error payload from the backend
//   - ErrEmptyResponse: stream completed without emitting any content
package provider
