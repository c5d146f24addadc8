// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// =============================================================================
// WIRE PROTOCOLS
// =============================================================================

// Protocol identifies the wire shape a provider speaks.
type Protocol string

const (
	// ProtocolNDJSON is the newline-delimited JSON shape (local models).
	ProtocolNDJSON Protocol = "ndjson"

	// ProtocolSSE is the Server-Sent-Events shape (cloud completions).
	ProtocolSSE Protocol = "sse"

	// ProtocolSingleShot is the one-document non-streaming fallback.
	ProtocolSingleShot Protocol = "single"
)

// decoders maps each protocol to its decoder. Selection happens by
// configuration lookup, not per-provider control flow.
var decoders = map[Protocol]Decoder{
	ProtocolNDJSON:     NDJSONDecoder{},
	ProtocolSSE:        SSEDecoder{},
	ProtocolSingleShot: SingleShotDecoder{},
}

// DecoderFor returns the decoder registered for the protocol.
func DecoderFor(p Protocol) (Decoder, error) {
	dec, ok := decoders[p]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProtocol, string(p))
	}
	return dec, nil
}

// =============================================================================
// PROVIDER CONFIGURATION
// =============================================================================

// Config describes one backend: where it lives, how to authenticate,
// which wire shape it speaks, and the generation parameters to send.
// The base URL, path, auth shape, and payload schema are configuration;
// the client's contract is only "given this config and a prompt,
// produce a delta sequence".
type Config struct {
	// Name is the user-facing provider name ("local", "openrouter", ...).
	Name string `toml:"-"`

	// BaseURL is the scheme://host[:port] prefix of the endpoint.
	BaseURL string `toml:"base_url"`

	// Path is the endpoint path. A "{model}" segment is substituted
	// with the configured model.
	Path string `toml:"path"`

	// Protocol selects the wire shape decoder.
	Protocol Protocol `toml:"protocol"`

	// Model is the model identifier sent in the request payload.
	Model string `toml:"model"`

	// Temperature is the sampling temperature sent in the payload.
	Temperature float64 `toml:"temperature"`

	// APIKey authenticates the request. Left empty for local backends.
	APIKey string `toml:"api_key"`

	// KeyEnv names an environment variable consulted when APIKey is
	// empty, so keys can stay out of the config file.
	KeyEnv string `toml:"key_env"`

	// AuthHeader and AuthScheme describe header-style auth, e.g.
	// "Authorization" + "Bearer". Empty AuthHeader disables it.
	AuthHeader string `toml:"auth_header"`
	AuthScheme string `toml:"auth_scheme"`

	// KeyParam names a query parameter carrying the key instead of a
	// header, for backends authenticated by URL.
	KeyParam string `toml:"key_param"`
}

// Key resolves the API key from the config or the named env var.
func (c Config) Key() string {
	if c.APIKey != "" {
		return strings.TrimSpace(c.APIKey)
	}
	if c.KeyEnv != "" {
		return strings.TrimSpace(os.Getenv(c.KeyEnv))
	}
	return ""
}

// RequiresKey reports whether the config describes an authenticated
// backend.
func (c Config) RequiresKey() bool {
	return c.AuthHeader != "" || c.KeyParam != ""
}

// RequestURL builds the full endpoint URL, substituting the model into
// the path and appending the key query parameter when configured.
func (c Config) RequestURL() (string, error) {
	path := strings.ReplaceAll(c.Path, "{model}", c.Model)
	raw := strings.TrimSuffix(c.BaseURL, "/") + path

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint for provider %s: %w", c.Name, err)
	}

	if c.KeyParam != "" {
		q := u.Query()
		q.Set(c.KeyParam, c.Key())
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// Streaming reports whether the protocol delivers incremental output.
func (c Config) Streaming() bool {
	return c.Protocol != ProtocolSingleShot
}

// Validate checks the config for the fields the client depends on.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("provider %s: base_url is required", c.Name)
	}
	if c.Path == "" {
		return fmt.Errorf("provider %s: path is required", c.Name)
	}
	if c.Model == "" {
		return fmt.Errorf("provider %s: model is required", c.Name)
	}
	if _, err := DecoderFor(c.Protocol); err != nil {
		return fmt.Errorf("provider %s: %w", c.Name, err)
	}
	return nil
}
