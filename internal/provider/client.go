// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// =============================================================================
// HTTP CLIENTS
// =============================================================================

const (
	// defaultTimeout bounds non-streaming requests. Streaming requests
	// are bounded by their context instead.
	defaultTimeout = 60 * time.Second

	// maxResponseSize caps how much of a response body is read.
	maxResponseSize = 10 * 1024 * 1024
)

var (
	// Shared clients with connection pooling for all providers.
	sharedHTTPClient = &http.Client{
		Transport: pooledTransport(),
		Timeout:   defaultTimeout,
	}

	// No timeout for streaming; the context controls its lifetime.
	sharedStreamingClient = &http.Client{
		Transport: pooledTransport(),
	}
)

func pooledTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client issues one generation request against a configured provider
// and decodes the response body into deltas.
type Client struct {
	cfg Config
}

// NewClient creates a client for the given provider config.
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// Config returns the provider configuration the client was built with.
func (c *Client) Config() Config {
	return c.cfg
}

// Stream sends the prompt and emits deltas in arrival order until the
// stream completes. It returns ErrEmptyResponse when the stream ends
// without content, a TransportError for network or non-2xx failures,
// and a ProviderError for well-formed error payloads.
func (c *Client) Stream(ctx context.Context, prompt string, emit EmitFunc) error {
	if c.cfg.RequiresKey() && c.cfg.Key() == "" {
		return fmt.Errorf("%w (provider %s)", ErrNotConfigured, c.cfg.Name)
	}

	dec, err := DecoderFor(c.cfg.Protocol)
	if err != nil {
		return err
	}

	req, err := c.buildRequest(ctx, prompt)
	if err != nil {
		return err
	}

	httpClient := sharedHTTPClient
	if c.cfg.Streaming() {
		httpClient = sharedStreamingClient
	}

	start := time.Now()
	log.Printf("provider %s: %s %s", c.cfg.Name, req.Method, req.URL.Path)

	resp, err := httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	log.Printf("provider %s: HTTP %d (%v)", c.cfg.Name, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		return &TransportError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	// Count emitted content so a stream that completes without any is
	// distinguishable from a transport failure.
	var emitted int
	counting := func(d Delta) {
		emitted += len(d.Text)
		emit(d)
	}

	if err := dec.Decode(ctx, resp.Body, counting); err != nil {
		return err
	}

	if emitted == 0 {
		return ErrEmptyResponse
	}

	return nil
}

// buildRequest assembles the provider-specific HTTP request: endpoint
// URL, payload schema, and auth header shape all come from the config.
func (c *Client) buildRequest(ctx context.Context, prompt string) (*http.Request, error) {
	endpoint, err := c.cfg.RequestURL()
	if err != nil {
		return nil, err
	}

	payload, err := c.buildPayload(prompt)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "glyphchat/0.1")

	if c.cfg.AuthHeader != "" {
		value := c.cfg.Key()
		if c.cfg.AuthScheme != "" {
			value = c.cfg.AuthScheme + " " + value
		}
		req.Header.Set(c.cfg.AuthHeader, value)
	}

	if c.cfg.Protocol == ProtocolSSE {
		req.Header.Set("Accept", "text/event-stream")
		req.Header.Set("Cache-Control", "no-cache")
	}

	return req, nil
}

// buildPayload marshals the request body for the configured wire shape.
func (c *Client) buildPayload(prompt string) ([]byte, error) {
	switch c.cfg.Protocol {
	case ProtocolNDJSON:
		return json.Marshal(map[string]any{
			"model":  c.cfg.Model,
			"prompt": prompt,
			"stream": true,
			"options": map[string]any{
				"temperature": c.cfg.Temperature,
			},
		})

	case ProtocolSSE:
		return json.Marshal(map[string]any{
			"model": c.cfg.Model,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
			"temperature": c.cfg.Temperature,
			"stream":      true,
		})

	case ProtocolSingleShot:
		return json.Marshal(map[string]any{
			"contents": []map[string]any{
				{"parts": []map[string]string{{"text": prompt}}},
			},
			"generationConfig": map[string]any{
				"temperature": c.cfg.Temperature,
			},
		})

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProtocol, string(c.cfg.Protocol))
	}
}

// KeyFingerprint returns a short SHA-256 fingerprint of the API key for
// logging. Key material itself never appears in logs.
func (c *Client) KeyFingerprint() string {
	key := c.cfg.Key()
	if key == "" {
		return "none"
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:4])
}
