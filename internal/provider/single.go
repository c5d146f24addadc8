// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"encoding/json"
	"io"
	"strings"
)

// =============================================================================
// SINGLE-SHOT DECODER
// =============================================================================

// SingleShotDecoder decodes the non-streaming fallback: one JSON
// document parsed after the full body arrives, with the content nested
// at candidates[0].content.parts[*].text. The concatenated text is
// emitted as a single terminal delta.
//
// The upstream client for this provider builds a streaming request but
// then discards partial output and re-issues a non-streaming call; the
// single-shot document is therefore the defined wire shape here and
// true incremental streaming is not required.
type SingleShotDecoder struct{}

// generateContentResponse is the subset of the document we consume.
type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// Decode implements Decoder.
func (SingleShotDecoder) Decode(ctx context.Context, body io.Reader, emit EmitFunc) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	data, err := io.ReadAll(io.LimitReader(body, maxResponseSize))
	if err != nil {
		return &TransportError{Err: err}
	}

	var doc generateContentResponse
	if err := json.Unmarshal(data, &doc); err != nil {
		// The whole body is one record; an unparseable document means
		// there is nothing to salvage.
		return &ProviderError{Message: "unparseable response document"}
	}

	if doc.Error != nil {
		return &ProviderError{Code: doc.Error.Status, Message: doc.Error.Message}
	}

	var sb strings.Builder
	for _, cand := range doc.Candidates {
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
		break // only the first candidate is surfaced
	}

	if sb.Len() > 0 {
		emit(Delta{Text: sb.String()})
	}

	return nil
}
