// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
)

// =============================================================================
// LINE-DELIMITED JSON DECODER
// =============================================================================

// NDJSONDecoder decodes the local-model wire shape: each newline-
// terminated chunk is a JSON object. A non-empty "response" field is a
// delta; objects without one are control or heartbeat lines and are
// ignored. "done": true signals graceful stream end.
type NDJSONDecoder struct{}

// generateRecord is the subset of the local-model response we consume.
type generateRecord struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

// Decode implements Decoder.
func (NDJSONDecoder) Decode(ctx context.Context, body io.Reader, emit EmitFunc) error {
	reader := bufio.NewReader(body)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadBytes('\n')

		// bufio hands back the trailing partial line together with EOF;
		// parse it once so a final unterminated record is not dropped.
		if len(line) > 0 {
			done, lineErr := decodeGenerateLine(line, emit)
			if lineErr != nil {
				return lineErr
			}
			if done {
				return nil
			}
		}

		if err != nil {
			if err == io.EOF {
				return nil
			}
			return &TransportError{Err: err}
		}
	}
}

// decodeGenerateLine parses a single record. Malformed lines are
// skipped, never fatal. Returns done=true on the terminal record.
func decodeGenerateLine(line []byte, emit EmitFunc) (bool, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return false, nil
	}

	var rec generateRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return false, nil
	}

	if rec.Error != "" {
		return false, &ProviderError{Message: rec.Error}
	}

	if rec.Response != "" {
		emit(Delta{Text: rec.Response})
	}

	return rec.Done, nil
}
