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
// SERVER-SENT-EVENTS DECODER
// =============================================================================

// SSEDecoder decodes the cloud chat-completion wire shape: lines
// prefixed "data: ", with the delta at choices[0].delta.content. The
// literal payload "[DONE]" signals graceful stream end and is not
// itself emitted. Lines not matching the prefix are ignored.
type SSEDecoder struct{}

// completionChunk is the subset of a chat-completion event we consume.
type completionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Decode implements Decoder.
func (SSEDecoder) Decode(ctx context.Context, body io.Reader, emit EmitFunc) error {
	reader := bufio.NewReader(body)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadBytes('\n')

		// Trailing partial event at EOF is parsed once more.
		if len(line) > 0 {
			done, lineErr := decodeEventLine(line, emit)
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

// decodeEventLine parses a single SSE line. Non-data lines (event:,
// id:, retry:, comments, blank separators) are ignored; malformed
// payloads are skipped, never fatal. Returns done=true on [DONE].
func decodeEventLine(line []byte, emit EmitFunc) (bool, error) {
	line = bytes.TrimRight(line, "\r\n")

	if !bytes.HasPrefix(line, []byte("data:")) {
		return false, nil
	}

	data := bytes.TrimSpace(line[len("data:"):])
	if len(data) == 0 {
		return false, nil
	}

	if bytes.Equal(data, []byte("[DONE]")) {
		return true, nil
	}

	var chunk completionChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return false, nil
	}

	if chunk.Error != nil {
		return false, &ProviderError{Code: chunk.Error.Code, Message: chunk.Error.Message}
	}

	if len(chunk.Choices) > 0 {
		if content := chunk.Choices[0].Delta.Content; content != "" {
			emit(Delta{Text: content})
		}
		if chunk.Choices[0].FinishReason != "" {
			return true, nil
		}
	}

	return false, nil
}
