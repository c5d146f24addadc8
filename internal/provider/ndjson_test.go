// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// chunkReader yields the underlying data in fixed-size chunks so tests
// can split logical records across read boundaries.
type chunkReader struct {
	data []byte
	size int
	off  int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.off >= len(r.data) {
		return 0, io.EOF
	}
	end := r.off + r.size
	if end > len(r.data) {
		end = len(r.data)
	}
	n := copy(p, r.data[r.off:end])
	r.off += n
	return n, nil
}

func collectDeltas(t *testing.T, dec Decoder, r io.Reader) ([]string, error) {
	t.Helper()
	var got []string
	err := dec.Decode(context.Background(), r, func(d Delta) {
		got = append(got, d.Text)
	})
	return got, err
}

func TestNDJSONDecode(t *testing.T) {
	input := `{"response":"Hel"}` + "\n" + `{"response":"lo"}` + "\n" + `{"done":true}` + "\n"

	got, err := collectDeltas(t, NDJSONDecoder{}, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := []string{"Hel", "lo"}
	if len(got) != len(want) {
		t.Fatalf("deltas = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("delta[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if joined := strings.Join(got, ""); joined != "Hello" {
		t.Errorf("accumulated = %q, want %q", joined, "Hello")
	}
}

func TestNDJSONDecodeChunkBoundaries(t *testing.T) {
	// The reconstructed delta sequence must not depend on how the input
	// is split across reads.
	input := `{"response":"alpha "}` + "\n" +
		`{"response":"beta "}` + "\n" +
		`{"response":"gamma"}` + "\n" +
		`{"done":true}` + "\n"

	whole, err := collectDeltas(t, NDJSONDecoder{}, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	for _, size := range []int{1, 2, 3, 5, 7, 16, 64} {
		split, err := collectDeltas(t, NDJSONDecoder{}, &chunkReader{data: []byte(input), size: size})
		if err != nil {
			t.Fatalf("chunk size %d: Decode() error = %v", size, err)
		}
		if len(split) != len(whole) {
			t.Fatalf("chunk size %d: deltas = %v, want %v", size, split, whole)
		}
		for i := range whole {
			if split[i] != whole[i] {
				t.Errorf("chunk size %d: delta[%d] = %q, want %q", size, i, split[i], whole[i])
			}
		}
	}
}

func TestNDJSONDecodeSkipsMalformedAndHeartbeats(t *testing.T) {
	input := "not json at all\n" +
		`{"response":"ok"}` + "\n" +
		`{"created_at":"2025-01-01T00:00:00Z"}` + "\n" +
		"\n" +
		`{"done":true}` + "\n"

	got, err := collectDeltas(t, NDJSONDecoder{}, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got) != 1 || got[0] != "ok" {
		t.Errorf("deltas = %v, want [ok]", got)
	}
}

func TestNDJSONDecodeTrailingFragment(t *testing.T) {
	// Final record has no trailing newline; it must still be parsed.
	input := `{"response":"first"}` + "\n" + `{"response":"last"}`

	got, err := collectDeltas(t, NDJSONDecoder{}, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got) != 2 || got[1] != "last" {
		t.Errorf("deltas = %v, want [first last]", got)
	}
}

func TestNDJSONDecodeErrorPayload(t *testing.T) {
	input := `{"error":"model not loaded"}` + "\n"

	_, err := collectDeltas(t, NDJSONDecoder{}, strings.NewReader(input))

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Decode() error = %v, want *ProviderError", err)
	}
	if provErr.Message != "model not loaded" {
		t.Errorf("Message = %q", provErr.Message)
	}
}

func TestNDJSONDecodeStopsAtDone(t *testing.T) {
	// Content after the terminal record must not be emitted.
	input := `{"done":true}` + "\n" + `{"response":"late"}` + "\n"

	got, err := collectDeltas(t, NDJSONDecoder{}, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("deltas = %v, want none", got)
	}
}
