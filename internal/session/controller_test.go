// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/glyphos/glyphchat/internal/provider"
	"github.com/glyphos/glyphchat/internal/render"
)

// funcStreamer adapts a closure to the Streamer interface.
type funcStreamer func(ctx context.Context, prompt string, emit provider.EmitFunc) error

func (f funcStreamer) Stream(ctx context.Context, prompt string, emit provider.EmitFunc) error {
	return f(ctx, prompt, emit)
}

// recordingSink captures every frame in order.
type recordingSink struct {
	mu     sync.Mutex
	frames []frame
}

type frame struct {
	content string
	final   bool
}

func (r *recordingSink) Apply(content string, final bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, frame{content, final})
}

func (r *recordingSink) all() []frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]frame(nil), r.frames...)
}

type recordingArchiver struct {
	archived []*Session
	err      error
}

func (r *recordingArchiver) Archive(s *Session) error {
	r.archived = append(r.archived, s)
	return r.err
}

func testController(streamer Streamer, sink Sink, archiver Archiver) *Controller {
	r := render.New(render.PlainFormatter{}, nil, nil, 80)
	return NewController(streamer, r, sink, archiver, "local", "llama3.2", 0.7)
}

func TestSubmitCompleteLifecycle(t *testing.T) {
	sink := &recordingSink{}
	arch := &recordingArchiver{}
	streamer := funcStreamer(func(ctx context.Context, prompt string, emit provider.EmitFunc) error {
		emit(provider.Delta{Text: "Hel"})
		emit(provider.Delta{Text: "lo"})
		return nil
	})

	c := testController(streamer, sink, arch)
	s, err := c.Submit(context.Background(), "greet me")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if s.Status != StatusComplete {
		t.Errorf("Status = %v, want StatusComplete", s.Status)
	}
	if s.Text() != "Hello" {
		t.Errorf("Text = %q, want %q", s.Text(), "Hello")
	}
	if s.Prompt != "greet me" {
		t.Errorf("Prompt = %q", s.Prompt)
	}
	if s.Duration() <= 0 {
		t.Error("Duration not recorded")
	}
	if len(arch.archived) != 1 || arch.archived[0] != s {
		t.Errorf("archived = %v", arch.archived)
	}

	frames := sink.all()
	if len(frames) == 0 {
		t.Fatal("no frames delivered")
	}
	last := frames[len(frames)-1]
	if !last.final {
		t.Error("last frame must be the final render")
	}
	if !strings.Contains(last.content, "Hello") {
		t.Errorf("final frame = %q", last.content)
	}
	for _, f := range frames[:len(frames)-1] {
		if f.final {
			t.Error("final frame delivered before the stream settled")
		}
	}
}

func TestSubmitRejectsWhileStreaming(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	streamer := funcStreamer(func(ctx context.Context, prompt string, emit provider.EmitFunc) error {
		close(started)
		<-release
		emit(provider.Delta{Text: "ok"})
		return nil
	})

	c := testController(streamer, &recordingSink{}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), "first")
		done <- err
	}()

	<-started
	if !c.Active() {
		t.Error("Active() = false during stream")
	}
	if _, err := c.Submit(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent Submit = %v, want ErrBusy", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	// Once settled the controller accepts work again.
	if c.Active() {
		t.Error("Active() = true after stream settled")
	}
	ok := funcStreamer(func(ctx context.Context, prompt string, emit provider.EmitFunc) error {
		emit(provider.Delta{Text: "again"})
		return nil
	})
	c.streamer = ok
	if _, err := c.Submit(context.Background(), "third"); err != nil {
		t.Errorf("Submit after settle: %v", err)
	}
}

func TestSubmitEmptyResponse(t *testing.T) {
	sink := &recordingSink{}
	streamer := funcStreamer(func(ctx context.Context, prompt string, emit provider.EmitFunc) error {
		return provider.ErrEmptyResponse
	})

	c := testController(streamer, sink, nil)
	s, err := c.Submit(context.Background(), "hi")

	if !errors.Is(err, provider.ErrEmptyResponse) {
		t.Errorf("err = %v, want ErrEmptyResponse", err)
	}
	if s.Status != StatusFailed {
		t.Errorf("Status = %v, want StatusFailed", s.Status)
	}

	frames := sink.all()
	last := frames[len(frames)-1]
	if !last.final {
		t.Error("failed session still gets a final frame")
	}
	if !strings.Contains(last.content, "empty response") {
		t.Errorf("final frame = %q, want empty-response notice", last.content)
	}
}

func TestSubmitKeepsPartialTextOnFailure(t *testing.T) {
	sink := &recordingSink{}
	streamer := funcStreamer(func(ctx context.Context, prompt string, emit provider.EmitFunc) error {
		emit(provider.Delta{Text: "partial answer"})
		return &provider.TransportError{Status: 502, Body: "bad gateway"}
	})

	c := testController(streamer, sink, nil)
	s, err := c.Submit(context.Background(), "hi")

	if err == nil {
		t.Fatal("expected stream error")
	}
	if s.Status != StatusFailed {
		t.Errorf("Status = %v, want StatusFailed", s.Status)
	}

	last := sink.all()[len(sink.all())-1]
	if !strings.Contains(last.content, "partial answer") {
		t.Errorf("partial text dropped from final frame: %q", last.content)
	}
	if !strings.Contains(last.content, "connection failed") {
		t.Errorf("transport failure not surfaced in transcript: %q", last.content)
	}
}

func TestSubmitProviderErrorSurfaced(t *testing.T) {
	sink := &recordingSink{}
	streamer := funcStreamer(func(ctx context.Context, prompt string, emit provider.EmitFunc) error {
		return &provider.ProviderError{Code: "429", Message: "rate limited"}
	})

	c := testController(streamer, sink, nil)
	if _, err := c.Submit(context.Background(), "hi"); err == nil {
		t.Fatal("expected provider error")
	}

	last := sink.all()[len(sink.all())-1]
	if !strings.Contains(last.content, "rate limited") {
		t.Errorf("provider message not surfaced: %q", last.content)
	}
}

func TestSubmitArchiveFailureDoesNotFailSession(t *testing.T) {
	arch := &recordingArchiver{err: errors.New("disk full")}
	streamer := funcStreamer(func(ctx context.Context, prompt string, emit provider.EmitFunc) error {
		emit(provider.Delta{Text: "fine"})
		return nil
	})

	c := testController(streamer, &recordingSink{}, arch)
	s, err := c.Submit(context.Background(), "hi")

	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if s.Status != StatusComplete {
		t.Errorf("Status = %v, want StatusComplete", s.Status)
	}
}

func TestSubmitCancelledContext(t *testing.T) {
	sink := &recordingSink{}
	streamer := funcStreamer(func(ctx context.Context, prompt string, emit provider.EmitFunc) error {
		emit(provider.Delta{Text: "partial"})
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testController(streamer, sink, nil)
	s, _ := c.Submit(ctx, "hi")

	if s.Status != StatusFailed {
		t.Errorf("Status = %v, want StatusFailed", s.Status)
	}
	last := sink.all()[len(sink.all())-1]
	if !strings.Contains(last.content, "interrupted") {
		t.Errorf("cancellation not surfaced: %q", last.content)
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusPending, "pending"},
		{StatusStreaming, "streaming"},
		{StatusComplete, "complete"},
		{StatusFailed, "failed"},
		{Status(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

// Intermediate frames are rate-capped, never dropped wholesale: a burst
// of deltas still produces at least one intermediate frame.
func TestSubmitRateCappedIntermediates(t *testing.T) {
	sink := &recordingSink{}
	streamer := funcStreamer(func(ctx context.Context, prompt string, emit provider.EmitFunc) error {
		for i := 0; i < 200; i++ {
			emit(provider.Delta{Text: "x"})
		}
		return nil
	})

	c := testController(streamer, sink, nil)
	start := time.Now()
	if _, err := c.Submit(context.Background(), "hi"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	elapsed := time.Since(start)

	frames := sink.all()
	intermediates := 0
	for _, f := range frames {
		if !f.final {
			intermediates++
		}
	}
	if intermediates == 0 {
		t.Error("no intermediate frames for a long burst")
	}
	// 200 deltas in well under a second must not yield 200 renders.
	if elapsed < time.Second && intermediates > 60 {
		t.Errorf("intermediates = %d, rate cap not applied", intermediates)
	}
}
