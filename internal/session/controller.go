// Copyright (c) 2025 GlyphOS Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/glyphos/glyphchat/internal/provider"
	"github.com/glyphos/glyphchat/internal/render"
)

// =============================================================================
// SESSION CONTROLLER
// =============================================================================

// ErrBusy is returned by Submit while another session is streaming.
var ErrBusy = errors.New("a response is already streaming")

// renderFPS caps intermediate re-renders. Matching the terminal's
// practical refresh ceiling keeps long fences from re-rendering on
// every delta.
const renderFPS = 30

// Streamer produces response deltas for a prompt. *provider.Client
// satisfies it.
type Streamer interface {
	Stream(ctx context.Context, prompt string, emit provider.EmitFunc) error
}

// Sink receives rendered frames. Implementations must tolerate being
// called from the Submit goroutine.
type Sink interface {
	Apply(frame string, final bool)
}

// Archiver persists settled sessions. A nil archiver disables history.
type Archiver interface {
	Archive(s *Session) error
}

// Controller serializes chat exchanges: one prompt streams at a time,
// frames flow to the sink in order, and the final frame always lands
// after the last intermediate one.
type Controller struct {
	mu       sync.Mutex
	active   *Session
	streamer Streamer
	renderer *render.Renderer
	sink     Sink
	archiver Archiver
	limiter  *rate.Limiter

	// run metadata copied onto each new session
	providerName string
	model        string
	temperature  float64
}

// NewController wires a controller. archiver may be nil.
func NewController(streamer Streamer, renderer *render.Renderer, sink Sink, archiver Archiver, providerName, model string, temperature float64) *Controller {
	return &Controller{
		streamer:     streamer,
		renderer:     renderer,
		sink:         sink,
		archiver:     archiver,
		limiter:      rate.NewLimiter(rate.Limit(renderFPS), 1),
		providerName: providerName,
		model:        model,
		temperature:  temperature,
	}
}

// Active reports whether a session is currently in flight.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

// Submit runs one full exchange: accept the prompt, stream deltas,
// re-render the growing buffer at a capped rate, then push the final
// frame once the stream settles. It blocks until the exchange is done
// and returns the settled session.
//
// While an exchange is in flight, further submissions fail with
// ErrBusy. Cancelling ctx stops the stream; whatever text arrived is
// kept and rendered.
func (c *Controller) Submit(ctx context.Context, prompt string) (*Session, error) {
	c.mu.Lock()
	if c.active != nil {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	s := New(c.providerName, c.model, c.temperature, prompt)
	c.active = s
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.active = nil
		c.mu.Unlock()
	}()

	err := c.streamer.Stream(ctx, prompt, func(d provider.Delta) {
		if d.Text == "" {
			return
		}
		s.Append(d.Text)
		if s.Status == StatusPending {
			s.Status = StatusStreaming
		}
		if c.limiter.Allow() {
			c.sink.Apply(c.renderer.Render(s.Text(), false), false)
		}
	})

	s.FinishedAt = time.Now()
	if err != nil {
		s.Status = StatusFailed
		s.Append(failureText(err))
	} else {
		s.Status = StatusComplete
	}

	// The final frame is unconditional and last: it carries the full
	// document with diagrams and code affordances, and it supersedes
	// every intermediate frame.
	c.sink.Apply(c.renderer.Render(s.Text(), true), true)

	if c.archiver != nil {
		if aerr := c.archiver.Archive(s); aerr != nil {
			log.Printf("session %s: archive failed: %v", s.ID, aerr)
		}
	}

	return s, err
}

// failureText converts a stream failure into transcript text. Errors
// land in the response body rather than a side channel so the user
// sees them exactly where the answer would have been.
func failureText(err error) string {
	var msg string

	var te *provider.TransportError
	var pe *provider.ProviderError
	switch {
	case errors.As(err, &te):
		msg = "connection failed: " + te.Error()
	case errors.As(err, &pe):
		msg = "provider rejected the request: " + pe.Message
	case errors.Is(err, provider.ErrEmptyResponse):
		msg = "the provider returned an empty response"
	case errors.Is(err, context.Canceled):
		msg = "response interrupted"
	default:
		msg = err.Error()
	}

	return fmt.Sprintf("\n\n> **error:** %s\n", msg)
}
