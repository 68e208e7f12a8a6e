// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Marker is printed on its own line when the debugger closes the
// inbound pipe, immediately before the session ends.
const Marker = "noinput"

// SessionConfig holds the endpoints of a relay session. Every field
// except Logger is required.
type SessionConfig struct {
	// Inbound is the read end of the debugger's output pipe.
	Inbound io.Reader

	// Outbound is the write end of the debugger's input pipe. The
	// session closes it when the console reaches end-of-input.
	Outbound io.WriteCloser

	// Console receives inbound bytes and the final marker.
	Console io.Writer

	// Lines supplies console input.
	Lines LineReader

	// Logger receives lifecycle events. Nil discards them.
	Logger *slog.Logger
}

// Session runs one relay between a console and a debugger.
type Session struct {
	inbound  io.Reader
	outbound io.WriteCloser
	console  io.Writer
	lines    LineReader
	logger   *slog.Logger
}

// NewSession creates a session from config.
func NewSession(config SessionConfig) *Session {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		inbound:  config.Inbound,
		outbound: config.Outbound,
		console:  config.Console,
		lines:    config.Lines,
		logger:   logger,
	}
}

type loopResult struct {
	inbound bool
	err     error
}

// Run starts the inbound and outbound loops and blocks until the
// session is over.
//
// When the debugger closes the inbound pipe, Run writes [Marker] to
// the console and returns nil. The outbound loop may still be blocked
// reading the console; the caller is expected to exit the process,
// which ends it. When the console reaches end-of-input, Run closes the
// outbound pipe and keeps relaying inbound bytes. Context
// cancellation returns ctx.Err(). Any other loop failure is returned.
func (s *Session) Run(ctx context.Context) error {
	results := make(chan loopResult, 2)

	go func() {
		results <- loopResult{inbound: true, err: Inbound(s.inbound, s.console)}
	}()
	go func() {
		results <- loopResult{inbound: false, err: Outbound(s.lines, s.outbound)}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case result := <-results:
			if result.inbound {
				return s.finishInbound(result.err)
			}
			if err := s.finishOutbound(result.err); err != nil {
				return err
			}
		}
	}
}

func (s *Session) finishInbound(err error) error {
	if !errors.Is(err, ErrInboundClosed) {
		return err
	}
	s.logger.Debug("debugger closed inbound pipe")
	if _, err := fmt.Fprintln(s.console, Marker); err != nil {
		return fmt.Errorf("writing end-of-input marker: %w", err)
	}
	return flush(s.console)
}

func (s *Session) finishOutbound(err error) error {
	if !errors.Is(err, ErrConsoleClosed) {
		return err
	}
	s.logger.Info("console input closed, closing outbound pipe")
	if err := s.outbound.Close(); err != nil {
		return fmt.Errorf("closing outbound pipe: %w", err)
	}
	return nil
}
