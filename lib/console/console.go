// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package console

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/bureau-foundation/dbgpipe/lib/relay"
)

// Mode selects whether the console offers interactive line editing.
type Mode string

const (
	// ModeAuto edits lines interactively when stdin is a terminal.
	ModeAuto Mode = "auto"

	// ModeOn requires a terminal and always edits interactively.
	ModeOn Mode = "on"

	// ModeOff always reads plain lines, even from a terminal.
	ModeOff Mode = "off"
)

// ParseMode validates a line-editing mode name.
func ParseMode(name string) (Mode, error) {
	switch mode := Mode(name); mode {
	case ModeAuto, ModeOn, ModeOff:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid line editing mode %q (expected auto, on, or off)", name)
	}
}

// Console is an opened console.
type Console struct {
	lines       relay.LineReader
	output      io.Writer
	interactive bool

	inputFd  int
	oldState *term.State
	resizes  chan os.Signal
	done     chan struct{}
	closed   bool

	// width is the column count last given to the line editor.
	width atomic.Int32
}

// Open prepares input and output for a relay session according to
// mode. Interactive mode needs both input and output to be terminals;
// input is then switched to raw mode until [Console.Close].
func Open(input, output *os.File, mode Mode, logger *slog.Logger) (*Console, error) {
	interactive := false
	switch mode {
	case ModeOff:
	case ModeOn:
		if !term.IsTerminal(int(input.Fd())) {
			return nil, fmt.Errorf("line editing requested but %s is not a terminal", input.Name())
		}
		if !term.IsTerminal(int(output.Fd())) {
			return nil, fmt.Errorf("line editing requested but %s is not a terminal", output.Name())
		}
		interactive = true
	case ModeAuto, "":
		// The line editor echoes typed input and rewrites newlines on
		// its output, so a redirected stdout must stay plain.
		interactive = term.IsTerminal(int(input.Fd())) && term.IsTerminal(int(output.Fd()))
	default:
		return nil, fmt.Errorf("invalid line editing mode %q", mode)
	}

	if !interactive {
		logger.Debug("console in plain line mode", "input", input.Name())
		return &Console{
			lines:  relay.NewLineReader(input),
			output: output,
		}, nil
	}

	inputFd := int(input.Fd())
	oldState, err := term.MakeRaw(inputFd)
	if err != nil {
		return nil, fmt.Errorf("set terminal raw mode: %w", err)
	}

	terminal := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{input, output}, "")

	console := &Console{
		lines:       terminal,
		output:      terminal,
		interactive: true,
		inputFd:     inputFd,
		oldState:    oldState,
		resizes:     make(chan os.Signal, 1),
		done:        make(chan struct{}),
	}

	resize := func() {
		width, height, err := term.GetSize(int(output.Fd()))
		if err != nil {
			logger.Debug("reading terminal size", "error", err)
			return
		}
		if err := terminal.SetSize(width, height); err != nil {
			logger.Debug("resizing line editor", "error", err)
			return
		}
		console.width.Store(int32(width))
	}
	resize()

	signal.Notify(console.resizes, unix.SIGWINCH)
	go func() {
		for {
			select {
			case <-console.resizes:
				resize()
			case <-console.done:
				return
			}
		}
	}()

	logger.Debug("console in interactive line editing mode")
	return console, nil
}

// Lines returns the console's line source.
func (c *Console) Lines() relay.LineReader {
	return c.lines
}

// Output returns the writer inbound bytes should be echoed to.
func (c *Console) Output() io.Writer {
	return c.output
}

// Interactive reports whether line editing is active.
func (c *Console) Interactive() bool {
	return c.interactive
}

// Close stops following window size changes and restores the terminal
// state saved by [Open]. It is a no-op for plain consoles and on every
// call after the first.
func (c *Console) Close() error {
	if !c.interactive || c.closed {
		return nil
	}
	c.closed = true
	signal.Stop(c.resizes)
	close(c.done)
	return term.Restore(c.inputFd, c.oldState)
}
