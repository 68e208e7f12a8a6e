// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fifo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

const (
	// DefaultOutbound is where the debugger reads its input.
	DefaultOutbound = "/tmp/debugger.lua.in"

	// DefaultInbound is where the debugger writes its output.
	DefaultInbound = "/tmp/debugger.lua.out"

	// DefaultMode is the permission mode for newly created pipes,
	// before the process umask is applied.
	DefaultMode fs.FileMode = 0o600
)

// ErrNotFIFO is returned when a pipe path exists but is not a FIFO.
var ErrNotFIFO = errors.New("not a named pipe")

// Paths names the two pipes of a session.
type Paths struct {
	// Inbound carries debugger output to the terminal.
	Inbound string

	// Outbound carries terminal input to the debugger.
	Outbound string
}

// DefaultPaths returns the well-known pipe paths.
func DefaultPaths() Paths {
	return Paths{Inbound: DefaultInbound, Outbound: DefaultOutbound}
}

// Ensure creates a FIFO at path unless one already exists. It reports
// whether a new FIFO was created. An existing file that is not a FIFO
// is left alone and reported as [ErrNotFIFO].
func Ensure(path string, mode fs.FileMode) (bool, error) {
	err := unix.Mkfifo(path, uint32(mode.Perm()))
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, unix.EEXIST) {
		return false, fmt.Errorf("creating named pipe %s: %w", path, err)
	}

	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return false, fmt.Errorf("checking existing %s: %w", path, err)
	}
	if stat.Mode&unix.S_IFMT != unix.S_IFIFO {
		return false, fmt.Errorf("%s: %w", path, ErrNotFIFO)
	}
	return false, nil
}

// Ensure creates both pipes where missing. The outbound pipe is
// created first, matching the open order.
func (p Paths) Ensure(mode fs.FileMode) error {
	if p.Inbound == p.Outbound {
		return fmt.Errorf("inbound and outbound pipes must differ (both %s)", p.Inbound)
	}
	if _, err := Ensure(p.Outbound, mode); err != nil {
		return err
	}
	if _, err := Ensure(p.Inbound, mode); err != nil {
		return err
	}
	return nil
}

// Pair holds both open ends for the lifetime of a session.
type Pair struct {
	// Inbound is opened read-only.
	Inbound *os.File

	// Outbound is opened write-only. Writes go straight to the pipe;
	// there is no user-space buffer to flush.
	Outbound *os.File
}

// Open opens the outbound pipe for writing, then the inbound pipe for
// reading. Each call blocks until the debugger opens the other end.
// If the inbound open fails the outbound pipe is closed again.
func Open(paths Paths) (*Pair, error) {
	outbound, err := os.OpenFile(paths.Outbound, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("opening outbound pipe: %w", err)
	}

	inbound, err := os.OpenFile(paths.Inbound, os.O_RDONLY, 0)
	if err != nil {
		outbound.Close()
		return nil, fmt.Errorf("opening inbound pipe: %w", err)
	}

	return &Pair{Inbound: inbound, Outbound: outbound}, nil
}

// Close closes both pipes and returns the first error. Closing an
// already-closed end reports nothing.
func (p *Pair) Close() error {
	var firstErr error
	for _, file := range []*os.File{p.Outbound, p.Inbound} {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
