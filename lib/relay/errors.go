// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package relay

import (
	"errors"
	"syscall"
)

var (
	// ErrInboundClosed is returned by [Inbound] when the debugger
	// closes its end of the inbound pipe.
	ErrInboundClosed = errors.New("inbound pipe closed")

	// ErrConsoleClosed is returned by [Outbound] when the console
	// reaches end-of-input.
	ErrConsoleClosed = errors.New("console input closed")

	// ErrDebuggerGone is returned by [Outbound] when a write fails
	// because nothing holds the read end of the outbound pipe.
	ErrDebuggerGone = errors.New("debugger closed its input pipe")
)

// isBrokenPipe reports whether err is EPIPE. Writes to a FIFO whose
// reader has gone away fail this way; Go ignores SIGPIPE for
// descriptors other than stdout and stderr, so the error reaches us.
func isBrokenPipe(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EPIPE
	}
	return false
}
