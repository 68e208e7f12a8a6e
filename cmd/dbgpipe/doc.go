// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// dbgpipe is a terminal front-end for a debugger that talks over a
// pair of named pipes, such as the debugger.lua REPL embedded in a
// host program.
//
// Every byte the debugger writes to its output pipe is echoed to
// stdout as it arrives. Every line typed on stdin is written to the
// debugger's input pipe with one trailing newline. The pipes are
// created if they do not exist.
//
// Usage:
//
//	dbgpipe [flags]
//
// With no flags dbgpipe uses the well-known paths:
//
//	/tmp/debugger.lua.in    terminal -> debugger
//	/tmp/debugger.lua.out   debugger -> terminal
//
// Startup blocks until the debugger opens both pipes. When the
// debugger closes its output pipe, dbgpipe prints "noinput" and exits
// with status 0. Ending console input (Ctrl-D) closes the debugger's
// input pipe; dbgpipe keeps echoing until the debugger hangs up.
//
// Line editing is used when stdin and stdout are both terminals. It
// puts the terminal in raw mode, so Ctrl-C does not raise SIGINT: like
// Ctrl-D it ends console input, and dbgpipe keeps running until the
// debugger closes its output pipe. Without line editing, SIGINT and
// SIGTERM end the session with status 0.
//
// Diagnostics go to stderr through log/slog; stdout carries only the
// debugger's output.
package main
