// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fifo creates and opens the pair of named pipes a debugger
// uses to talk to a terminal front-end.
//
// The pipes are named from the debugger's point of view:
// [DefaultOutbound] ("/tmp/debugger.lua.in") is the debugger's input
// and our output, [DefaultInbound] ("/tmp/debugger.lua.out") is the
// debugger's output and our input.
//
// Opening a FIFO blocks until the other side opens it too. [Open]
// always opens the outbound pipe before the inbound one; the debugger
// opens them in the matching order, so the two processes rendezvous
// without deadlock.
package fifo
