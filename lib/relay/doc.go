// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package relay moves bytes between a debugger's named pipes and the
// operator's console.
//
// Two loops run concurrently and share nothing:
//
//   - [Inbound] copies every byte arriving on the debugger's output
//     pipe to the console as it arrives, flushing after each read.
//     End-of-stream is reported as [ErrInboundClosed].
//   - [Outbound] reads one console line at a time and writes it to the
//     debugger's input pipe with exactly one trailing newline.
//
// [Session] runs both loops and decides how the process ends. The only
// clean termination is inbound end-of-stream: the session prints the
// [Marker] line and returns nil, and the caller exits. Console
// end-of-input closes the outbound pipe so the debugger sees EOF, but
// the session keeps echoing until the debugger closes its side.
//
// This package has no Bureau-internal dependencies.
package relay
