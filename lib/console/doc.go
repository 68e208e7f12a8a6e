// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package console adapts the process's stdin and stdout into the line
// source and byte sink a relay session uses.
//
// When stdin and stdout are both terminals the console puts stdin in
// raw mode and runs a [golang.org/x/term.Terminal] on top: the
// operator gets line editing and history, and output arriving mid-edit is printed above the line
// being typed instead of interleaving with it. Ctrl-D on an empty line
// and Ctrl-C both end console input. When stdin is a pipe or file the
// console reads plain newline-terminated lines. A redirected stdout
// also selects plain mode, so it receives only relayed bytes.
//
// Raw mode disables the terminal's signal keys: Ctrl-C ends console
// input like Ctrl-D instead of raising SIGINT.
//
// [Console.Close] restores the terminal; callers must defer it.
package console
