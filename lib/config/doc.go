// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for dbgpipe.
//
// Configuration is optional and loaded only from a file named by the
// --config flag (via [LoadFile]). There is no environment variable,
// no ~/.config discovery, and no automatic file search. Without a
// file, [Default] reproduces the well-known pipe paths of the
// debugger ([fifo.DefaultInbound], [fifo.DefaultOutbound]).
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No environment
// variable overrides a config value directly.
//
// Key exports:
//
//   - [Config] -- pipe paths, FIFO permissions, log level, line editing
//   - [Default] -- the configuration used when no file is given
//   - [LoadFile] -- parse, expand, and return a file's configuration
//   - [Config.Validate] -- report every problem at once
//
// The default pipe paths and permissions come from [fifo], which has
// no internal dependencies.
package config
