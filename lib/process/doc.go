// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers. It centralizes
// the raw stderr output that happens outside the structured logger:
// reporting the error that ended run() and exiting with a status code.
package process
