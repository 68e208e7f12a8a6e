// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"io"
	"os"
)

// Fatal writes "name: error: err" to stderr and exits with code 1.
// Use it in main() for errors from run(), where the structured logger
// may not be initialized yet.
func Fatal(name string, err error) {
	Report(os.Stderr, name, err)
	os.Exit(1)
}

// Report writes the fatal error line Fatal prints.
func Report(writer io.Writer, name string, err error) {
	fmt.Fprintf(writer, "%s: error: %v\n", name, err)
}
