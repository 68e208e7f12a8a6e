// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package relay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// inboundChunk bounds a single read from the inbound pipe. A pipe read
// returns whatever is available (at least one byte), so the chunk size
// never delays a byte; it only bounds how much one read can carry.
const inboundChunk = 4096

// LineReader yields console input one line at a time. ReadLine blocks
// until a full line or end-of-input is available. The returned line
// may or may not carry its terminator; [Outbound] normalizes it. At
// end-of-input ReadLine returns any final partial line with a nil
// error, then io.EOF on the following call.
type LineReader interface {
	ReadLine() (string, error)
}

// flusher is implemented by console and pipe writers that buffer.
type flusher interface {
	Flush() error
}

func flush(writer io.Writer) error {
	if f, ok := writer.(flusher); ok {
		return f.Flush()
	}
	return nil
}

// Inbound copies bytes from the debugger's output pipe to the console
// until the pipe reaches end-of-stream, at which point it returns
// [ErrInboundClosed]. Each chunk is written in arrival order and the
// console is flushed before the next read, so output is visible
// immediately. Any other error is returned wrapped and is fatal to the
// session.
func Inbound(source io.Reader, console io.Writer) error {
	buffer := make([]byte, inboundChunk)
	for {
		count, err := source.Read(buffer)
		if count > 0 {
			if _, writeErr := console.Write(buffer[:count]); writeErr != nil {
				return fmt.Errorf("writing to console: %w", writeErr)
			}
			if flushErr := flush(console); flushErr != nil {
				return fmt.Errorf("flushing console: %w", flushErr)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return ErrInboundClosed
			}
			return fmt.Errorf("reading inbound pipe: %w", err)
		}
	}
}

// Outbound relays console lines to the debugger's input pipe. Every
// line is written with exactly one trailing newline in a single Write
// call, then the destination is flushed. Returns [ErrConsoleClosed] at
// console end-of-input, an error wrapping [ErrDebuggerGone] if the
// debugger closed its read end, or any other I/O error wrapped.
func Outbound(lines LineReader, destination io.Writer) error {
	for {
		line, err := lines.ReadLine()
		if errors.Is(err, io.EOF) {
			return ErrConsoleClosed
		}
		if err != nil {
			return fmt.Errorf("reading console: %w", err)
		}

		if _, writeErr := io.WriteString(destination, terminate(line)); writeErr != nil {
			if isBrokenPipe(writeErr) {
				return fmt.Errorf("%w: %w", ErrDebuggerGone, writeErr)
			}
			return fmt.Errorf("writing outbound pipe: %w", writeErr)
		}
		if flushErr := flush(destination); flushErr != nil {
			return fmt.Errorf("flushing outbound pipe: %w", flushErr)
		}
	}
}

// terminate strips any line terminator and appends exactly one "\n".
func terminate(line string) string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line + "\n"
}

// bufferedLineReader is the plain, non-interactive [LineReader].
type bufferedLineReader struct {
	reader *bufio.Reader
	done   bool
}

// NewLineReader returns a [LineReader] over a plain byte stream such
// as piped stdin.
func NewLineReader(source io.Reader) LineReader {
	return &bufferedLineReader{reader: bufio.NewReader(source)}
}

func (r *bufferedLineReader) ReadLine() (string, error) {
	if r.done {
		return "", io.EOF
	}
	line, err := r.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", err
		}
		r.done = true
		if line == "" {
			return "", io.EOF
		}
	}
	return line, nil
}
