// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package relay

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"syscall"
	"testing"
	"testing/iotest"
)

// flushCountingWriter records writes and counts Flush calls.
type flushCountingWriter struct {
	bytes.Buffer
	flushes int
}

func (w *flushCountingWriter) Flush() error {
	w.flushes++
	return nil
}

// failingWriter fails every write with err.
type failingWriter struct {
	err error
}

func (w failingWriter) Write([]byte) (int, error) {
	return 0, w.err
}

func TestInboundCopiesBytesInOrder(t *testing.T) {
	payload := make([]byte, 1000)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	var console flushCountingWriter
	err := Inbound(iotest.OneByteReader(bytes.NewReader(payload)), &console)
	if !errors.Is(err, ErrInboundClosed) {
		t.Fatalf("Inbound() error = %v, want ErrInboundClosed", err)
	}
	if !bytes.Equal(console.Bytes(), payload) {
		t.Fatalf("console received %d bytes, want the %d bytes written in order", console.Len(), len(payload))
	}
	if console.flushes != len(payload) {
		t.Errorf("flushes = %d, want one per arriving byte (%d)", console.flushes, len(payload))
	}
}

func TestInboundDataWithEOF(t *testing.T) {
	// Readers may return the final bytes together with io.EOF.
	var console bytes.Buffer
	err := Inbound(iotest.DataErrReader(strings.NewReader("debugger.lua> ")), &console)
	if !errors.Is(err, ErrInboundClosed) {
		t.Fatalf("Inbound() error = %v, want ErrInboundClosed", err)
	}
	if console.String() != "debugger.lua> " {
		t.Errorf("console = %q, want %q", console.String(), "debugger.lua> ")
	}
}

func TestInboundEmptyStream(t *testing.T) {
	var console bytes.Buffer
	err := Inbound(strings.NewReader(""), &console)
	if !errors.Is(err, ErrInboundClosed) {
		t.Fatalf("Inbound() error = %v, want ErrInboundClosed", err)
	}
	if console.Len() != 0 {
		t.Errorf("console = %q, want empty", console.String())
	}
}

func TestInboundReadError(t *testing.T) {
	readErr := errors.New("device gone")
	err := Inbound(iotest.ErrReader(readErr), io.Discard)
	if !errors.Is(err, readErr) {
		t.Fatalf("Inbound() error = %v, want wrapped %v", err, readErr)
	}
	if errors.Is(err, ErrInboundClosed) {
		t.Error("read failure must not be reported as end-of-stream")
	}
}

func TestInboundConsoleWriteError(t *testing.T) {
	writeErr := errors.New("console detached")
	err := Inbound(strings.NewReader("x"), failingWriter{err: writeErr})
	if !errors.Is(err, writeErr) {
		t.Fatalf("Inbound() error = %v, want wrapped %v", err, writeErr)
	}
}

func TestOutbound(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single line",
			input: "step\n",
			want:  "step\n",
		},
		{
			name:  "several lines",
			input: "bt\nlocals\ncontinue\n",
			want:  "bt\nlocals\ncontinue\n",
		},
		{
			name:  "carriage return stripped",
			input: "print(x)\r\n",
			want:  "print(x)\n",
		},
		{
			name:  "empty line still relayed",
			input: "\n",
			want:  "\n",
		},
		{
			name:  "final line without terminator",
			input: "where\nnext",
			want:  "where\nnext\n",
		},
		{
			name:  "no input",
			input: "",
			want:  "",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var destination bytes.Buffer
			err := Outbound(NewLineReader(strings.NewReader(test.input)), &destination)
			if !errors.Is(err, ErrConsoleClosed) {
				t.Fatalf("Outbound() error = %v, want ErrConsoleClosed", err)
			}
			if destination.String() != test.want {
				t.Errorf("outbound = %q, want %q", destination.String(), test.want)
			}
		})
	}
}

func TestOutboundOneWritePerLine(t *testing.T) {
	var destination writeRecorder
	err := Outbound(NewLineReader(strings.NewReader("a\nbb\n")), &destination)
	if !errors.Is(err, ErrConsoleClosed) {
		t.Fatalf("Outbound() error = %v, want ErrConsoleClosed", err)
	}
	want := []string{"a\n", "bb\n"}
	if len(destination.writes) != len(want) {
		t.Fatalf("got %d writes %q, want %d", len(destination.writes), destination.writes, len(want))
	}
	for i := range want {
		if destination.writes[i] != want[i] {
			t.Errorf("write[%d] = %q, want %q", i, destination.writes[i], want[i])
		}
	}
	if destination.flushes != len(want) {
		t.Errorf("flushes = %d, want %d", destination.flushes, len(want))
	}
}

func TestOutboundBrokenPipe(t *testing.T) {
	destination := failingWriter{err: &os.PathError{Op: "write", Path: "/tmp/debugger.lua.in", Err: syscall.EPIPE}}
	err := Outbound(NewLineReader(strings.NewReader("step\n")), destination)
	if !errors.Is(err, ErrDebuggerGone) {
		t.Fatalf("Outbound() error = %v, want ErrDebuggerGone", err)
	}
	if !errors.Is(err, syscall.EPIPE) {
		t.Errorf("Outbound() error = %v, want the underlying EPIPE preserved", err)
	}
}

func TestOutboundWriteError(t *testing.T) {
	writeErr := errors.New("disk on fire")
	err := Outbound(NewLineReader(strings.NewReader("step\n")), failingWriter{err: writeErr})
	if !errors.Is(err, writeErr) {
		t.Fatalf("Outbound() error = %v, want wrapped %v", err, writeErr)
	}
	if errors.Is(err, ErrDebuggerGone) {
		t.Error("generic write failure must not be reported as ErrDebuggerGone")
	}
}

func TestOutboundConsoleReadError(t *testing.T) {
	readErr := errors.New("tty hangup")
	err := Outbound(NewLineReader(iotest.ErrReader(readErr)), io.Discard)
	if !errors.Is(err, readErr) {
		t.Fatalf("Outbound() error = %v, want wrapped %v", err, readErr)
	}
}

func TestLineReaderFinalPartialLine(t *testing.T) {
	reader := NewLineReader(strings.NewReader("one\ntwo"))

	for _, want := range []string{"one\n", "two"} {
		line, err := reader.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine() error = %v", err)
		}
		if line != want {
			t.Errorf("ReadLine() = %q, want %q", line, want)
		}
	}
	if _, err := reader.ReadLine(); !errors.Is(err, io.EOF) {
		t.Errorf("ReadLine() after input = %v, want io.EOF", err)
	}
	if _, err := reader.ReadLine(); !errors.Is(err, io.EOF) {
		t.Errorf("repeated ReadLine() = %v, want io.EOF", err)
	}
}

// writeRecorder keeps each Write call separately.
type writeRecorder struct {
	writes  []string
	flushes int
}

func (w *writeRecorder) Write(p []byte) (int, error) {
	w.writes = append(w.writes, string(p))
	return len(p), nil
}

func (w *writeRecorder) Flush() error {
	w.flushes++
	return nil
}
