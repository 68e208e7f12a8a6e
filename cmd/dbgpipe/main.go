// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/dbgpipe/lib/config"
	"github.com/bureau-foundation/dbgpipe/lib/console"
	"github.com/bureau-foundation/dbgpipe/lib/fifo"
	"github.com/bureau-foundation/dbgpipe/lib/process"
	"github.com/bureau-foundation/dbgpipe/lib/relay"
	"github.com/bureau-foundation/dbgpipe/lib/version"
)

const binaryName = "dbgpipe"

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(binaryName, err)
	}
}

// options holds the parsed command line. Pipe and logging flags
// override the config file only when given explicitly.
type options struct {
	configPath  string
	inbound     string
	outbound    string
	logLevel    string
	lineEditing string
	showVersion bool

	flagSet *pflag.FlagSet
}

func newFlagSet(opts *options) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(binaryName, pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "path to a YAML config file (default: none)")
	flagSet.StringVar(&opts.inbound, "inbound", fifo.DefaultInbound, "pipe the debugger writes its output to")
	flagSet.StringVar(&opts.outbound, "outbound", fifo.DefaultOutbound, "pipe the debugger reads its input from")
	flagSet.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "minimum log level on stderr (debug, info, warn, error)")
	flagSet.StringVar(&opts.lineEditing, "line-editing", config.DefaultLineEditing, "interactive line editing (auto, on, off)")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	flagSet.BoolP("help", "h", false, "show help")
	flagSet.SetOutput(io.Discard)
	flagSet.Usage = func() {}
	opts.flagSet = flagSet
	return flagSet
}

func parseArgs(args []string) (*options, error) {
	opts := &options{}
	flagSet := newFlagSet(opts)
	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if help, _ := flagSet.GetBool("help"); help {
		return opts, pflag.ErrHelp
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return opts, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return opts, nil
}

// resolveConfig loads the config file, if any, and applies explicit
// flags on top.
func resolveConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.LoadFile(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if opts.flagSet.Changed("inbound") {
		cfg.Inbound = opts.inbound
	}
	if opts.flagSet.Changed("outbound") {
		cfg.Outbound = opts.outbound
	}
	if opts.flagSet.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if opts.flagSet.Changed("line-editing") {
		cfg.LineEditing = opts.lineEditing
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(args []string) error {
	opts, err := parseArgs(args)
	if errors.Is(err, pflag.ErrHelp) {
		printHelp(opts.flagSet)
		return nil
	}
	if err != nil {
		return err
	}

	if opts.showVersion {
		version.Print(binaryName)
		return nil
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, level)

	return serve(context.Background(), cfg, os.Stdin, os.Stdout, logger)
}

// serve creates and opens the pipes, then relays between them and the
// console until the debugger hangs up. It returns nil after printing
// the end-of-input marker, and nil when interrupted by SIGINT or
// SIGTERM.
func serve(ctx context.Context, cfg *config.Config, stdin, stdout *os.File, logger *slog.Logger) error {
	mode, err := console.ParseMode(cfg.LineEditing)
	if err != nil {
		return err
	}

	paths := fifo.Paths{Inbound: cfg.Inbound, Outbound: cfg.Outbound}
	if err := paths.Ensure(cfg.FIFOMode.Perm()); err != nil {
		return err
	}

	// Opening blocks until the debugger opens its ends. Signals keep
	// their default disposition until then so Ctrl-C still works.
	logger.Info("waiting for debugger",
		"outbound", paths.Outbound,
		"inbound", paths.Inbound,
	)
	pipes, err := fifo.Open(paths)
	if err != nil {
		return err
	}
	defer pipes.Close()
	logger.Info("debugger connected")

	terminal, err := console.Open(stdin, stdout, mode, logger)
	if err != nil {
		return err
	}
	defer terminal.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session := relay.NewSession(relay.SessionConfig{
		Inbound:  pipes.Inbound,
		Outbound: pipes.Outbound,
		Console:  terminal.Output(),
		Lines:    terminal.Lines(),
		Logger:   logger,
	})

	err = session.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted")
		return nil
	}
	return err
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `dbgpipe - terminal front-end for a debugger on named pipes

Echoes everything the debugger writes to its output pipe and sends
each line typed on stdin to the debugger's input pipe. Both pipes are
created if missing. Exits after printing "noinput" when the debugger
closes its output pipe.

Line editing (--line-editing=auto, when stdin and stdout are both
terminals) uses raw mode: Ctrl-C and Ctrl-D end console input and close
the debugger's input pipe, but dbgpipe keeps running until the debugger
closes its output pipe. Without line editing, Ctrl-C exits.

Usage:
  dbgpipe [flags]

Examples:
  # Attach to a debugger.lua session using the default pipes
  dbgpipe

  # Use pipes in another directory
  dbgpipe --inbound /run/game/dbg.out --outbound /run/game/dbg.in

  # Feed a script of commands without line editing
  dbgpipe --line-editing=off < commands.txt

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
