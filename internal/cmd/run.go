// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/aibor/packstream/internal/archive"
	"github.com/aibor/packstream/internal/exitcode"
	"github.com/aibor/packstream/internal/packerr"
	"github.com/aibor/packstream/internal/progress"
	"github.com/aibor/packstream/internal/stream"
	"golang.org/x/sync/errgroup"
)

const (
	localConfigFile = ".packstream-args"
	lzmaSuffix      = ".lzma"
)

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func newFlagsFromArgs(args []string, cfg IO) (*flags, error) {
	args, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	flags, err := parseArgs(args, cfg.Stderr)
	if err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	return flags, nil
}

func newListener(flags *flags, cfg IO, attrs ...any) progress.Listener {
	if !flags.progress {
		return nil
	}

	return progress.NewPrinter(progressLogger(cfg.Stderr).With(attrs...))
}

func archiveRequest(flags *flags, cfg IO) archive.Request {
	req := archive.Request{
		Root:        string(flags.root),
		Pattern:     flags.pattern,
		NoRecursion: flags.noRecursion,
		Format:      flags.format,
		Method:      flags.method,
		Password:    flags.password,
		Listener:    newListener(flags, cfg),
	}

	// A single directory input is archived with its content relative to it.
	if len(flags.inputs) == 1 {
		info, err := os.Stat(flags.inputs[0])
		if err == nil && info.IsDir() {
			req.Directory = flags.inputs[0]
			req.Root = ""

			return req
		}
	}

	req.Paths = flags.inputs

	return req
}

func runArchive(ctx context.Context, flags *flags, cfg IO) error {
	req := archiveRequest(flags, cfg)

	err := archive.BuildFile(ctx, req, flags.output)
	if err != nil {
		return fmt.Errorf("build %s: %w", flags.output, err)
	}

	slog.Debug("Archive created", slog.String("path", flags.output))

	return nil
}

// streamTarget returns the output file for the given stream input.
func streamTarget(input string, decompress bool) (string, error) {
	if !decompress {
		return input + lzmaSuffix, nil
	}

	target, found := strings.CutSuffix(input, lzmaSuffix)
	if !found || target == "" {
		return "", &packerr.Error{
			Kind:   packerr.KindInvalidInput,
			Detail: input,
			Err:    ErrNoLZMASuffix,
		}
	}

	return target, nil
}

func runStream(ctx context.Context, flags *flags, cfg IO) error {
	// Each output must be written by a single job only.
	inputs := flags.inputs.Unique()
	targets := make([]string, len(inputs))

	// Resolve all targets first, so nothing is written for invalid input.
	for idx, input := range inputs {
		target, err := streamTarget(input, flags.decompress)
		if err != nil {
			return err
		}

		targets[idx] = target
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(int(flags.jobs)) //nolint:gosec

	for idx, input := range inputs {
		target := targets[idx]
		opts := []stream.Option{
			stream.WithListener(newListener(flags, cfg, slog.String("file", input))),
		}

		group.Go(func() error {
			copyFile := stream.CompressFile
			if flags.decompress {
				copyFile = stream.DecompressFile
			}

			err := copyFile(ctx, input, target, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}

			slog.Debug("Stream written",
				slog.String("input", input),
				slog.String("output", target))

			return nil
		})
	}

	return group.Wait() //nolint:wrapcheck
}

func run(ctx context.Context, flags *flags, cfg IO) error {
	if flags.stream {
		return runStream(ctx, flags, cfg)
	}

	return runArchive(ctx, flags, cfg)
}

// handleParseArgsError returns the error the process exits with for the
// given argument parsing error.
func handleParseArgsError(err error) error {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return nil
	}

	// ParseArgs already prints its errors, so only log the others.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return exitcode.Error(exitcode.InvalidInput)
}

func handleRunError(err error) {
	if errors.Is(err, progress.ErrCanceled) {
		slog.Warn("Canceled")
	} else {
		slog.Error(err.Error())
	}
}

func printVersion(w io.Writer) error {
	buildInfo, err := getBuildInfo()
	if err != nil {
		slog.Error(err.Error())
		return exitcode.Error(exitcode.Failure)
	}

	fmt.Fprintf(w, "Version: %s\n", buildInfo.Main.Version)

	return nil
}

// Run is the main entry point for the CLI command.
func Run(ctx context.Context, args []string, cfg IO) int {
	setupLogging(cfg.Stderr, false)

	flags, err := newFlagsFromArgs(args, cfg)
	if err != nil {
		return exitcode.For(handleParseArgsError(err))
	}

	setupLogging(cfg.Stderr, flags.debug)

	if flags.version {
		return exitcode.For(printVersion(cfg.Stdout))
	}

	err = run(ctx, flags, cfg)
	if err != nil {
		handleRunError(err)
	}

	return exitcode.For(err)
}

func getBuildInfo() (*debug.BuildInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return nil, ErrReadBuildInfo
	}

	return buildInfo, nil
}
