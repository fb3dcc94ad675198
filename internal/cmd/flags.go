// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"

	"github.com/aibor/packstream/internal/archive"
)

const (
	name = "packstream"

	jobsDefault = 4
	jobsMin     = 1
	jobsMax     = 64

	usageMessage = `Usage of 'packstream':
    packstream [flags...] output input...
    packstream -stream [flags...] input...

Build an archive from files:
	packstream -format=tar -method=zstd out.tar.zst ./a ./b/c

Build an archive from a directory tree:
	packstream -pattern='*.go' out.zip ./src

Compress files individually into LZMA streams (input.lzma):
	packstream -stream -jobs=8 ./data/*.bin

All packstream flags can also be provided via environment variable
PACKSTREAM_ARGS:
	PACKSTREAM_ARGS="-progress -debug" packstream out.zip ./src

All packstream flags can also be provided via file ./.packstream-args, with
one argument per line.
`
)

type flags struct {
	output string
	inputs FilePathList

	format      archive.Format
	method      archive.Method
	root        FilePath
	pattern     string
	noRecursion bool
	password    string

	stream     bool
	decompress bool
	jobs       uint64

	progress bool
	debug    bool
	version  bool

	flagSet *flag.FlagSet
}

func newFlags(output io.Writer) *flags {
	flags := &flags{
		format: archive.FormatZip,
		jobs:   jobsDefault,
	}

	flags.initFlagset(output)

	return flags
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage

	flagSet.TextVar(
		&f.format,
		"format",
		f.format,
		"archive format: zip, tar, cpio",
	)

	flagSet.TextVar(
		&f.method,
		"method",
		f.method,
		"compression method: store, deflate, gzip, zstd, lz4, xz "+
			"(default depends on format)",
	)

	flagSet.Var(
		&f.root,
		"root",
		"root directory item names are relative to "+
			"(default is the common root of all inputs)",
	)

	flagSet.StringVar(
		&f.pattern,
		"pattern",
		f.pattern,
		"file name pattern for directory input (default \"*\")",
	)

	flagSet.BoolVar(
		&f.noRecursion,
		"norecurse",
		f.noRecursion,
		"do not descend into sub directories of directory input",
	)

	flagSet.StringVar(
		&f.password,
		"password",
		f.password,
		"archive password (not supported by any format yet)",
	)

	flagSet.Var(
		&f.inputs,
		"files",
		"additional input files. Flag may be used more than once. "+
			"Empty value clears the list.",
	)

	flagSet.BoolVar(
		&f.stream,
		"stream",
		f.stream,
		"compress each input into a single LZMA stream instead of an archive",
	)

	flagSet.BoolVar(
		&f.decompress,
		"decompress",
		f.decompress,
		"decompress LZMA streams (requires -stream)",
	)

	flagSet.Var(
		&LimitedUintValue{
			Value: &f.jobs,
			Lower: jobsMin,
			Upper: jobsMax,
		},
		"jobs",
		"number of streams processed in parallel",
	)

	flagSet.BoolVar(
		&f.progress,
		"progress",
		f.progress,
		"print progress on stderr",
	)

	flagSet.BoolVar(
		&f.debug,
		"debug",
		f.debug,
		"enable debug output",
	)

	flagSet.BoolVar(
		&f.version,
		"version",
		f.version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

func (f *flags) ParseArgs(args []string) error {
	err := f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	if f.version {
		return nil
	}

	if f.decompress && !f.stream {
		return f.fail("-decompress requires -stream", nil)
	}

	positionalArgs := f.flagSet.Args()

	// In archive mode the first positional argument is the output file.
	if !f.stream {
		if len(positionalArgs) < 1 {
			return f.fail("no output given", nil)
		}

		output, err := AbsoluteFilePath(positionalArgs[0])
		if err != nil {
			return f.fail("output path", err)
		}

		f.output = output
		positionalArgs = positionalArgs[1:]
	}

	for _, arg := range positionalArgs {
		input, err := AbsoluteFilePath(arg)
		if err != nil {
			return f.fail("input path", err)
		}

		f.inputs = append(f.inputs, input)
	}

	if len(f.inputs) == 0 {
		return f.fail("no input given", nil)
	}

	return nil
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}

func parseArgs(args []string, output io.Writer) (*flags, error) {
	flags := newFlags(output)

	err := flags.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	return flags, nil
}
