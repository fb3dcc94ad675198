// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"github.com/magefile/mage/target"
)

var env map[string]string //nolint:gochecknoglobals

func init() { //nolint:gochecknoinits
	env = make(map[string]string)

	gobin, exists := os.LookupEnv("GOBIN")
	if !exists {
		gobin = "./gobin"
	}

	if gobin != "" {
		p, err := filepath.Abs(gobin)
		if err == nil {
			gobin = p
		}
	}

	env["GOBIN"] = gobin
}

// Install packstream from the working tree to gobin directory.
func Install() error {
	path := filepath.Join(env["GOBIN"], "packstream")

	mod, err := target.Dir(path, "cmd", "internal", "go.mod")
	if err != nil {
		return err
	}

	if !mod {
		return nil
	}

	return sh.RunWith(env, "go", "install", "./cmd/packstream")
}

// Run all tests with race detector and coverage.
func Test() error {
	return sh.RunWithV(env, "go", "test",
		"-race",
		"-timeout", "2m",
		"-cover",
		"-coverprofile", "/tmp/packstream-cover.out",
		"./...",
	)
}

// Compress and decompress the given file with the installed binary.
func Roundtrip(file string) error {
	mg.Deps(Install)

	bin := filepath.Join(env["GOBIN"], "packstream")

	err := sh.RunV(bin, "-stream", "-progress", file)
	if err != nil {
		return err
	}

	out := file + ".roundtrip"

	err = sh.Copy(out+".lzma", file+".lzma")
	if err != nil {
		return err
	}

	defer os.Remove(out + ".lzma")
	defer os.Remove(file + ".lzma")

	err = sh.RunV(bin, "-stream", "-decompress", out+".lzma")
	if err != nil {
		return err
	}

	defer os.Remove(out)

	return sh.RunV("cmp", file, out)
}

// Remove volatile files.
func Clean() error {
	return sh.Rm(env["GOBIN"])
}
