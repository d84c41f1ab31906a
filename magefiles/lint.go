//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binLint    = "golangci-lint"
	binGofmt   = "gofmt"
	lintConfig = ".golangci.yml"
)

// formatDirs are the source trees checked by Fmt.
var formatDirs = []string{"cmd", "internal", "pkg", "tests", "magefiles"}

// Fmt fails if any Go file under formatDirs is not gofmt-clean.
func Fmt() error {
	args := append([]string{"-l"}, formatDirs...)
	out, err := sh.Output(binGofmt, args...)
	if err != nil {
		return err
	}
	if files := strings.Fields(out); len(files) > 0 {
		return fmt.Errorf("gofmt needed on %d file(s):\n  %s", len(files), strings.Join(files, "\n  "))
	}
	return nil
}

// Lint checks formatting, then runs golangci-lint with the project config.
func Lint() error {
	mg.Deps(Fmt)
	return sh.RunV(binLint, "run", "--config", lintConfig, "./...")
}
