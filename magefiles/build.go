//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the scatterplot project using Mage.
//
// Usage:
//
//	mage build             Compile the scatter binary to bin/
//	mage test:all          Run all tests (unit and integration)
//	mage test:unit         Run only unit tests
//	mage test:integration  Build, then run the binary-level tests
//	mage test:race         Run unit tests with the race detector
//	mage fmt               Check gofmt on every source tree
//	mage lint              Run fmt, then golangci-lint with .golangci.yml
//	mage sample            Seed ./.scatter-db with the sample client
//	mage stats             Print Go lines per layer, engine vs collaborators
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "scatter"
	binaryDir  = "bin"
	cmdDir     = "./cmd/scatter"
	modulePath = "github.com/mesh-intelligence/scatterplot"
)

// ldflags stamps the version from SCATTER_VERSION when it is set.
func ldflags() string {
	v := os.Getenv("SCATTER_VERSION")
	if v == "" {
		return ""
	}
	return "-X main.version=" + v
}

// Build compiles the scatter binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-ldflags", ldflags(), "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Sample initializes a local data directory and seeds the sample client.
func Sample() error {
	mg.Deps(Build)
	if err := os.MkdirAll(".scatter-db", 0o755); err != nil {
		return err
	}
	return sh.RunV(filepath.Join(binaryDir, binaryName), "init", "--sample", "--data-dir", ".scatter-db")
}
