//go:build mage

// Package main provides build targets for izposoja using Mage.
//
// Usage:
//
//	mage build    Compile the izposoja binary to bin/
//	mage test     Run all tests
//	mage vet      Run go vet
//	mage clean    Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName = "izposoja"
	binaryDir  = "bin"
	cmdDir     = "./cmd/izposoja"
)

// Default target when mage is run without arguments.
var Default = Build

// Build compiles the izposoja binary to bin/.
func Build() error {
	mg.Deps(Vet)
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	return sh.RunV("go", "build", "-ldflags", "-X main.version="+version,
		"-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Vet runs go vet on all packages.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}
