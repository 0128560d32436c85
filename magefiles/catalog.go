//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// runBinary invokes the built CLI with the given arguments.
func runBinary(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Validate checks the catalog document for structural problems.
func Validate() error {
	mg.Deps(Build)
	return runBinary("validate")
}

// Render writes the HTML site for the catalog.
func Render() error {
	mg.Deps(Build)
	return runBinary("render")
}

// Reindex rebuilds the search index from the catalog document.
func Reindex() error {
	mg.Deps(Build)
	return runBinary("index", "store")
}
