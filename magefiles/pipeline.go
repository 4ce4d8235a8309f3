//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Harvest builds the CLI and runs every configured provider harvest.
func Harvest() error {
	mg.Deps(Build)
	return runCLI("harvest")
}

// Load builds the CLI and runs the transform-and-load stage.
func Load() error {
	mg.Deps(Build)
	return runCLI("load")
}

// Refresh runs a full harvest followed by a load.
func Refresh() error {
	mg.SerialDeps(Harvest, Load)
	return nil
}

func runCLI(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
