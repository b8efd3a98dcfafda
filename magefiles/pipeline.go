//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Generate builds the CLI and runs one auto-selected pipeline for the next
// category in the rotation.
func Generate() error {
	mg.Deps(Build)
	return sh.RunV("bin/"+binName, "generate", "--auto")
}

// Status prints artifact counts and recent runs.
func Status() error {
	mg.Deps(Build)
	return sh.RunV("bin/"+binName, "status")
}
