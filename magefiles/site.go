//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// siteDir holds the MyST project.
const siteDir = "doc"

// Docs converts the reports and builds the static MyST site.
func Docs() error {
	mg.Deps(Convert)
	return myst("build", "--html")
}

// DocsLive converts the reports and serves the MyST site with live reload.
func DocsLive() error {
	mg.Deps(Convert)
	return myst("start")
}

// myst runs the MyST CLI inside siteDir.
func myst(args ...string) error {
	cmd := exec.Command("myst", args...)
	cmd.Dir = siteDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("myst %s: %w", args[0], err)
	}
	return nil
}
