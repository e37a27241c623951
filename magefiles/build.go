//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Module compiles every package.
func (Build) Module() error {
	return executeCmd("go", "build", "./...")
}

// Vet runs the static checks.
func (Build) Vet() error {
	return executeCmd("go", "vet", "./...")
}
