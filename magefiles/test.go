//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Unit runs the whole test suite.
func (Test) Unit() error {
	return executeCmd("go", "test", "./...")
}

// Cover runs the suite with the race detector and coverage reporting.
func (Test) Cover() error {
	return executeCmd("go", "test", "-race", "-cover", "./...")
}
