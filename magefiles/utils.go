//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
)

// executeCmd runs a command with stdout/stderr attached to the terminal.
func executeCmd(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", name, args, err)
	}
	return nil
}
