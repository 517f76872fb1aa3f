// Package main is the entry point for the bomv CLI tool.
package main

import (
	"os"

	"github.com/bomview/bomview/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
