// Package main is the entry point for the lence CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/lencelabs/lence/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
