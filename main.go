package main

import (
	"os"

	"github.com/temirov/gitmaster/cmd/cli"
)

// main executes the gitmaster command-line application.
func main() {
	os.Exit(cli.Run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}
