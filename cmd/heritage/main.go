// Package main is the entry point for the heritage CLI.
package main

import (
	"os"

	"heritage/cmd/heritage/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(commands.ExitCode(err))
	}
}
