// Package main provides the entry point for the strom CLI tool.
package main

import (
	"os"

	"github.com/ACiDekCZ/strom-sub000/internal/cmd"
	"github.com/ACiDekCZ/strom-sub000/pkg/logging"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		logging.Err(err).Msg("command failed")
		os.Exit(1)
	}
}
