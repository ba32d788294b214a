// ABOUTME: Entry point for the leishvet CLI
// ABOUTME: Command-line client for the LeishVet diagnosis service

package main

import (
	"fmt"
	"os"

	"github.com/leishvet/leishvet-cli/cmd"
	"github.com/leishvet/leishvet-cli/internal/logger"
)

func main() {
	logger.Init()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
