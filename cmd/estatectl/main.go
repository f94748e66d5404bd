// Package main provides the estatectl entry point, a command line client for the real estate analysis
// backend.
package main

import (
	"fmt"
	"os"

	"github.com/MegaGrindStone/estate-analyst-web/cmd/estatectl/internal/cli"
)

func main() {
	app := cli.NewApp()
	if err := app.CreateRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
