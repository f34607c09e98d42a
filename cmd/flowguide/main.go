package main

import (
	"fmt"
	"os"

	"github.com/vikasavnish/flowguide/cmd/flowguide/commands"
)

// Version information, set with -ldflags at release time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersion(version, commit, date)

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
