package main

import (
	"os"

	"github.com/earlysvahn/unitsense/cmd/unitsense/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
