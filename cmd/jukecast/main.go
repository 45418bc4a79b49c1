package main

import (
	"os"

	"github.com/jukecast/jukecast/cmd/jukecast/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.PrintErr("Error: %v", err)
		os.Exit(1)
	}
}
