package main

import (
	"os"

	"sae/cmd/sae/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
