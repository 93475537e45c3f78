package main

import (
	"os"

	"causalml/cmd/causalml/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
