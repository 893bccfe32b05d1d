package main

import (
	"os"

	"github.com/empath-labs/intake-server/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
