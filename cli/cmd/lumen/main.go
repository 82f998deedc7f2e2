// Lumen CLI - image description service for low-vision users.
package main

import (
	"os"

	"github.com/lumen-labs/lumen/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
