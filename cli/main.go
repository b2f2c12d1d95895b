// Command lotwire is the operator CLI for the Lotwire webhook relay.
// It sends signed test deliveries and manages the relay's dead letter
// queue. See cmd for the subcommand tree.
package main

import (
	"os"

	"github.com/lotwire-systems/lotwire-relay/cli/cmd"
)

func main() {
	// Cobra prints the error; the exit code is all that is left to do.
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
