// Command game-system is the headless companion of the dashboard: it lists the
// catalog, wakes the services and calls both models from the terminal.
package main

import (
	"fmt"
	"os"
)

var exit = os.Exit

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}
