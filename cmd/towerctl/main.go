// towerctl is the command-line companion to the tower engine: it
// computes and normalizes tower documents without the HTTP service.
package main

import (
	"os"

	"github.com/warp/tower-engine/cmd/towerctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
