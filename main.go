// The main package for the breeder-control executable.
package main

import (
	"github.com/breederops/breeder-control/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
