// Command geobridge evaluates geometry scripts and prints the scene prims
// they translate to.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
