// clipdeck is a terminal soundboard: nine triggers, a clip catalog and a simulation mode
//
// Usage:
//
//	clipdeck run
//	clipdeck import <file>...
//	clipdeck list
//	clipdeck map <trigger> [<sound-id>]
//	clipdeck fire <trigger>
package main

import (
	"fmt"
	"os"

	"github.com/lixenwraith/clipdeck/core"
)

func main() {
	// Panic Recovery: restore the terminal even if the UI crashes
	defer core.Recover()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
