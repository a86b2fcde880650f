// Command propertysheet hosts the demo property sheets: it prints schemas,
// applies payloads, edits values in the terminal and serves the sheet over
// HTTP.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
