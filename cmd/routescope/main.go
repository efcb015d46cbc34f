// Package main is the routescope command line tool. It builds topology models
// for route files on disk and prints them as JSON, DOT or Mermaid.
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
