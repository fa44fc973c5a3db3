// Package main is the entry point for the emotiond worker.
//
// Usage:
//
//	emotiond [flags] <command> [args]
//
// Commands:
//
//	run        - Run the line-protocol worker loop (stdin/stdout)
//	analyze    - Analyze a single audio file and print the result
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/emokit/emotiond/cmd/emotiond/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
