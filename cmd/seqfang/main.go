// Package main provides the entry point for the seqfang CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/seqfang/cmd/seqfang/commands"
	"github.com/Sumatoshi-tech/seqfang/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := commands.NewRootCommand()

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
