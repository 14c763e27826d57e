// Package main provides the certguard CLI for exemption certificate disposition.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "certguard",
	Short: "Tax-exemption certificate disposition engine",
	Long:  "certguard evaluates extracted tax-exemption certificate fields against jurisdiction rule tables and produces a traceable disposition for each certificate.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
