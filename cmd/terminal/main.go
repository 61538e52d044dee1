package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:          "terminal",
		Short:        "Festival top-up terminal: scan a tag, check, confirm, book",
		Version:      Version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(topUpCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(pendingCmd())
	rootCmd.AddCommand(replayCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
