package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

// @title IPO Hype Digest API
// @version 1.0
// @description Ranks upcoming IPOs by hype score and emails the digest to subscribers.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{
		Use:   "digest-service",
		Short: "Ranks upcoming IPOs by hype score and emails the digest",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-digest.yaml", "Path to the configuration file")

	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Rank and render without sending email")

	rootCmd.AddCommand(serveCmd, runCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing digest-service CLI: %s\n", err)
		os.Exit(1)
	}
}
