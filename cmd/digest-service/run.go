package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ipo-hype-tracker/internal/digest/dto"
	"ipo-hype-tracker/pkg/common"

	"github.com/spf13/cobra"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Executes one digest run and prints its summary",
	RunE:  runOnce,
}

func runOnce(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Pipeline.RunTimeout)
	defer cancel()

	summary, runErr := a.digestService.Run(ctx, dto.RunRequest{Trigger: common.TriggerCLI, DryRun: dryRun})
	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
	if runErr != nil {
		cmd.SilenceUsage = true
		return fmt.Errorf("digest run %s: %w", summary.RunID, runErr)
	}
	return nil
}
