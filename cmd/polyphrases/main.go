package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:     "polyphrases",
	Short:   "Poly Phrases daily newsletter and illustration jobs",
	Version: "0.1.0",
	// errors are printed once by main
	SilenceErrors: true,
	SilenceUsage:  true,
}

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Send today's phrase to the next batch of due subscribers",
	Args:  cobra.NoArgs,
	RunE:  runDispatch,
}

var illustrateCmd = &cobra.Command{
	Use:   "illustrate",
	Short: "Generate and store the illustration for one phrase",
	Args:  cobra.NoArgs,
	RunE:  runIllustrate,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run dispatch and illustrate from the configured cron schedules",
	Args:  cobra.NoArgs,
	RunE:  runSchedule,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./config.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable step-by-step trace logging")

	illustrateCmd.Flags().String("date", "", "phrase date to illustrate (YYYY-MM-DD), defaults to the earliest phrase without an image")

	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(illustrateCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
