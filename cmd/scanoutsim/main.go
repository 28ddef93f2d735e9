// Command scanoutsim runs the plane assignment engine against the in-memory
// device model and reports its decisions: which compositing mode was chosen,
// which view landed on which plane at which zpos, and why the rest fell back
// to GPU compositing.
package main

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/wlkit/scanout"
)

var version = "dev"

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "scanoutsim",
	Short: "Simulate hardware plane assignment",
	Long: `scanoutsim drives the scanout plane assignment engine over a synthetic
scene and a configurable in-memory device model, without any real hardware.

It prints the per-view decision table and can render the resulting plane
layout to a PNG.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		lvl := log.WarnLevel
		switch {
		case verbosity == 1:
			lvl = log.InfoLevel
		case verbosity >= 2:
			lvl = log.DebugLevel
		}
		handler := log.NewWithOptions(os.Stderr, log.Options{
			Level:           lvl,
			ReportTimestamp: false,
		})
		scanout.SetLogger(slog.New(handler))
	},
}

func main() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase log verbosity (-v info, -vv debug)")
	rootCmd.AddCommand(simulateCmd, planesCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
