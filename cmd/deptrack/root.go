package main

import (
	"github.com/spf13/cobra"
)

const deptrackVersion = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "deptrack",
	Short: "deptrack - incremental module dependency graph for watch-mode test selection",
	Long: `deptrack maintains a persistent, incremental file dependency graph so a test
runner's watch mode can answer "which entry files are affected by these changes"
without re-scanning the whole repository on every save.`,
	Version: deptrackVersion,
}

func init() {
	rootCmd.SetVersionTemplate("deptrack version {{.Version}}\n")
}
