package cmd

import (
	"os"

	"github.com/mezonai/forktips/logx"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "forktips",
	Short: "Fork tip registry tooling",
	Long:  "Command line interface for driving and inspecting the registry of competing chain tips.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
