package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "studyswaps",
	Short:         "My Study Swaps learning service",
	Long:          "HTTP API for parent and child accounts, AI-generated assessments, scoring and revision guides.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
