package main

import (
	"github.com/spf13/cobra"
)

func NewRootCmd(version string, a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vigraha",
		Short:         "Sandhi analysis for Sanskrit compounds",
		Long:          `Splits Sanskrit compound words into their constituents using retrieval over a sandhi rule corpus and a generative model.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	if a != nil {
		rootCmd.AddCommand(
			NewInitCmd(a),
			NewAnalyzeCmd(a),
			NewListenCmd(a),
			NewShellCmd(a),
			NewIndexCmd(a),
			NewWatchCmd(a),
		)
	}

	return rootCmd
}
