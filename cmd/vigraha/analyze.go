package main

import (
	"encoding/json"
	"fmt"

	"github.com/prajnadip/vigraha/internal"
	"github.com/spf13/cobra"
)

func NewAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <text>",
		Short: "Analyze a Sanskrit compound",
		Long:  `Retrieve the most relevant sandhi principles and generate a full vigraha for the input.`,
		Args:  cobra.ExactArgs(1),
		RunE:  makeAnalyzeRunner(a),
	}

	cmd.Flags().Bool("speak", false, "Speak the result aloud")
	cmd.Flags().Bool("principles", false, "Show the retrieved principles")
	return cmd
}

func makeAnalyzeRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		speak, _ := cmd.Flags().GetBool("speak")
		showPrinciples, _ := cmd.Flags().GetBool("principles")
		asJSON, _ := cmd.Flags().GetBool("json")

		session, err := a.engine.NewSession(cmd.Context())
		if err != nil {
			return fmt.Errorf("initialize session: %w", err)
		}
		defer session.Close()

		entry, err := session.SubmitText(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}

		if err := printEntry(cmd, entry, showPrinciples, asJSON); err != nil {
			return err
		}

		if speak {
			if err := session.Speak(cmd.Context(), entry.Result.GeneratedText); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "speech output failed: %v\n", err)
			}
		}
		return nil
	}
}

func printEntry(cmd *cobra.Command, entry *internal.HistoryEntry, showPrinciples, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	}

	fmt.Fprintln(cmd.OutOrStdout(), entry.Result.GeneratedText)
	if showPrinciples {
		fmt.Fprintln(cmd.OutOrStdout(), "\nPrinciples used:")
		for _, p := range entry.Result.UsedPrinciples {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
		}
	}
	return nil
}
