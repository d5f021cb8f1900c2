package main

import (
	"fmt"
	"os"

	"github.com/prajnadip/vigraha/internal"
	"github.com/spf13/cobra"
)

const sampleCorpus = `rule: a + i -> e (guna sandhi)
rule: a + u -> o (guna sandhi)
rule: a + a -> aa (savarna dirgha sandhi)
rule: i + i -> ii (savarna dirgha sandhi)
rule: final ah + voiced consonant -> o (visarga sandhi)
`

func NewInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a workspace",
		Long:  `Create the workspace directory with a default config and a starter corpus.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.MkdirAll(a.ws.Path, 0755); err != nil {
				return fmt.Errorf("create workspace: %w", err)
			}

			if _, err := os.Stat(a.ws.ConfigPath()); os.IsNotExist(err) {
				if err := internal.SaveConfig(a.ws, a.cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", a.ws.ConfigPath())
			}

			corpusPath := a.ws.CorpusPath(a.cfg)
			if _, err := os.Stat(corpusPath); os.IsNotExist(err) {
				if err := os.WriteFile(corpusPath, []byte(sampleCorpus), 0644); err != nil {
					return fmt.Errorf("write corpus: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (starter corpus, replace with your own)\n", corpusPath)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Workspace ready. Run 'vigraha index rebuild' next.")
			return nil
		},
	}
}
