package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prajnadip/vigraha/internal"
	"github.com/spf13/cobra"
)

func NewIndexCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage the principle index",
		Long:  `Rebuild or inspect the persisted similarity index over the rule corpus.`,
	}

	cmd.AddCommand(
		newIndexRebuildCmd(a),
		newIndexStatusCmd(a),
	)

	return cmd
}

func newIndexRebuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the index from the corpus",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.engine.Rebuild(cmd.Context()); err != nil {
				return fmt.Errorf("rebuild index: %w", err)
			}

			index, err := a.engine.Index(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Index rebuilt: %d principles.\n", index.Len())
			return nil
		},
	}
}

func newIndexStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show index status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backend: %s\n", a.cfg.Index.Backend)
			fmt.Fprintf(out, "Path:    %s\n", a.ws.IndexPath())
			fmt.Fprintf(out, "Corpus:  %s\n", a.ws.CorpusPath(a.cfg))

			name := internal.FlatFilename
			if a.cfg.Index.Backend == "annoy" {
				name = internal.AnnoyIndexFilename
			}
			if _, err := os.Stat(filepath.Join(a.ws.IndexPath(), name)); os.IsNotExist(err) {
				fmt.Fprintln(out, "State:   not built (run 'vigraha index rebuild')")
			} else {
				fmt.Fprintln(out, "State:   persisted")
			}
			return nil
		},
	}
}
