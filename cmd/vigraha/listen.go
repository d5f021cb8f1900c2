package main

import (
	"errors"
	"fmt"

	"github.com/prajnadip/vigraha/internal"
	"github.com/spf13/cobra"
)

func NewListenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Analyze one spoken utterance",
		Long:  `Capture one utterance, transcribe it, analyze the result, and speak the answer.`,
		RunE:  makeListenRunner(a),
	}

	cmd.Flags().Bool("quiet", false, "Do not speak the result")
	return cmd
}

func makeListenRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")
		asJSON, _ := cmd.Flags().GetBool("json")

		if !a.cfg.Audio.Enabled {
			return fmt.Errorf("audio is disabled; set audio.enabled in %s", a.ws.ConfigPath())
		}

		session, err := a.engine.NewSession(cmd.Context())
		if err != nil {
			return fmt.Errorf("initialize session: %w", err)
		}
		defer session.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "Recording... speak now.")

		entry, err := session.SubmitAudio(cmd.Context())
		if errors.Is(err, internal.ErrAmbiguousAudio) {
			return fmt.Errorf("could not understand the audio, please try again")
		}
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Heard: %s\n\n", entry.Input)
		if err := printEntry(cmd, entry, false, asJSON); err != nil {
			return err
		}

		if !quiet {
			if err := session.Speak(cmd.Context(), entry.Result.GeneratedText); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "speech output failed: %v\n", err)
			}
		}
		return nil
	}
}
