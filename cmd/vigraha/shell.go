package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/prajnadip/vigraha/internal"
	"github.com/spf13/cobra"
)

func NewShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive analysis session",
		Long: `Start an interactive session. Each line is analyzed; session commands:
  :history      list past analyses, newest first
  :replay N     re-display entry N without re-running the analysis
  :audio        analyze one spoken utterance
  :quit         end the session`,
		RunE: makeShellRunner(a),
	}
}

func makeShellRunner(a *app) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		session, err := a.engine.NewSession(cmd.Context())
		if err != nil {
			return fmt.Errorf("initialize session: %w", err)
		}
		defer session.Close()

		out := cmd.OutOrStdout()
		scanner := bufio.NewScanner(cmd.InOrStdin())

		fmt.Fprintln(out, "vigraha: enter a Sanskrit compound, or :quit to leave.")
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				break
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			verb, arg := parseShellLine(line)
			switch verb {
			case shellQuit:
				return nil
			case shellHistory:
				printHistory(cmd, session)
			case shellReplay:
				replayEntry(cmd, session, arg)
			case shellAudio:
				runShellQuery(cmd, session, func() (*internal.HistoryEntry, error) {
					fmt.Fprintln(out, "Recording... speak now.")
					return session.SubmitAudio(cmd.Context())
				})
			default:
				runShellQuery(cmd, session, func() (*internal.HistoryEntry, error) {
					return session.SubmitText(cmd.Context(), line)
				})
			}
		}
		return scanner.Err()
	}
}

type shellVerb int

const (
	shellAnalyze shellVerb = iota
	shellHistory
	shellReplay
	shellAudio
	shellQuit
)

func parseShellLine(line string) (shellVerb, string) {
	if !strings.HasPrefix(line, ":") {
		return shellAnalyze, line
	}

	fields := strings.Fields(line)
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case ":history":
		return shellHistory, ""
	case ":replay":
		return shellReplay, arg
	case ":audio":
		return shellAudio, ""
	case ":quit", ":q", ":exit":
		return shellQuit, ""
	default:
		// Unknown commands are analyzed as text so a stray colon never
		// swallows input.
		return shellAnalyze, line
	}
}

func runShellQuery(cmd *cobra.Command, session *internal.Session, submit func() (*internal.HistoryEntry, error)) {
	entry, err := submit()
	if errors.Is(err, internal.ErrAmbiguousAudio) {
		fmt.Fprintln(cmd.OutOrStdout(), "Could not understand the audio, please try again.")
		return
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "analyze: %v\n", err)
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n[%d] %s\n%s\n\n", len(session.History())-1, entry.Input, entry.Result.GeneratedText)
}

func printHistory(cmd *cobra.Command, session *internal.Session) {
	entries := session.History()
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No analyses yet.")
		return
	}

	// Entries come newest first; number them by append order.
	for i, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%3d  %s\n", len(entries)-1-i, e.Input)
	}
}

func replayEntry(cmd *cobra.Command, session *internal.Session, arg string) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "usage: :replay N")
		return
	}

	entry, err := session.Replay(index)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "replay: %v\n", err)
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n%s\n\n", entry.Input, entry.Result.GeneratedText)
}
